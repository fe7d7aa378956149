package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/imagevault/service/internal/response"
)

// maxPayloadBytes bounds webhook bodies; user events are a few KiB.
const maxPayloadBytes = 1 << 20

// Handler receives identity-provider webhooks.
type Handler struct {
	svc *Service
	wh  *svix.Webhook
}

// NewHandler creates a webhook Handler verifying payloads with signingSecret
// ("whsec_..." as issued by the provider's dashboard).
func NewHandler(svc *Service, signingSecret string) (*Handler, error) {
	if signingSecret == "" {
		return nil, errors.New("webhook signing secret is empty")
	}
	wh, err := svix.NewWebhook(signingSecret)
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, wh: wh}, nil
}

// Receive godoc
//
//	@Summary		Identity webhook
//	@Description	Receives signed user lifecycle events. user.created creates the user with a default group; user.deleted removes the user and their groups.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			svix-id			header		string	true	"Message id"
//	@Param			svix-timestamp	header		string	true	"Unix timestamp"
//	@Param			svix-signature	header		string	true	"Signature list"
//	@Success		200				{object}	response.Result
//	@Failure		400				{object}	response.ErrorBody
//	@Failure		500				{object}	response.ErrorBody
//	@Router			/webhooks/identity [post]
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("svix-id") == "" || r.Header.Get("svix-timestamp") == "" || r.Header.Get("svix-signature") == "" {
		response.BadRequest(w, "Missing Svix headers")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil || len(payload) == 0 {
		response.BadRequest(w, "Request body is empty")
		return
	}

	if err := h.wh.Verify(payload, r.Header); err != nil {
		log.Warn().Err(err).Str("svix_id", r.Header.Get("svix-id")).Msg("webhook verification failed")
		response.BadRequest(w, "Verification error")
		return
	}

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.svc.Handle(r.Context(), evt); err != nil {
		response.Err(w, err, "Failed to process webhook")
		return
	}

	response.Success(w, "Webhook received")
}
