package group

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/imagevault/service/internal/response"
	"github.com/imagevault/service/internal/user"
)

// Identity resolves the authenticated user of a request.
type Identity interface {
	Current(ctx context.Context) (*user.User, error)
}

// Handler holds HTTP handlers for group endpoints. Group deletion lives in
// the gallery package because it cascades to stored images.
type Handler struct {
	svc   *Service
	users Identity
}

// NewHandler creates a new group Handler.
func NewHandler(svc *Service, users Identity) *Handler {
	return &Handler{svc: svc, users: users}
}

type createGroupRequest struct {
	Name string `json:"name" example:"Trips"`
}

type groupResponse struct {
	Group *Group `json:"group"`
}

type groupsResponse struct {
	Groups []Group `json:"groups"`
}

// List godoc
//
//	@Summary		List groups
//	@Description	Returns every group owned by the authenticated user.
//	@Tags			groups
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	groupsResponse
//	@Failure		401	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/user-groups [get]
//	@Router			/user-groups/fetch-groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, "Failed to fetch groups")
		return
	}

	groups, err := h.svc.List(r.Context(), u.ID)
	if err != nil {
		response.Err(w, err, "Failed to fetch groups")
		return
	}

	response.OK(w, groupsResponse{Groups: groups})
}

// Create godoc
//
//	@Summary		Create group
//	@Description	Creates a named group owned by the authenticated user.
//	@Tags			groups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createGroupRequest	true	"Group name"
//	@Success		201		{object}	groupResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/user-groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, "Failed to create group")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	g, err := h.svc.Create(r.Context(), u.ID, req.Name)
	if err != nil {
		response.Err(w, err, "Failed to create group")
		return
	}

	response.Created(w, groupResponse{Group: g})
}
