package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/imagevault/service/internal/apperr"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

type createdCall struct {
	user      NewUser
	groupName string
}

type fakeStore struct {
	existing map[string]bool
	created  []createdCall
	deleted  []string
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: map[string]bool{}}
}

func (f *fakeStore) CreateUserWithGroup(_ context.Context, u NewUser, groupName string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.existing[u.ExternalID] {
		return false, nil
	}
	f.existing[u.ExternalID] = true
	f.created = append(f.created, createdCall{user: u, groupName: groupName})
	return true, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, externalID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.deleted = append(f.deleted, externalID)
	ok := f.existing[externalID]
	delete(f.existing, externalID)
	return ok, nil
}

func userCreated(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"type": EventUserCreated,
		"data": map[string]any{
			"id":                       "user_2abc",
			"primary_email_address_id": "idn_2",
			"email_addresses": []map[string]string{
				{"id": "idn_1", "email_address": "old@example.com"},
				{"id": "idn_2", "email_address": "ana@example.com"},
			},
			"first_name": "Ana",
			"last_name":  "Lima",
		},
	})
	require.NoError(t, err)
	return payload
}

func signedRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	wh, err := svix.NewWebhook(testSecret)
	require.NoError(t, err)

	now := time.Now()
	sig, err := wh.Sign("msg_1", now, payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", sig)
	return req
}

func newTestHandler(t *testing.T, store Store) *Handler {
	t.Helper()
	h, err := NewHandler(NewService(store), testSecret)
	require.NoError(t, err)
	return h
}

func TestNewHandlerRequiresSecret(t *testing.T) {
	_, err := NewHandler(NewService(newFakeStore()), "")
	assert.Error(t, err)
}

func TestReceiveUserCreated(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(t, store)

	w := httptest.NewRecorder()
	h.Receive(w, signedRequest(t, userCreated(t)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook received")
	require.Len(t, store.created, 1)

	got := store.created[0]
	assert.Equal(t, DefaultGroupName, got.groupName)
	assert.Equal(t, "user_2abc", got.user.ExternalID)
	assert.Equal(t, "ana@example.com", got.user.Email)
	require.NotNil(t, got.user.Name)
	assert.Equal(t, "Ana Lima", *got.user.Name)
}

func TestReceiveRedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(t, store)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.Receive(w, signedRequest(t, userCreated(t)))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, store.created, 1)
}

func TestReceiveRejections(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(t, store)

	t.Run("missing headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewReader(userCreated(t)))
		w := httptest.NewRecorder()
		h.Receive(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing Svix headers")
	})

	t.Run("tampered payload", func(t *testing.T) {
		req := signedRequest(t, userCreated(t))
		req.Body = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"type":"user.created","data":{"id":"evil"}}`))).Body
		w := httptest.NewRecorder()
		h.Receive(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Verification error")
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHandler(NewService(store), "whsec_"+base64.StdEncoding.EncodeToString([]byte("another-secret-another-secret-!!")))
		require.NoError(t, err)
		w := httptest.NewRecorder()
		other.Receive(w, signedRequest(t, userCreated(t)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid user payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Receive(w, signedRequest(t, []byte(`{"type":"user.created","data":{}}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid user payload")
	})

	assert.Empty(t, store.created)
}

func TestReceivePersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	h := newTestHandler(t, store)

	w := httptest.NewRecorder()
	h.Receive(w, signedRequest(t, userCreated(t)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process webhook")
}

func TestHandleEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("email and name fallbacks", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)
		err := svc.Handle(ctx, Event{Type: EventUserCreated, Data: json.RawMessage(`{"id":"user_x"}`)})
		require.NoError(t, err)
		require.Len(t, store.created, 1)
		assert.Equal(t, fallbackEmail, store.created[0].user.Email)
		assert.Nil(t, store.created[0].user.Name)
	})

	t.Run("first name only", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)
		err := svc.Handle(ctx, Event{Type: EventUserCreated, Data: json.RawMessage(
			`{"id":"user_y","first_name":"Ana","email_addresses":[{"id":"e1","email_address":"a@example.com"}]}`)})
		require.NoError(t, err)
		require.NotNil(t, store.created[0].user.Name)
		assert.Equal(t, "Ana", *store.created[0].user.Name)
		assert.Equal(t, "a@example.com", store.created[0].user.Email)
	})

	t.Run("user deleted", func(t *testing.T) {
		store := newFakeStore()
		store.existing["user_z"] = true
		svc := NewService(store)
		err := svc.Handle(ctx, Event{Type: EventUserDeleted, Data: json.RawMessage(`{"id":"user_z"}`)})
		require.NoError(t, err)
		assert.Equal(t, []string{"user_z"}, store.deleted)
	})

	t.Run("unknown event ignored", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)
		require.NoError(t, svc.Handle(ctx, Event{Type: "session.created"}))
		assert.Empty(t, store.created)
		assert.Empty(t, store.deleted)
	})

	t.Run("store failure is a persistence error", func(t *testing.T) {
		store := newFakeStore()
		store.err = errors.New("boom")
		svc := NewService(store)
		err := svc.Handle(ctx, Event{Type: EventUserDeleted, Data: json.RawMessage(`{"id":"user_z"}`)})
		assert.ErrorIs(t, err, apperr.ErrPersistence)
	})
}
