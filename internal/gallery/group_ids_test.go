package gallery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/service/internal/group"
)

// pgGroups resolves ids the way Postgres casts text to uuid, so every
// spelling of an id reaches the same row.
type pgGroups struct {
	groups map[uuid.UUID]*group.Group
}

func (p *pgGroups) lookup(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	_, ok := p.groups[parsed]
	return parsed, ok
}

func (p *pgGroups) Create(context.Context, string, string) (*group.Group, error) {
	panic("not used")
}

func (p *pgGroups) ListByUser(context.Context, string) ([]group.Group, error) {
	panic("not used")
}

func (p *pgGroups) GetByID(_ context.Context, id string) (*group.Group, error) {
	key, ok := p.lookup(id)
	if !ok {
		return nil, group.ErrNotFound
	}
	return p.groups[key], nil
}

func (p *pgGroups) Delete(_ context.Context, id string) error {
	key, ok := p.lookup(id)
	if !ok {
		return group.ErrNotFound
	}
	delete(p.groups, key)
	return nil
}

func TestGroupIDAliasesCannotEscapeGroupPrefix(t *testing.T) {
	id := uuid.New()
	g := &group.Group{ID: id.String(), Name: "Trips", UserID: ownerID, CreatedAt: time.Now()}
	store := newMemStorage()
	svc := NewService(store, group.NewService(&pgGroups{groups: map[uuid.UUID]*group.Group{id: g}}), time.Hour)
	h := NewHandler(svc, owner(), 1<<20)

	aliases := []string{
		"{" + g.ID + "}",
		"urn:uuid:" + g.ID,
		strings.ToUpper(g.ID),
	}
	for _, alias := range aliases {
		t.Run(alias, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Upload(rec, multipartRequest(t, alias, &uploadPart{fileName: "a.png", contentType: "image/png", data: pngHeader}))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
	assert.Zero(t, store.uploads)

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartRequest(t, g.ID, &uploadPart{fileName: "a.png", contentType: "image/png", data: pngHeader}))
	require.Equal(t, http.StatusOK, rec.Code)

	images, err := svc.ListImages(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	require.NoError(t, svc.DeleteGroup(context.Background(), g.ID, ownerID))
	assert.Zero(t, store.count(rootPrefix))
}
