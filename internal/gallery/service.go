// Package gallery coordinates the object store and the group metadata for
// the image lifecycle: upload, listing with presigned URLs, single-image
// deletion and group deletion cascading to stored objects.
//
// The two stores share no transaction. Deleting a group removes its row
// first and its objects second; if the second step fails the objects stay
// behind until PurgeGroupObjects or SweepOrphans removes them.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/imagevault/service/internal/apperr"
	"github.com/imagevault/service/internal/group"
	"github.com/imagevault/service/internal/storage"
)

// DefaultPresignTTL is how long listing URLs stay valid.
const DefaultPresignTTL = time.Hour

// GroupStore is the metadata the service needs about groups. Errors are
// expected to carry an apperr kind (group.Service does this).
type GroupStore interface {
	Get(ctx context.Context, id string) (*group.Group, error)
	Delete(ctx context.Context, id string) error
}

// Image is one stored image as presented to clients.
type Image struct {
	URL          string
	Key          string
	Name         string
	LastModified time.Time
	Size         int64
}

// Service is the group-scoped image service. It holds no per-request state.
type Service struct {
	store      storage.Storage
	groups     GroupStore
	presignTTL time.Duration
}

// NewService creates a new gallery Service. A non-positive presignTTL
// falls back to DefaultPresignTTL.
func NewService(store storage.Storage, groups GroupStore, presignTTL time.Duration) *Service {
	if presignTTL <= 0 {
		presignTTL = DefaultPresignTTL
	}
	return &Service{store: store, groups: groups, presignTTL: presignTTL}
}

// AuthorizeGroup loads the group and checks that userID owns it.
func (s *Service) AuthorizeGroup(ctx context.Context, groupID, userID string) (*group.Group, error) {
	if groupID == "" {
		return nil, apperr.Validation("Group ID is required")
	}
	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return nil, classify(err, "load group")
	}
	if g.UserID != userID {
		return nil, apperr.Forbidden("Forbidden: You do not own this group")
	}
	return g, nil
}

// ListImages returns every image of the group with a presigned read URL,
// in the order the store lists them. A group without images yields an
// empty slice.
func (s *Service) ListImages(ctx context.Context, groupID string) ([]Image, error) {
	if groupID == "" {
		return nil, apperr.Validation("Group ID is required")
	}

	images := []Image{}
	err := s.walk(ctx, ImagePrefix(groupID), func(page storage.Page) error {
		for _, obj := range page.Objects {
			if strings.HasSuffix(obj.Key, "/") {
				continue
			}
			url, err := s.store.PresignGet(ctx, obj.Key, s.presignTTL)
			if err != nil {
				return err
			}
			images = append(images, Image{
				URL:          url,
				Key:          obj.Key,
				Name:         path.Base(obj.Key),
				LastModified: obj.LastModified,
				Size:         obj.Size,
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("Failed to retrieve images", err)
	}
	return images, nil
}

// UploadImage stores body under the group's image prefix and returns the
// key. An existing image with the same name is overwritten.
func (s *Service) UploadImage(ctx context.Context, groupID, fileName string, body io.Reader, size int64, contentType string) (string, error) {
	if groupID == "" {
		return "", apperr.Validation("Group ID is required")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", apperr.Validation("Invalid file type")
	}
	if !validFileName(fileName) {
		return "", apperr.Validation("Invalid file name")
	}

	key := ImageKey(groupID, fileName)
	if err := s.store.Upload(ctx, key, body, size, contentType); err != nil {
		return "", apperr.Storage("File upload failed", err)
	}
	log.Debug().Str("group_id", groupID).Str("key", key).Int64("size", size).Msg("image uploaded")
	return key, nil
}

// DeleteImage removes one image. fileName may also be the image's full key
// as returned by ListImages. Deleting a missing image succeeds.
func (s *Service) DeleteImage(ctx context.Context, groupID, fileName string) error {
	if groupID == "" {
		return apperr.Validation("Group ID is required")
	}

	name := fileName
	if strings.HasPrefix(fileName, rootPrefix) {
		keyGroup, keyName, ok := ParseImageKey(fileName)
		if !ok || keyGroup != groupID {
			return apperr.Validation("File path does not belong to this group")
		}
		name = keyName
	}
	if !validFileName(name) {
		return apperr.Validation("File path is required")
	}

	if err := s.store.Delete(ctx, ImageKey(groupID, name)); err != nil {
		return apperr.Storage("Failed to delete file", err)
	}
	return nil
}

// DeleteGroup verifies ownership, deletes the group row and then purges the
// group's objects. When the purge fails the row stays deleted and the
// returned error is a storage error; the objects are orphaned until a later
// purge or sweep.
func (s *Service) DeleteGroup(ctx context.Context, groupID, ownerUserID string) error {
	g, err := s.AuthorizeGroup(ctx, groupID, ownerUserID)
	if err != nil {
		return err
	}
	groupID = g.ID

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return classify(err, "delete group")
	}

	deleted, err := s.PurgeGroupObjects(ctx, groupID)
	if err != nil {
		log.Warn().Err(err).
			Str("group_id", groupID).
			Int("deleted", deleted).
			Msg("group row deleted but stored images remain")
		return err
	}

	log.Info().Str("group_id", groupID).Int("deleted", deleted).Msg("group deleted")
	return nil
}

// PurgeGroupObjects deletes every object under the group prefix, one batch
// delete per listed page, and reports how many keys it removed.
func (s *Service) PurgeGroupObjects(ctx context.Context, groupID string) (int, error) {
	if groupID == "" {
		return 0, apperr.Validation("Group ID is required")
	}

	prefix := GroupPrefix(groupID)
	deleted := 0
	err := s.walk(ctx, prefix, func(page storage.Page) error {
		if len(page.Objects) == 0 {
			return nil
		}
		keys := make([]string, 0, len(page.Objects))
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}
		if err := s.store.DeleteBatch(ctx, keys); err != nil {
			return err
		}
		deleted += len(keys)
		log.Debug().Str("prefix", prefix).Int("count", len(keys)).Msg("deleted objects")
		return nil
	})
	if err != nil {
		return deleted, apperr.Storage("Failed to delete group images", err)
	}
	return deleted, nil
}

// SweepOrphans purges the objects of every group prefix whose group row no
// longer exists and reports how many keys it removed.
func (s *Service) SweepOrphans(ctx context.Context) (int, error) {
	var prefixes []string
	cursor := ""
	for {
		page, err := s.store.List(ctx, storage.ListOptions{
			Prefix:    rootPrefix,
			Delimiter: "/",
			Cursor:    cursor,
			MaxKeys:   storage.MaxPageSize,
		})
		if err != nil {
			return 0, apperr.Storage("list group prefixes", err)
		}
		prefixes = append(prefixes, page.Prefixes...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	removed := 0
	var errs []error
	for _, p := range prefixes {
		groupID := strings.TrimSuffix(strings.TrimPrefix(p, rootPrefix), "/")
		_, err := s.groups.Get(ctx, groupID)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return removed, classify(err, "check group")
		}

		n, err := s.PurgeGroupObjects(ctx, groupID)
		removed += n
		if err != nil {
			errs = append(errs, fmt.Errorf("purge orphaned group %s: %w", groupID, err))
			continue
		}
		log.Info().Str("group_id", groupID).Int("deleted", n).Msg("purged orphaned images")
	}
	return removed, errors.Join(errs...)
}

// walk feeds every page under prefix to fn, following the continuation
// cursor until the store reports the listing is exhausted.
func (s *Service) walk(ctx context.Context, prefix string, fn func(storage.Page) error) error {
	cursor := ""
	for {
		page, err := s.store.List(ctx, storage.ListOptions{
			Prefix:  prefix,
			Cursor:  cursor,
			MaxKeys: storage.MaxPageSize,
		})
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// classify keeps apperr kinds from the group store and treats anything else
// as a persistence failure.
func classify(err error, op string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Persistence(op, err)
}
