package gallery

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/imagevault/service/internal/apperr"
	"github.com/imagevault/service/internal/group"
	"github.com/imagevault/service/internal/storage"
)

// memStorage is an in-memory storage.Storage that pages like S3: sorted
// keys, bounded pages, and a cursor naming the last entry returned.
type memStorage struct {
	mu      sync.Mutex
	objects map[string]storage.Object
	bodies  map[string][]byte

	listCalls   int
	uploads     int
	deletes     int
	batchCalls  int
	presigns    int
	listErr     error
	uploadErr   error
	batchErr    error
	presignedAt time.Duration
}

func newMemStorage() *memStorage {
	return &memStorage{
		objects: map[string]storage.Object{},
		bodies:  map[string][]byte{},
	}
}

func (m *memStorage) put(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storage.Object{Key: key, Size: 1, LastModified: time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)}
}

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memStorage) count(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func (m *memStorage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls + m.uploads + m.deletes + m.batchCalls + m.presigns
}

func (m *memStorage) List(_ context.Context, opts storage.ListOptions) (storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return storage.Page{}, m.listErr
	}

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	type entry struct {
		name     string
		isPrefix bool
	}
	var entries []entry
	seen := map[string]bool{}
	for _, k := range keys {
		if opts.Delimiter != "" {
			rest := strings.TrimPrefix(k, opts.Prefix)
			if i := strings.Index(rest, opts.Delimiter); i >= 0 {
				p := opts.Prefix + rest[:i+len(opts.Delimiter)]
				if !seen[p] {
					seen[p] = true
					entries = append(entries, entry{name: p, isPrefix: true})
				}
				continue
			}
		}
		entries = append(entries, entry{name: k})
	}

	start := 0
	for opts.Cursor != "" && start < len(entries) && entries[start].name <= opts.Cursor {
		start++
	}
	limit := opts.MaxKeys
	if limit <= 0 || limit > storage.MaxPageSize {
		limit = storage.MaxPageSize
	}
	end := min(start+limit, len(entries))

	page := storage.Page{}
	for _, e := range entries[start:end] {
		if e.isPrefix {
			page.Prefixes = append(page.Prefixes, e.name)
		} else {
			page.Objects = append(page.Objects, m.objects[e.name])
		}
	}
	if end < len(entries) {
		page.NextCursor = entries[end-1].name
	}
	return page, nil
}

func (m *memStorage) Upload(_ context.Context, key string, reader io.Reader, size int64, _ string) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[key] = storage.Object{Key: key, Size: size, LastModified: time.Now()}
	m.bodies[key] = body
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.objects, key)
	delete(m.bodies, key)
	return nil
}

func (m *memStorage) DeleteBatch(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, k := range keys {
		delete(m.objects, k)
		delete(m.bodies, k)
	}
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presigns++
	m.presignedAt = ttl
	return "https://store.test/" + key + "?X-Amz-Expires=" + ttl.String(), nil
}

// memGroups implements GroupStore with apperr-typed errors, like group.Service.
type memGroups struct {
	mu        sync.Mutex
	groups    map[string]*group.Group
	deleteErr error
}

func newMemGroups(groups ...*group.Group) *memGroups {
	m := &memGroups{groups: map[string]*group.Group{}}
	for _, g := range groups {
		m.groups[g.ID] = g
	}
	return m
}

func (m *memGroups) Get(_ context.Context, id string) (*group.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, apperr.NotFound("Group not found")
	}
	return g, nil
}

func (m *memGroups) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.groups[id]; !ok {
		return apperr.NotFound("Group not found")
	}
	delete(m.groups, id)
	return nil
}

func (m *memGroups) exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.groups[id]
	return ok
}
