// README: In-memory document store used for local runs and tests.
package docstore

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"ridehail/internal/types"
)

type memCollection struct {
	order []types.ID
	docs  map[types.ID]map[string]any
}

type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

func (s *MemoryStore) collection(name string) *memCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[types.ID]map[string]any)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Create(_ context.Context, collection string, doc any) (types.ID, error) {
	id := types.NewID()
	m, err := toDocument(doc, id)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	c.docs[id] = m
	c.order = append(c.order, id)
	return id, nil
}

func (s *MemoryStore) FindOne(_ context.Context, collection string, id types.ID, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	return decodeInto(doc, out)
}

func (s *MemoryStore) Find(_ context.Context, collection string, filter Filter, limit int, out any) error {
	want, err := normalizeFilter(filter)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]map[string]any, 0)
	if c, ok := s.collections[collection]; ok {
		for _, id := range c.order {
			doc := c.docs[id]
			if !matches(doc, want) {
				continue
			}
			matched = append(matched, doc)
			if limit > 0 && len(matched) == limit {
				break
			}
		}
	}
	return decodeInto(matched, out)
}

func (s *MemoryStore) Count(_ context.Context, collection string, filter Filter) (int64, error) {
	want, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	var n int64
	for _, doc := range c.docs {
		if matches(doc, want) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdateFields(ctx context.Context, collection string, id types.ID, fields Fields) error {
	_, err := s.UpdateIf(ctx, collection, id, nil, fields)
	return err
}

func (s *MemoryStore) UpdateIf(_ context.Context, collection string, id types.ID, cond Filter, fields Fields) (bool, error) {
	want, err := normalizeFilter(cond)
	if err != nil {
		return false, err
	}
	set := make(map[string]any, len(fields))
	for k, v := range fields {
		n, err := normalize(v)
		if err != nil {
			return false, fmt.Errorf("field %s: %w", k, err)
		}
		set[k] = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		return false, ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return false, ErrNotFound
	}
	if !matches(doc, want) {
		return false, nil
	}
	for k, v := range set {
		doc[k] = v
	}
	return true, nil
}

func (s *MemoryStore) Increment(_ context.Context, collection string, id types.ID, field string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		return 0, ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return 0, ErrNotFound
	}
	var cur int64
	switch v := doc[field].(type) {
	case nil:
	case float64:
		if v != math.Trunc(v) {
			return 0, ErrBadCounter
		}
		cur = int64(v)
	default:
		return 0, ErrBadCounter
	}
	next := cur + delta
	doc[field] = float64(next)
	return next, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Collections(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name, c := range s.collections {
		if len(c.docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func normalizeFilter(f Filter) (map[string]any, error) {
	out := make(map[string]any, len(f))
	for k, v := range f {
		n, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

func matches(doc map[string]any, want map[string]any) bool {
	for k, v := range want {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false
		}
	}
	return true
}
