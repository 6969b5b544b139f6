package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
)

// MemoryStore keeps encoded records in a map. Records round-trip through
// the YAML codec so it behaves like the persistent backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Backend() string { return "memory" }

func (s *MemoryStore) Save(ctx context.Context, rec Record) (err error) {
	defer func() { observability.Store().OnSave(ctx, s.Backend(), rec.Size, err) }()

	rec, err = prepare(rec)
	if err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[rec.Name] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, name string) (rec Record, err error) {
	defer func() { reportLoad(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return Record{}, notFound(name)
	}
	return decodeRecord(data)
}

func (s *MemoryStore) Delete(ctx context.Context, name string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return notFound(name)
	}
	delete(s.data, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
