package store

import (
	"context"
	"sync"

	"github.com/quasilyte/gdata/v2"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
)

const (
	sketchesObject = "sketches"
	indexObject    = "index"
	indexProp      = "names"
)

// LocalStore saves sketches in the per-user application data directory.
// Each sketch is one property of the "sketches" object; a separate index
// property lists the names so List does not depend on directory scans.
type LocalStore struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// NewLocalStore opens the data directory for appName.
func NewLocalStore(appName string) (*LocalStore, error) {
	if appName == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "local store needs an app name")
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open data dir for %s", appName)
	}
	return &LocalStore{m: m}, nil
}

func (s *LocalStore) Backend() string { return "local" }

func (s *LocalStore) Save(ctx context.Context, rec Record) (err error) {
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
	defer s.mu.Unlock()

	if err := s.m.SaveObjectProp(sketchesObject, rec.Name, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save sketch %q", rec.Name)
	}
	ix, err := s.loadIndex()
	if err != nil {
		return err
	}
	return s.saveIndex(ix.add(rec.Name))
}

func (s *LocalStore) Load(ctx context.Context, name string) (rec Record, err error) {
	defer func() { reportLoad(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(sketchesObject, name) {
		return Record{}, notFound(name)
	}
	data, err := s.m.LoadObjectProp(sketchesObject, name)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "load sketch %q", name)
	}
	return decodeRecord(data)
}

func (s *LocalStore) Delete(ctx context.Context, name string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(sketchesObject, name) {
		return notFound(name)
	}
	if err := s.m.DeleteObjectProp(sketchesObject, name); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete sketch %q", name)
	}
	ix, err := s.loadIndex()
	if err != nil {
		return err
	}
	return s.saveIndex(ix.remove(name))
}

func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ix, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	// Drop names whose sketch vanished underneath the index.
	names := make([]string, 0, len(ix))
	for _, name := range ix {
		if s.m.ObjectPropExists(sketchesObject, name) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *LocalStore) Close() error { return nil }

func (s *LocalStore) loadIndex() (index, error) {
	if !s.m.ObjectPropExists(indexObject, indexProp) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(indexObject, indexProp)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load sketch index")
	}
	return decodeIndex(data)
}

func (s *LocalStore) saveIndex(ix index) error {
	data, err := encodeIndex(ix)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode sketch index")
	}
	if err := s.m.SaveObjectProp(indexObject, indexProp, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save sketch index")
	}
	return nil
}

var _ Store = (*LocalStore)(nil)
