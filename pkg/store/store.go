// Package store persists named sketches.
//
// A sketch is saved as a [Record]: the grid size, the active mode and every
// cell color as a hex string, encoded as YAML. Three backends implement
// [Store]:
//
//   - [LocalStore] keeps records in the per-user data directory via gdata.
//     This is the default for the CLI.
//   - [RedisStore] shares records between server instances.
//   - [MemoryStore] lives only as long as the process, for tests and
//     throwaway servers.
//
// All backends validate names with [errors.ValidateSketchName] and report
// missing sketches with [errors.ErrCodeSketchNotFound].
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/etchgrid/pkg/config"
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// Store saves and loads sketches by name.
type Store interface {
	// Save writes rec under rec.Name, replacing any sketch with that name.
	Save(ctx context.Context, rec Record) error

	// Load returns the sketch saved under name.
	Load(ctx context.Context, name string) (Record, error)

	// Delete removes the sketch saved under name.
	Delete(ctx context.Context, name string) error

	// List returns saved sketch names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	// Close releases resources.
	Close() error
}

// Record is the stored form of a sketch.
type Record struct {
	ID      uuid.UUID `yaml:"id"`
	Name    string    `yaml:"name"`
	Size    int       `yaml:"size"`
	Mode    string    `yaml:"mode"`
	Cells   []string  `yaml:"cells,flow"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FromSnapshot builds a record named name from a controller snapshot.
func FromSnapshot(name string, s sketch.Snapshot) (Record, error) {
	if err := errors.ValidateSketchName(name); err != nil {
		return Record{}, err
	}
	if err := s.Validate(); err != nil {
		return Record{}, err
	}
	cells := make([]string, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = c.Hex()
	}
	return Record{
		ID:      uuid.New(),
		Name:    name,
		Size:    s.Size,
		Mode:    s.Mode.String(),
		Cells:   cells,
		SavedAt: time.Now().UTC(),
	}, nil
}

// Snapshot decodes the record back into a snapshot that a controller can
// restore.
func (r Record) Snapshot() (sketch.Snapshot, error) {
	mode, err := sketch.ParseMode(r.Mode)
	if err != nil {
		return sketch.Snapshot{}, err
	}
	cells := make([]sketch.RGB, len(r.Cells))
	for i, h := range r.Cells {
		c, err := sketch.ParseColor(h)
		if err != nil {
			return sketch.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "sketch %q cell %d", r.Name, i)
		}
		cells[i] = c
	}
	s := sketch.Snapshot{Size: r.Size, Mode: mode, Cells: cells}
	if err := s.Validate(); err != nil {
		return sketch.Snapshot{}, err
	}
	return s, nil
}

func (r Record) validate() error {
	if err := errors.ValidateSketchName(r.Name); err != nil {
		return err
	}
	_, err := r.Snapshot()
	return err
}

// prepare validates rec and assigns an ID and timestamp if missing.
func prepare(rec Record) (Record, error) {
	if err := rec.validate(); err != nil {
		return Record{}, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	return rec, nil
}

// reportLoad emits the load hook. A missing sketch is a miss, not a failure.
func reportLoad(ctx context.Context, backend string, err error) {
	if errors.IsNotFound(err) {
		observability.Store().OnLoad(ctx, backend, false, nil)
		return
	}
	observability.Store().OnLoad(ctx, backend, err == nil, err)
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeSketchNotFound, "sketch %q not found", name)
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendLocal, "":
		s, err := NewLocalStore(cfg.AppName)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := NewRedisStore(ctx, RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
}
