package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/etchgrid/pkg/config"
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

func drawnRecord(t *testing.T, name string) Record {
	t.Helper()
	c, err := sketch.NewWithSize(4, sketch.WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fill(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.SetMode(sketch.ModeRainbow); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fill(3, 3); err != nil {
		t.Fatal(err)
	}
	rec, err := FromSnapshot(name, c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

// testStore exercises the behavior every backend shares.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := s.Load(ctx, "nope")
		if !errors.Is(err, errors.ErrCodeSketchNotFound) {
			t.Errorf("Load missing = %v, want SKETCH_NOT_FOUND", err)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		rec := drawnRecord(t, "cat")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load(ctx, "cat")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.ID != rec.ID || got.Size != 4 || got.Mode != "rainbow" {
			t.Errorf("Load = %+v", got)
		}
		snap, err := got.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snap.At(0, 0) != sketch.Black {
			t.Errorf("cell (0,0) = %v, want black", snap.At(0, 0))
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		rec := drawnRecord(t, "cat")
		rec.Mode = "black"
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Load(ctx, "cat")
		if got.Mode != "black" {
			t.Errorf("Mode = %q after overwrite", got.Mode)
		}
		names, _ := s.List(ctx)
		if count(names, "cat") != 1 {
			t.Errorf("List = %v, want one cat", names)
		}
	})

	t.Run("list sorted", func(t *testing.T) {
		for _, n := range []string{"zebra", "apple"} {
			if err := s.Save(ctx, drawnRecord(t, n)); err != nil {
				t.Fatal(err)
			}
		}
		names, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"apple", "cat", "zebra"}
		if fmt.Sprint(names) != fmt.Sprint(want) {
			t.Errorf("List = %v, want %v", names, want)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "apple"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Load(ctx, "apple"); !errors.IsNotFound(err) {
			t.Errorf("Load after Delete = %v", err)
		}
		if err := s.Delete(ctx, "apple"); !errors.Is(err, errors.ErrCodeSketchNotFound) {
			t.Errorf("second Delete = %v", err)
		}
		names, _ := s.List(ctx)
		if count(names, "apple") != 0 {
			t.Errorf("List still has apple: %v", names)
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", "../etc", "a b", "-x"} {
			rec := drawnRecord(t, "ok")
			rec.Name = name
			if err := s.Save(ctx, rec); !errors.Is(err, errors.ErrCodeInvalidName) {
				t.Errorf("Save(%q) = %v, want INVALID_NAME", name, err)
			}
			if _, err := s.Load(ctx, name); !errors.Is(err, errors.ErrCodeInvalidName) {
				t.Errorf("Load(%q) = %v, want INVALID_NAME", name, err)
			}
		}
	})

	t.Run("corrupt record", func(t *testing.T) {
		rec := drawnRecord(t, "bad")
		rec.Cells = rec.Cells[:3]
		if err := s.Save(ctx, rec); !errors.IsInvalid(err) {
			t.Errorf("Save with short cells = %v, want invalid", err)
		}
	})
}

func count(names []string, name string) int {
	n := 0
	for _, v := range names {
		if v == name {
			n++
		}
	}
	return n
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	s, err := NewLocalStore(fmt.Sprintf("etchgrid_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("ETCHGRID_TEST_REDIS")
	if addr == "" {
		t.Skip("ETCHGRID_TEST_REDIS not set")
	}
	ctx := context.Background()
	prefix := fmt.Sprintf("etchgrid:test:%s:", uuid.NewString())
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	defer func() {
		names, _ := s.List(ctx)
		for _, n := range names {
			_ = s.Delete(ctx, n)
		}
	}()
	testStore(t, s)
}

func TestRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"redis nil", redis.Nil, false},
		{"canceled", context.Canceled, false},
		{"eof", fmt.Errorf("read: %w", io.EOF), true},
		{"other", fmt.Errorf("WRONGTYPE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if s.Backend() != "memory" {
		t.Errorf("Backend = %q", s.Backend())
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: "mongo"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend = %v", err)
	}
}

func TestRecordSnapshotRoundTrip(t *testing.T) {
	rec := drawnRecord(t, "x")
	if rec.ID == uuid.Nil {
		t.Error("FromSnapshot should assign an ID")
	}
	data, err := encodeRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	back, err := decodeRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := back.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := rec.Snapshot()
	for i := range orig.Cells {
		if orig.Cells[i] != snap.Cells[i] {
			t.Fatalf("cell %d = %v, want %v", i, snap.Cells[i], orig.Cells[i])
		}
	}
}

func TestRecordSnapshotRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"bad mode", func(r *Record) { r.Mode = "sepia" }},
		{"bad color", func(r *Record) { r.Cells[0] = "#zzzzzz" }},
		{"bad size", func(r *Record) { r.Size = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := drawnRecord(t, "x")
			tt.mutate(&rec)
			if _, err := rec.Snapshot(); !errors.IsInvalid(err) {
				t.Errorf("Snapshot() = %v, want invalid", err)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	var ix index
	ix = ix.add("b").add("a").add("c").add("a")
	if fmt.Sprint(ix) != "[a b c]" {
		t.Errorf("index = %v", ix)
	}
	ix = ix.remove("b").remove("missing")
	if fmt.Sprint(ix) != "[a c]" {
		t.Errorf("index = %v", ix)
	}
	data, _ := encodeIndex(ix)
	back, err := decodeIndex(data)
	if err != nil || fmt.Sprint(back) != "[a c]" {
		t.Errorf("decodeIndex = %v, %v", back, err)
	}
}

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	mu    sync.Mutex
	saves int
	hits  []bool
}

func (h *recordingStoreHooks) OnSave(context.Context, string, int, error) {
	h.mu.Lock()
	h.saves++
	h.mu.Unlock()
}

func (h *recordingStoreHooks) OnLoad(_ context.Context, _ string, hit bool, _ error) {
	h.mu.Lock()
	h.hits = append(h.hits, hit)
	h.mu.Unlock()
}

func TestStoreHooks(t *testing.T) {
	h := &recordingStoreHooks{}
	observability.SetStoreHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Save(ctx, drawnRecord(t, "a"))
	_, _ = s.Load(ctx, "a")
	_, _ = s.Load(ctx, "b")

	if h.saves != 1 {
		t.Errorf("saves = %d, want 1", h.saves)
	}
	if fmt.Sprint(h.hits) != "[true false]" {
		t.Errorf("hits = %v, want [true false]", h.hits)
	}
}
