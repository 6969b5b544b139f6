package sketch

import (
	"testing"

	"github.com/matzehuels/etchgrid/pkg/errors"
)

func newTestController(t *testing.T, size int) *Controller {
	t.Helper()
	c, err := NewWithSize(size, WithSeed(42))
	if err != nil {
		t.Fatalf("NewWithSize(%d) error: %v", size, err)
	}
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Size() != DefaultSize {
		t.Errorf("Size() = %d, want %d", c.Size(), DefaultSize)
	}
	if c.Mode() != ModeBlack {
		t.Errorf("Mode() = %v, want %v", c.Mode(), ModeBlack)
	}
	if c.Container() != DefaultContainerPx {
		t.Errorf("Container() = %v, want %v", c.Container(), DefaultContainerPx)
	}
}

func TestBuildGridAllSizes(t *testing.T) {
	c := newTestController(t, DefaultSize)

	for n := MinSize; n <= MaxSize; n++ {
		// Dirty the current lattice so leftovers would be visible.
		_, _ = c.Fill(0, 0)

		if err := c.BuildGrid(n); err != nil {
			t.Fatalf("BuildGrid(%d) error: %v", n, err)
		}
		if c.Size() != n {
			t.Fatalf("Size() = %d, want %d", c.Size(), n)
		}
		if c.Len() != n*n {
			t.Fatalf("Len() = %d, want %d", c.Len(), n*n)
		}
		for i, cell := range c.Cells() {
			if cell != White {
				t.Fatalf("BuildGrid(%d): cell %d = %v, want white", n, i, cell)
			}
		}
		if _, err := c.At(n-1, n-1); err != nil {
			t.Fatalf("At(%d, %d) error: %v", n-1, n-1, err)
		}
		if _, err := c.At(n, 0); !errors.Is(err, errors.ErrCodeOutOfBounds) {
			t.Fatalf("At(%d, 0) error = %v, want OUT_OF_BOUNDS", n, err)
		}
	}
}

func TestBuildGridRejectsOutOfRange(t *testing.T) {
	c := newTestController(t, 8)
	for _, n := range []int{-1, 0, 1, 65, 100} {
		err := c.BuildGrid(n)
		if !errors.Is(err, errors.ErrCodeInvalidSize) {
			t.Errorf("BuildGrid(%d) error = %v, want INVALID_SIZE", n, err)
		}
	}
	if c.Size() != 8 {
		t.Errorf("rejected BuildGrid changed size to %d", c.Size())
	}
}

func TestCellEdgeFractional(t *testing.T) {
	c := newTestController(t, 3)
	want := 500.0 / 3.0
	if got := c.CellEdge(); got != want {
		t.Errorf("CellEdge() = %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	c := newTestController(t, 10)
	_ = c.SetMode(ModeRainbow)
	for i := 0; i < 10; i++ {
		_, _ = c.Fill(i, i)
	}

	c.Clear()

	for i, cell := range c.Cells() {
		if cell != White {
			t.Fatalf("cell %d = %v after Clear, want white", i, cell)
		}
	}
	if c.Size() != 10 {
		t.Errorf("Clear changed size to %d", c.Size())
	}
	if c.Mode() != ModeRainbow {
		t.Errorf("Clear changed mode to %v", c.Mode())
	}
	if c.Stats().Clears != 1 {
		t.Errorf("Stats().Clears = %d, want 1", c.Stats().Clears)
	}
}

func TestFillBlackIdempotent(t *testing.T) {
	c := newTestController(t, 4)
	for i := 0; i < 5; i++ {
		got, err := c.Fill(1, 2)
		if err != nil {
			t.Fatalf("Fill error: %v", err)
		}
		if got != Black {
			t.Fatalf("fill %d = %v, want black", i, got)
		}
	}
	if c.Stats().FillsFor(ModeBlack) != 5 {
		t.Errorf("FillsFor(black) = %d, want 5", c.Stats().FillsFor(ModeBlack))
	}
}

func TestFillGreyscaleDims(t *testing.T) {
	c := newTestController(t, 4)
	if err := c.SetMode(ModeGreyscale); err != nil {
		t.Fatal(err)
	}

	want := 255
	for k := 1; k <= 12; k++ {
		got, err := c.Fill(0, 0)
		if err != nil {
			t.Fatalf("Fill error: %v", err)
		}
		want -= DimStep
		if want < 0 {
			want = 0
		}
		exp := RGB{uint8(want), uint8(want), uint8(want)}
		if got != exp {
			t.Fatalf("after %d fills got %v, want %v", k, got, exp)
		}
		if k >= 10 && got != Black {
			t.Fatalf("after %d fills got %v, want black", k, got)
		}
	}
}

func TestFillGreyscaleFloorsColoredCell(t *testing.T) {
	c := newTestController(t, 4)
	_ = c.grid.Set(0, 0, RGB{10, 200, 30})
	_ = c.SetMode(ModeGreyscale)

	got, _ := c.Fill(0, 0)
	if want := (RGB{0, 174, 4}); got != want {
		t.Errorf("Fill = %v, want %v", got, want)
	}
}

func TestFillRainbowSampling(t *testing.T) {
	c := newTestController(t, 4)
	_ = c.SetMode(ModeRainbow)

	seen := make(map[RGB]bool)
	const samples = 200
	for i := 0; i < samples; i++ {
		got, err := c.Fill(2, 2)
		if err != nil {
			t.Fatalf("Fill error: %v", err)
		}
		seen[got] = true
	}
	// uint8 channels are always within [0, 255]; what matters is variety.
	if len(seen) < samples/2 {
		t.Errorf("only %d distinct colors in %d rainbow fills", len(seen), samples)
	}
}

func TestFillUnknownModeNoop(t *testing.T) {
	c := newTestController(t, 4)
	c.mode = Mode(42)

	got, err := c.Fill(0, 0)
	if err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	if got != White {
		t.Errorf("Fill with unknown mode = %v, want white", got)
	}
	if c.Stats().TotalFills() != 0 {
		t.Errorf("TotalFills() = %d, want 0", c.Stats().TotalFills())
	}
}

func TestFillOutOfBounds(t *testing.T) {
	c := newTestController(t, 4)
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if _, err := c.Fill(rc[0], rc[1]); !errors.Is(err, errors.ErrCodeOutOfBounds) {
			t.Errorf("Fill(%d, %d) error = %v, want OUT_OF_BOUNDS", rc[0], rc[1], err)
		}
	}
}

func TestModeSwitchKeepsCells(t *testing.T) {
	c := newTestController(t, 4)
	_, _ = c.Fill(0, 0)
	_ = c.SetMode(ModeRainbow)
	painted, _ := c.Fill(1, 1)
	before := c.Cells()

	for _, m := range []Mode{ModeGreyscale, ModeBlack, ModeRainbow} {
		if err := c.SetMode(m); err != nil {
			t.Fatalf("SetMode(%v) error: %v", m, err)
		}
		after := c.Cells()
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("SetMode(%v) changed cell %d", m, i)
			}
		}
	}

	// The switch only affects the next fill.
	_ = c.SetMode(ModeGreyscale)
	got, _ := c.Fill(1, 1)
	if got != painted.Dim(DimStep) {
		t.Errorf("greyscale after rainbow = %v, want %v", got, painted.Dim(DimStep))
	}
}

func TestSetModeInvalid(t *testing.T) {
	c := newTestController(t, 4)
	if err := c.SetMode(Mode(-1)); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("SetMode(-1) error = %v, want INVALID_MODE", err)
	}
	if c.Mode() != ModeBlack {
		t.Errorf("Mode() = %v after invalid SetMode", c.Mode())
	}
}

func TestDispatch(t *testing.T) {
	c := newTestController(t, 16)

	steps := []struct {
		ev      Event
		wantErr errors.Code
	}{
		{ModeEvent{Mode: ModeGreyscale}, ""},
		{HoverEvent{Row: 0, Col: 0}, ""},
		{HoverEvent{Row: 99, Col: 0}, errors.ErrCodeOutOfBounds},
		{ResizeEvent{Input: "1"}, errors.ErrCodeInvalidSize},
		{ResizeEvent{Input: "8"}, ""},
		{ClearEvent{}, ""},
		{ModeEvent{Mode: Mode(7)}, errors.ErrCodeInvalidMode},
	}

	for i, s := range steps {
		err := c.Dispatch(s.ev)
		if got := errors.GetCode(err); got != s.wantErr {
			t.Fatalf("step %d (%T): code = %q, want %q (err %v)", i, s.ev, got, s.wantErr, err)
		}
	}

	if c.Size() != 8 {
		t.Errorf("Size() = %d, want 8", c.Size())
	}
	if c.Mode() != ModeGreyscale {
		t.Errorf("Mode() = %v, want greyscale", c.Mode())
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := newTestController(t, 5)
	_ = c.SetMode(ModeRainbow)
	_, _ = c.Fill(1, 3)
	_, _ = c.Fill(4, 4)
	snap := c.Snapshot()

	other := newTestController(t, 12)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if other.Size() != 5 || other.Mode() != ModeRainbow {
		t.Fatalf("restored size=%d mode=%v", other.Size(), other.Mode())
	}
	got, _ := other.At(1, 3)
	if got != snap.At(1, 3) {
		t.Errorf("restored cell = %v, want %v", got, snap.At(1, 3))
	}

	// Mutating the snapshot must not leak into the controller.
	snap.Cells[0] = Black
	if cell, _ := c.At(0, 0); cell != White {
		t.Errorf("snapshot shares storage with the controller")
	}
}

func TestRestoreRejectsBadSnapshot(t *testing.T) {
	c := newTestController(t, 4)
	bad := []Snapshot{
		{Size: 1, Cells: make([]RGB, 1)},
		{Size: 4, Cells: make([]RGB, 3)},
		{Size: 4, Mode: Mode(9), Cells: make([]RGB, 16)},
	}
	for i, s := range bad {
		if err := c.Restore(s); err == nil {
			t.Errorf("Restore(bad[%d]) succeeded", i)
		}
	}
	if c.Size() != 4 {
		t.Errorf("failed Restore changed size to %d", c.Size())
	}
}

func TestRestoreLeavesStatsAlone(t *testing.T) {
	c := newTestController(t, 6)
	_, _ = c.Fill(2, 2)
	snap := c.Snapshot()
	snap.Mode = ModeGreyscale
	before := c.Stats()

	if err := c.Restore(snap); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if got := c.Stats(); got != before {
		t.Errorf("Stats after Restore = %+v, want %+v", got, before)
	}
	if c.Mode() != ModeGreyscale {
		t.Errorf("Mode() = %v, want greyscale", c.Mode())
	}
	if cell, _ := c.At(2, 2); cell != Black {
		t.Errorf("restored cell = %v, want black", cell)
	}
}

func TestNewFallsBackToBlack(t *testing.T) {
	for _, m := range []Mode{Mode(-1), Mode(9)} {
		c := New(WithMode(m))
		if c.Mode() != ModeBlack {
			t.Errorf("New(WithMode(%d)).Mode() = %v, want black", int(m), c.Mode())
		}
		sized, err := NewWithSize(4, WithMode(m))
		if err != nil {
			t.Fatal(err)
		}
		if sized.Mode() != ModeBlack {
			t.Errorf("NewWithSize(4, WithMode(%d)).Mode() = %v, want black", int(m), sized.Mode())
		}
	}
}

func TestConstructorsStartWithZeroStats(t *testing.T) {
	sized, err := NewWithSize(8)
	if err != nil {
		t.Fatal(err)
	}
	if sized.Size() != 8 {
		t.Errorf("Size() = %d, want 8", sized.Size())
	}
	if _, err := NewWithSize(1); !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("NewWithSize(1) error = %v, want INVALID_SIZE", err)
	}
	for name, c := range map[string]*Controller{"New": New(), "NewWithSize": sized} {
		if got := c.Stats(); got != (Stats{}) {
			t.Errorf("%s: Stats() = %+v, want zero", name, got)
		}
	}
}
