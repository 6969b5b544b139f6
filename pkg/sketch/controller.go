package sketch

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
)

// Controller owns one grid and the active fill mode.
type Controller struct {
	mode      Mode
	grid      *Grid
	container float64
	rng       *rand.Rand
	logger    *log.Logger
	stats     Stats
}

// Option configures a Controller.
type Option func(*Controller)

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(c *Controller) { c.mode = m } }

// WithRand sets the random source used by ModeRainbow.
func WithRand(r *rand.Rand) Option { return func(c *Controller) { c.rng = r } }

// WithSeed seeds the random source used by ModeRainbow.
func WithSeed(seed uint64) Option {
	return func(c *Controller) { c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithContainer sets the container edge in pixels.
func WithContainer(px float64) Option { return func(c *Controller) { c.container = px } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// New creates a controller holding a DefaultSize grid in ModeBlack.
func New(opts ...Option) *Controller {
	c := &Controller{
		mode:      ModeBlack,
		container: DefaultContainerPx,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.container <= 0 {
		c.container = DefaultContainerPx
	}
	if !c.mode.Valid() {
		c.mode = ModeBlack
	}
	c.grid, _ = NewGrid(DefaultSize)
	return c
}

// NewWithSize creates a controller holding an n×n grid. Like New, it
// starts with zero Stats.
func NewWithSize(n int, opts ...Option) (*Controller, error) {
	g, err := NewGrid(n)
	if err != nil {
		return nil, err
	}
	c := New(opts...)
	c.grid = g
	return c, nil
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode { return c.mode }

// Size returns the grid's cells per side.
func (c *Controller) Size() int { return c.grid.Size() }

// Len returns the number of cells in the grid.
func (c *Controller) Len() int { return c.grid.Len() }

// At returns the color of one cell.
func (c *Controller) At(row, col int) (RGB, error) { return c.grid.At(row, col) }

// Cells returns a row-major copy of the grid.
func (c *Controller) Cells() []RGB { return c.grid.Cells() }

// Container returns the fixed container edge in pixels.
func (c *Controller) Container() float64 { return c.container }

// CellEdge returns the edge length of a single cell in pixels.
func (c *Controller) CellEdge() float64 { return c.grid.CellEdge(c.container) }

// Stats returns counters of the operations performed so far.
func (c *Controller) Stats() Stats { return c.stats }

// Reseed replaces the rainbow generator with one seeded by seed.
func (c *Controller) Reseed(seed uint64) {
	WithSeed(seed)(c)
}

// SetMode activates m. Existing cells keep their colors.
func (c *Controller) SetMode(m Mode) error {
	if !m.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(m))
	}
	if m == c.mode {
		return nil
	}
	prev := c.mode
	c.mode = m
	c.logger.Debug("mode changed", "from", prev, "to", m)
	observability.Sketch().OnModeChange(prev.String(), m.String())
	return nil
}

// BuildGrid replaces the lattice with a fresh n×n grid of white cells.
func (c *Controller) BuildGrid(n int) error {
	g, err := NewGrid(n)
	if err != nil {
		return err
	}
	prev := 0
	if c.grid != nil {
		prev = c.grid.Size()
	}
	c.grid = g
	c.stats.Resizes++
	c.logger.Debug("grid built", "size", n, "cells", g.Len(), "edge", fmt.Sprintf("%.2fpx", c.CellEdge()))
	observability.Sketch().OnResize(prev, n)
	return nil
}

// Fill colors the cell at row, col according to the active mode and returns
// the new color. An unrecognized mode leaves the cell untouched.
func (c *Controller) Fill(row, col int) (RGB, error) {
	cur, err := c.grid.At(row, col)
	if err != nil {
		return RGB{}, err
	}

	var next RGB
	switch c.mode {
	case ModeBlack:
		next = Black
	case ModeGreyscale:
		next = cur.Dim(DimStep)
	case ModeRainbow:
		next = RandomRGB(c.rng)
	default:
		return cur, nil
	}

	_ = c.grid.Set(row, col, next)
	c.stats.Fills[c.mode]++
	observability.Sketch().OnFill(c.mode.String())
	return next, nil
}

// Clear whitens every cell. Size and mode are unchanged.
func (c *Controller) Clear() {
	n := c.grid.Clear()
	c.stats.Clears++
	observability.Sketch().OnClear(n)
}

// Resize makes a single attempt to rebuild the grid from a size answer.
// Invalid answers return an INVALID_SIZE error and leave the grid alone.
func (c *Controller) Resize(input string) error {
	n, err := ParseSize(input)
	if err != nil {
		return err
	}
	c.Clear()
	return c.BuildGrid(n)
}

// ChangeSize asks p for a new size until it answers with a valid one or
// cancels. It reports whether the grid was rebuilt.
func (c *Controller) ChangeSize(p Prompter) (bool, error) {
	for {
		answer, ok := p.Prompt(SizePrompt)
		if isCancel(answer, ok) {
			c.logger.Debug("resize cancelled")
			return false, nil
		}
		n, err := ParseSize(answer)
		if err != nil {
			c.logger.Debug("resize answer rejected", "answer", answer, "err", errors.UserMessage(err))
			continue
		}
		c.Clear()
		return true, c.BuildGrid(n)
	}
}

// Dispatch applies one host event.
func (c *Controller) Dispatch(ev Event) error {
	switch e := ev.(type) {
	case HoverEvent:
		_, err := c.Fill(e.Row, e.Col)
		return err
	case ModeEvent:
		return c.SetMode(e.Mode)
	case ClearEvent:
		c.Clear()
		return nil
	case ResizeEvent:
		return c.Resize(e.Input)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported event %T", ev)
	}
}

// Stats counts controller operations.
type Stats struct {
	Fills   [numModes]int
	Clears  int
	Resizes int
}

// FillsFor returns the number of fills performed in mode m.
func (s Stats) FillsFor(m Mode) int {
	if !m.Valid() {
		return 0
	}
	return s.Fills[m]
}

// TotalFills returns the number of fills across all modes.
func (s Stats) TotalFills() int {
	total := 0
	for _, n := range s.Fills {
		total += n
	}
	return total
}
