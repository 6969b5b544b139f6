package sketch

import "github.com/matzehuels/etchgrid/pkg/errors"

// Grid size bounds and defaults.
const (
	MinSize     = 2
	MaxSize     = 64
	DefaultSize = 16

	// DefaultContainerPx is the fixed edge length of the drawing area.
	DefaultContainerPx = 500
)

// Grid is an N×N lattice of cell colors stored row-major.
type Grid struct {
	size  int
	cells []RGB
}

// NewGrid returns an n×n grid of white cells.
func NewGrid(n int) (*Grid, error) {
	if err := ValidateSize(n); err != nil {
		return nil, err
	}
	g := &Grid{size: n, cells: make([]RGB, n*n)}
	g.Clear()
	return g, nil
}

// ValidateSize checks n against [MinSize, MaxSize].
func ValidateSize(n int) error {
	if n < MinSize || n > MaxSize {
		return errors.New(errors.ErrCodeInvalidSize, "size %d out of range %d-%d", n, MinSize, MaxSize)
	}
	return nil
}

// Size returns the number of cells per side.
func (g *Grid) Size() int { return g.size }

// Len returns the total number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// At returns the color of the cell at row, col.
func (g *Grid) At(row, col int) (RGB, error) {
	i, err := g.index(row, col)
	if err != nil {
		return RGB{}, err
	}
	return g.cells[i], nil
}

// Set paints the cell at row, col.
func (g *Grid) Set(row, col int, c RGB) error {
	i, err := g.index(row, col)
	if err != nil {
		return err
	}
	g.cells[i] = c
	return nil
}

// Clear whitens every cell and returns how many were visited.
func (g *Grid) Clear() int {
	for i := range g.cells {
		g.cells[i] = White
	}
	return len(g.cells)
}

// Cells returns a row-major copy of all cell colors.
func (g *Grid) Cells() []RGB {
	out := make([]RGB, len(g.cells))
	copy(out, g.cells)
	return out
}

// CellEdge returns the edge length of one cell when the grid fills a
// container of containerPx. The result may be fractional.
func (g *Grid) CellEdge(containerPx float64) float64 {
	return containerPx / float64(g.size)
}

func (g *Grid) index(row, col int) (int, error) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return 0, errors.New(errors.ErrCodeOutOfBounds, "cell (%d, %d) outside %dx%d grid", row, col, g.size, g.size)
	}
	return row*g.size + col, nil
}
