package sketch

import "github.com/matzehuels/etchgrid/pkg/errors"

// Snapshot is a detached copy of a controller's drawing.
type Snapshot struct {
	Size  int
	Mode  Mode
	Cells []RGB // row-major, Size*Size entries
}

// Snapshot copies the current size, mode and cells.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Size:  c.grid.Size(),
		Mode:  c.mode,
		Cells: c.grid.Cells(),
	}
}

// Validate checks that the snapshot describes a drawable grid.
func (s Snapshot) Validate() error {
	if err := ValidateSize(s.Size); err != nil {
		return err
	}
	if !s.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(s.Mode))
	}
	if len(s.Cells) != s.Size*s.Size {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot has %d cells, want %d", len(s.Cells), s.Size*s.Size)
	}
	return nil
}

// At returns the cell at row, col without bounds checking beyond the slice.
func (s Snapshot) At(row, col int) RGB {
	return s.Cells[row*s.Size+col]
}

// Restore replaces the grid and mode with the snapshot's contents. Loading
// is not a resize or a mode change: Stats and hooks are left alone.
func (c *Controller) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g, err := NewGrid(s.Size)
	if err != nil {
		return err
	}
	copy(g.cells, s.Cells)
	c.grid = g
	c.mode = s.Mode
	c.logger.Debug("snapshot restored", "size", s.Size, "mode", s.Mode)
	return nil
}
