package sketch

import (
	"strings"

	"github.com/matzehuels/etchgrid/pkg/errors"
)

// Mode selects how a fill colors a cell.
type Mode int

// Fill modes. The zero value is ModeBlack, the startup mode.
const (
	ModeBlack Mode = iota
	ModeGreyscale
	ModeRainbow

	numModes
)

var modeNames = [numModes]string{"black", "greyscale", "rainbow"}

var modeLabels = [numModes]string{"Black", "Greyscale", "Rainbow"}

// Modes returns every valid mode in palette order.
func Modes() []Mode {
	return []Mode{ModeBlack, ModeGreyscale, ModeRainbow}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < numModes
}

// String returns the canonical lowercase name.
func (m Mode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// Label returns the display label for palette controls.
func (m Mode) Label() string {
	if !m.Valid() {
		return "?"
	}
	return modeLabels[m]
}

// ParseMode parses a mode name, ignoring case. "grayscale" is accepted as
// an alias for greyscale.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "grayscale" {
		name = "greyscale"
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want black, greyscale or rainbow)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidMode, "cannot encode mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
