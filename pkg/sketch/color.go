package sketch

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/etchgrid/pkg/errors"
)

// RGB is an opaque cell color.
type RGB struct {
	R, G, B uint8
}

var (
	// White is the default cell background.
	White = RGB{255, 255, 255}

	// Black is the color painted by ModeBlack.
	Black = RGB{0, 0, 0}
)

// DimStep is the per-channel decrement applied by a greyscale fill.
// 255/10 + 1 guarantees white reaches black within ten fills.
const DimStep = 255/10 + 1

// String returns the CSS functional form, e.g. "rgb(229, 229, 229)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Dim returns c with step subtracted from every channel, floored at 0.
func (c RGB) Dim(step int) RGB {
	return RGB{
		R: dimChannel(c.R, step),
		G: dimChannel(c.G, step),
		B: dimChannel(c.B, step),
	}
}

func dimChannel(v uint8, step int) uint8 {
	n := int(v) - step
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// RandomRGB draws each channel independently and uniformly from [0, 255].
func RandomRGB(r *rand.Rand) RGB {
	return RGB{
		R: uint8(r.IntN(256)),
		G: uint8(r.IntN(256)),
		B: uint8(r.IntN(256)),
	}
}

// MarshalText encodes the color as hex.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts any form understood by ParseColor.
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var rgbFuncRegex = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*[\d.]+\s*)?\)$`)

// ParseColor parses "#rgb", "#rrggbb" or "rgb(r, g, b)".
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	m := rgbFuncRegex.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return RGB{}, errors.New(errors.ErrCodeInvalidColor, "unrecognized color %q", s)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return RGB{}, errors.New(errors.ErrCodeInvalidColor, "channel out of range in %q", s)
		}
		ch[i] = uint8(v)
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

func parseHex(h string) (RGB, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, errors.New(errors.ErrCodeInvalidColor, "hex color must have 3 or 6 digits: %q", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", h)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
