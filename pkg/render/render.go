package render

import (
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatANSI = "ansi"
)

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatPNG, FormatSVG, FormatANSI}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Option configures rendering.
type Option func(*options)

type options struct {
	container float64
	gridLines bool
}

// WithContainer sets the output edge in pixels (PNG, SVG).
func WithContainer(px float64) Option { return func(o *options) { o.container = px } }

// WithGridLines draws a thin outline around every cell (PNG, SVG).
func WithGridLines() Option { return func(o *options) { o.gridLines = true } }

func newOptions(opts ...Option) options {
	o := options{container: sketch.DefaultContainerPx}
	for _, opt := range opts {
		opt(&o)
	}
	if o.container <= 0 {
		o.container = sketch.DefaultContainerPx
	}
	return o
}

// Render dispatches to the sink for format.
func Render(s sketch.Snapshot, format string, opts ...Option) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats()...); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch format {
	case FormatPNG:
		return RenderPNG(s, opts...)
	case FormatSVG:
		return RenderSVG(s, opts...), nil
	default:
		return RenderANSI(s), nil
	}
}
