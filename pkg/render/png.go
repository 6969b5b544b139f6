package render

import (
	"bytes"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// RenderPNG rasterizes the snapshot into a container-sized PNG.
func RenderPNG(s sketch.Snapshot, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	px := int(math.Round(o.container))
	edge := float64(px) / float64(s.Size)

	dc := gg.NewContext(px, px)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(1, 1, 1))

	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			c := s.At(row, col)
			if c == sketch.White {
				continue
			}
			dc.SetRGB(channel(c.R), channel(c.G), channel(c.B))
			dc.DrawRectangle(float64(col)*edge, float64(row)*edge, edge, edge)
			if err := dc.Fill(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "fill cell (%d, %d)", row, col)
			}
		}
	}

	if o.gridLines {
		dc.SetRGB(0.87, 0.87, 0.87)
		dc.SetLineWidth(0.5)
		for i := 0; i <= s.Size; i++ {
			p := float64(i) * edge
			dc.DrawLine(p, 0, p, float64(px))
			dc.DrawLine(0, p, float64(px), p)
		}
		if err := dc.Stroke(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "stroke grid lines")
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func channel(v uint8) float64 {
	return float64(v) / 255
}
