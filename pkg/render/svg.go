package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// RenderSVG draws the snapshot as an SVG document.
func RenderSVG(s sketch.Snapshot, opts ...Option) []byte {
	o := newOptions(opts...)
	edge := o.container / float64(s.Size)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" shape-rendering="crispEdges">`+"\n",
		o.container, o.container, o.container, o.container)

	stroke := ""
	if o.gridLines {
		stroke = ` stroke="#dddddd" stroke-width="0.5"`
	}
	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			fmt.Fprintf(&buf, `  <rect class="cell" data-row="%d" data-col="%d" x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="%s"%s/>`+"\n",
				row, col, float64(col)*edge, float64(row)*edge, edge, edge, s.At(row, col).Hex(), stroke)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
