package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// RenderANSI draws the snapshot with 24-bit background escapes, two
// terminal columns per cell so cells look roughly square.
func RenderANSI(s sketch.Snapshot) []byte {
	var buf bytes.Buffer
	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			c := s.At(row, col)
			fmt.Fprintf(&buf, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
		}
		buf.WriteString("\x1b[0m\n")
	}
	return buf.Bytes()
}
