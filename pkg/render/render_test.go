package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

func testSnapshot(t *testing.T) sketch.Snapshot {
	t.Helper()
	c, err := sketch.NewWithSize(4, sketch.WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = c.Fill(0, 0) // black
	_ = c.SetMode(sketch.ModeGreyscale)
	_, _ = c.Fill(3, 3)
	return c.Snapshot()
}

func TestRenderPNGDimensions(t *testing.T) {
	data, err := Render(testSnapshot(t), FormatPNG, WithContainer(200))
	if err != nil {
		t.Fatalf("Render(png) error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("bounds = %v, want 200x200", b)
	}

	// Centre of cell (0,0) is black, centre of cell (1,1) is white.
	r, g, bl, _ := img.At(25, 25).RGBA()
	if r != 0 || g != 0 || bl != 0 {
		t.Errorf("cell (0,0) centre = %d,%d,%d, want black", r>>8, g>>8, bl>>8)
	}
	r, g, bl, _ = img.At(75, 75).RGBA()
	if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Errorf("cell (1,1) centre = %d,%d,%d, want white", r>>8, g>>8, bl>>8)
	}
}

func TestRenderSVG(t *testing.T) {
	data, err := Render(testSnapshot(t), FormatSVG, WithGridLines())
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "<svg ") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("not an svg document:\n%s", out)
	}
	if n := strings.Count(out, `class="cell"`); n != 16 {
		t.Errorf("rect count = %d, want 16", n)
	}
	if !strings.Contains(out, `data-row="0" data-col="0" x="0.000" y="0.000" width="125.000" height="125.000" fill="#000000"`) {
		t.Error("missing black cell at (0,0)")
	}
	if !strings.Contains(out, `fill="#e5e5e5"`) {
		t.Error("missing dimmed cell")
	}
	if !strings.Contains(out, `stroke="#dddddd"`) {
		t.Error("grid lines requested but not drawn")
	}
}

func TestRenderANSI(t *testing.T) {
	data, err := Render(testSnapshot(t), FormatANSI)
	if err != nil {
		t.Fatalf("Render(ansi) error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "\x1b[48;2;0;0;0m  ") {
		t.Errorf("first cell should be black: %q", lines[0])
	}
}

func TestRenderRejects(t *testing.T) {
	if _, err := Render(testSnapshot(t), "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) error = %v, want INVALID_FORMAT", err)
	}
	bad := sketch.Snapshot{Size: 3, Cells: make([]sketch.RGB, 4)}
	if _, err := Render(bad, FormatSVG); err == nil {
		t.Error("Render of malformed snapshot should fail")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatPNG:  "image/png",
		FormatSVG:  "image/svg+xml",
		FormatANSI: "text/plain; charset=utf-8",
	}
	for f, want := range tests {
		if got := ContentType(f); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", f, got, want)
		}
	}
}
