package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

func newTestDrawModel(t *testing.T, size int, st store.Store) drawModel {
	t.Helper()
	ctl, err := sketch.NewWithSize(size, sketch.WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	return newDrawModel(context.Background(), ctl, st)
}

func press(m drawModel, keys ...string) drawModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(drawModel)
	}
	return m
}

func hover(m drawModel, x, y int) drawModel {
	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	return next.(drawModel)
}

func cellOf(t *testing.T, m drawModel, row, col int) sketch.RGB {
	t.Helper()
	c, err := m.ctl.At(row, col)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDrawMouseMotionFills(t *testing.T) {
	m := newTestDrawModel(t, 4, nil)

	// Column 1 spans terminal columns 2-3.
	m = hover(m, gridLeft+3, gridTop+2)
	if got := cellOf(t, m, 2, 1); got != sketch.Black {
		t.Errorf("(2,1) = %v, want black", got)
	}

	// Outside the grid: header rows and past the right edge.
	before := m.ctl.Stats().TotalFills()
	m = hover(m, 0, 0)
	m = hover(m, gridLeft+4*cellWidth, gridTop)
	if m.ctl.Stats().TotalFills() != before {
		t.Error("hovering outside the grid should not fill")
	}
}

func TestDrawModeKeys(t *testing.T) {
	tests := []struct {
		key  string
		want sketch.Mode
	}{
		{"2", sketch.ModeGreyscale},
		{"g", sketch.ModeGreyscale},
		{"3", sketch.ModeRainbow},
		{"r", sketch.ModeRainbow},
		{"1", sketch.ModeBlack},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := press(newTestDrawModel(t, 4, nil), "3", tt.key)
			if m.ctl.Mode() != tt.want {
				t.Errorf("mode = %v, want %v", m.ctl.Mode(), tt.want)
			}
		})
	}
}

func TestDrawPaletteHasOneSelection(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), "g")
	var selected []string
	for _, e := range m.palette() {
		if e.selected {
			selected = append(selected, e.label)
		}
	}
	if len(selected) != 1 || selected[0] != "2 Greyscale" {
		t.Errorf("selected = %v, want [2 Greyscale]", selected)
	}

	view := m.paletteView()
	for _, mode := range sketch.Modes() {
		if !strings.Contains(view, mode.Label()) {
			t.Errorf("palette missing %s", mode.Label())
		}
	}
}

func TestDrawKeyboardCursor(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), "down", "right", "right", " ")
	if got := cellOf(t, m, 1, 2); got != sketch.Black {
		t.Errorf("(1,2) = %v, want black", got)
	}
	// Cursor clamps at the edge.
	m = press(m, "right", "right", "right")
	if m.cursorCol != 3 {
		t.Errorf("cursorCol = %d, want 3", m.cursorCol)
	}
}

func TestDrawClear(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), " ", "c")
	if got := cellOf(t, m, 0, 0); got != sketch.White {
		t.Errorf("(0,0) = %v after clear", got)
	}
}

func TestDrawSizePrompt(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), " ", "s")
	if m.prompt != promptSize {
		t.Fatal("s should open the size prompt")
	}
	if !strings.Contains(m.View(), sketch.SizePrompt) {
		t.Error("view should show the size prompt")
	}

	// Rejected answers keep the prompt open and the grid untouched.
	m = press(m, "9", "9", "enter")
	if m.prompt != promptSize || !m.isError {
		t.Fatal("invalid size should re-prompt with an error")
	}
	if m.ctl.Size() != 4 {
		t.Errorf("Size = %d after rejected answer", m.ctl.Size())
	}

	m = press(m, "1", "3", "backspace", "2", "enter")
	if m.prompt != promptNone {
		t.Fatal("valid size should close the prompt")
	}
	if m.ctl.Size() != 12 {
		t.Errorf("Size = %d, want 12", m.ctl.Size())
	}
	if got := cellOf(t, m, 0, 0); got != sketch.White {
		t.Error("resized grid should be blank")
	}
}

func TestDrawSizePromptCancel(t *testing.T) {
	for _, keys := range [][]string{{"s", "enter"}, {"s", "5", "esc"}} {
		m := press(newTestDrawModel(t, 4, nil), keys...)
		if m.prompt != promptNone || m.ctl.Size() != 4 {
			t.Errorf("%v: prompt %v size %d, want closed and unchanged", keys, m.prompt, m.ctl.Size())
		}
	}

	// Whitespace is an answer, not a cancel.
	m := press(newTestDrawModel(t, 4, nil), "s", " ", "enter")
	if m.prompt != promptSize {
		t.Error("a blank answer should be rejected and asked again")
	}
}

func TestDrawMouseIgnoredWhilePrompting(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), "s")
	m = hover(m, gridLeft, gridTop)
	if got := cellOf(t, m, 0, 0); got != sketch.White {
		t.Error("hover should not paint while a prompt is open")
	}
}

func TestDrawSave(t *testing.T) {
	st := store.NewMemoryStore()
	m := press(newTestDrawModel(t, 4, st), " ", "w", "d", "o", "t", "enter")
	if m.prompt != promptNone || m.isError {
		t.Fatalf("save failed: %q", m.status)
	}
	rec, err := st.Load(context.Background(), "dot")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Cells[0] != "#000000" {
		t.Errorf("saved cell 0 = %s", rec.Cells[0])
	}

	m = press(m, "w", ".", ".", "enter")
	if m.prompt != promptSave || !m.isError {
		t.Error("bad name should keep the save prompt open")
	}
}

func TestDrawSaveWithoutStore(t *testing.T) {
	m := press(newTestDrawModel(t, 4, nil), "w")
	if m.prompt != promptNone || !m.isError {
		t.Error("w without a store should report an error")
	}
}

func TestDrawQuit(t *testing.T) {
	m := newTestDrawModel(t, 4, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestContrast(t *testing.T) {
	if contrast(sketch.White) != sketch.Black {
		t.Error("white needs a black marker")
	}
	if contrast(sketch.Black) != sketch.White {
		t.Error("black needs a white marker")
	}
}
