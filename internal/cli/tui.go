package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

// Screen layout of the draw view. The grid starts below the title and the
// palette; every cell is cellWidth columns wide so it looks square.
const (
	gridTop   = 2
	gridLeft  = 0
	cellWidth = 2
)

// promptKind is the input line currently open, if any.
type promptKind int

const (
	promptNone promptKind = iota
	promptSize
	promptSave
)

var (
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiPromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// drawModel is the bubbletea model behind "etchgrid draw".
type drawModel struct {
	ctx   context.Context
	ctl   *sketch.Controller
	store store.Store // nil disables saving

	cursorRow, cursorCol int

	prompt  promptKind
	input   string
	status  string
	isError bool
}

func newDrawModel(ctx context.Context, ctl *sketch.Controller, st store.Store) drawModel {
	return drawModel{ctx: ctx, ctl: ctl, store: st}
}

func (m drawModel) Init() tea.Cmd {
	return nil
}

func (m drawModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	case tea.MouseMsg:
		if m.prompt != promptNone {
			return m, nil
		}
		switch msg.Action {
		case tea.MouseActionMotion, tea.MouseActionPress:
			if row, col, ok := m.cellAt(msg.X, msg.Y); ok {
				m.cursorRow, m.cursorCol = row, col
				m.fill(row, col)
			}
		}
	}
	return m, nil
}

func (m drawModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "1", "b":
		m.setMode(sketch.ModeBlack)
	case "2", "g":
		m.setMode(sketch.ModeGreyscale)
	case "3", "r":
		m.setMode(sketch.ModeRainbow)
	case "c":
		m.ctl.Clear()
		m.say("cleared")
	case "s":
		m.open(promptSize)
	case "w":
		if m.store == nil {
			m.fail(errors.New(errors.ErrCodeUnsupported, "no sketch store configured"))
			break
		}
		m.open(promptSave)
	case "up", "k":
		m.cursorRow = max(m.cursorRow-1, 0)
	case "down", "j":
		m.cursorRow = min(m.cursorRow+1, m.ctl.Size()-1)
	case "left", "h":
		m.cursorCol = max(m.cursorCol-1, 0)
	case "right", "l":
		m.cursorCol = min(m.cursorCol+1, m.ctl.Size()-1)
	case " ", "enter":
		m.fill(m.cursorRow, m.cursorCol)
	}
	return m, nil
}

// updatePrompt edits the open input line. Enter on an empty line or esc
// cancels; a rejected size keeps the prompt open for another answer.
func (m drawModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.close("cancelled")
	case "backspace":
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case "enter":
		if m.input == "" {
			m.close("cancelled")
			break
		}
		m.submit()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
	}
	return m, nil
}

func (m *drawModel) submit() {
	answer := m.input
	switch m.prompt {
	case promptSize:
		if err := m.ctl.Resize(answer); err != nil {
			m.input = ""
			m.fail(err)
			return
		}
		m.cursorRow, m.cursorCol = 0, 0
		m.close(fmt.Sprintf("resized to %d×%d", m.ctl.Size(), m.ctl.Size()))
	case promptSave:
		rec, err := store.FromSnapshot(strings.TrimSpace(answer), m.ctl.Snapshot())
		if err == nil {
			err = m.store.Save(m.ctx, rec)
		}
		if err != nil {
			m.input = ""
			m.fail(err)
			return
		}
		m.close("saved " + rec.Name)
	}
}

func (m *drawModel) open(kind promptKind) {
	m.prompt = kind
	m.input = ""
	m.status = ""
	m.isError = false
}

func (m *drawModel) close(status string) {
	m.prompt = promptNone
	m.input = ""
	m.say(status)
}

func (m *drawModel) setMode(mode sketch.Mode) {
	if err := m.ctl.SetMode(mode); err != nil {
		m.fail(err)
		return
	}
	m.say(mode.Label())
}

func (m *drawModel) fill(row, col int) {
	if _, err := m.ctl.Fill(row, col); err != nil {
		m.fail(err)
	}
}

func (m *drawModel) say(s string) {
	m.status = s
	m.isError = false
}

func (m *drawModel) fail(err error) {
	m.status = errors.UserMessage(err)
	m.isError = true
}

// cellAt maps a terminal position to a grid cell.
func (m drawModel) cellAt(x, y int) (row, col int, ok bool) {
	if x < gridLeft || y < gridTop {
		return 0, 0, false
	}
	row = y - gridTop
	col = (x - gridLeft) / cellWidth
	if row >= m.ctl.Size() || col >= m.ctl.Size() {
		return 0, 0, false
	}
	return row, col, true
}

func (m drawModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("etchgrid"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d×%d", m.ctl.Size(), m.ctl.Size())))
	b.WriteString("\n")
	b.WriteString(m.paletteView())
	b.WriteString("\n")
	b.WriteString(m.gridView())
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render("hover/space paint · 1-3 mode · c clear · s size · w save · q quit"))
	return b.String()
}

func (m drawModel) statusView() string {
	var line string
	switch m.prompt {
	case promptSize:
		line = tuiPromptStyle.Render(sketch.SizePrompt) + " " + m.input + "█"
	case promptSave:
		line = tuiPromptStyle.Render("Save as:") + " " + m.input + "█"
	}
	switch {
	case m.status == "":
		return line
	case m.isError && line != "":
		return line + "  " + tuiErrorStyle.Render(m.status)
	case m.isError:
		return tuiErrorStyle.Render(m.status)
	case line != "":
		return line
	default:
		return tuiStatusStyle.Render(m.status)
	}
}

// paletteEntry is one mode button.
type paletteEntry struct {
	label    string
	selected bool
}

func (m drawModel) palette() []paletteEntry {
	entries := make([]paletteEntry, 0, len(sketch.Modes()))
	for i, mode := range sketch.Modes() {
		entries = append(entries, paletteEntry{
			label:    fmt.Sprintf("%d %s", i+1, mode.Label()),
			selected: mode == m.ctl.Mode(),
		})
	}
	return entries
}

func (m drawModel) paletteView() string {
	var buttons []string
	for _, e := range m.palette() {
		if e.selected {
			buttons = append(buttons, styleModeSelected.Render(e.label))
		} else {
			buttons = append(buttons, styleModeNormal.Render(e.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m drawModel) gridView() string {
	var b strings.Builder
	n := m.ctl.Size()
	cells := m.ctl.Cells()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c := cells[row*n+col]
			style := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex()))
			text := strings.Repeat(" ", cellWidth)
			if row == m.cursorRow && col == m.cursorCol {
				style = style.Foreground(lipgloss.Color(contrast(c).Hex()))
				text = "<>"
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// contrast picks black or white, whichever reads better on c.
func contrast(c sketch.RGB) sketch.RGB {
	luma := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if luma > 128*1000 {
		return sketch.Black
	}
	return sketch.White
}
