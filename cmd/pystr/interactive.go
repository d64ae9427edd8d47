package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	widthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var widths = []utf8arena.Width{utf8arena.Width1, utf8arena.Width2, utf8arena.Width4}

type interactiveModel struct {
	err     error
	arena   *arena.Arena
	enc     *transcoder.Encoder
	status  string
	last    []byte
	input   textinput.Model
	mark    arena.Position
	widthIx int
	rows    int
	marked  bool
}

func newInteractiveModel(opts transcoder.Options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = `text, é, \ud800 ...`
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		arena: arena.New(),
		enc:   transcoder.NewEncoder(opts),
		input: ti,
	}
}

func (m *interactiveModel) width() utf8arena.Width {
	return widths[m.widthIx]
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.widthIx = (m.widthIx + 1) % len(widths)
			return m, nil

		case "enter":
			m.encode()
			return m, nil

		case "ctrl+t":
			m.mark = m.arena.Tell()
			m.marked = true
			m.setStatus("marked %s", formatPos(m.mark))
			return m, nil

		case "ctrl+u":
			if !m.marked {
				m.fail(fmt.Errorf("no mark set (ctrl+t)"))
				return m, nil
			}
			m.arena.Truncate(m.mark)
			m.last = nil
			m.setStatus("truncated to %s", formatPos(m.mark))
			return m, nil

		case "ctrl+l":
			m.arena.Clear()
			m.last = nil
			m.marked = false
			m.rows = 0
			m.setStatus("cleared")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) encode() {
	units, err := parseUnits(m.input.Value())
	if err != nil {
		m.fail(err)
		return
	}
	raw, err := packUnits(units, m.width())
	if err != nil {
		m.fail(err)
		return
	}

	before := m.arena.Tell()
	out, err := m.enc.Encode(m.arena, m.width(), raw)
	if err != nil {
		m.fail(err)
		return
	}
	m.last = out
	m.rows++
	m.input.SetValue("")
	m.setStatus("%d units -> %d bytes at %s", len(units), len(out), formatPos(before))
}

func (m *interactiveModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.err = nil
}

func (m *interactiveModel) fail(err error) {
	m.status = ""
	m.err = err
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UTF-8 Arena"))
	b.WriteString("  ")
	for i, w := range widths {
		if i == m.widthIx {
			b.WriteString(widthStyle.Render(" " + w.String() + " "))
		} else {
			b.WriteString(" " + w.String() + " ")
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	st := m.arena.Stats()
	b.WriteString(field("position", formatPos(m.arena.Tell())))
	if m.marked {
		b.WriteString(field("mark", formatPos(m.mark)))
	}
	b.WriteString(field("chunks", fmt.Sprintf("%d (%d/%d bytes, %.0f%% used)",
		st.Chunks, st.Len, st.Cap, 100*st.Utilization())))
	b.WriteString(field("allocations", fmt.Sprintf("%d, %d reused, peak %d bytes",
		st.Allocations, st.Reuses, st.PeakLen)))
	b.WriteString(field("rows", fmt.Sprint(m.rows)))
	b.WriteString("\n")

	if m.last != nil {
		b.WriteString(resultStyle.Render(fmt.Sprintf("%q", m.last)))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(strings.TrimRight(hex.Dump(m.last), "\n")))
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter encode • tab width • ctrl+t mark • ctrl+u truncate • ctrl+l clear • esc quit"))
	return b.String()
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value) + "\n"
}

func formatPos(p arena.Position) string {
	return fmt.Sprintf("{chain %d, offset %d}", p.Chain, p.Offset)
}

func runInteractive(opts transcoder.Options) error {
	m := newInteractiveModel(opts)
	defer m.arena.Release()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
