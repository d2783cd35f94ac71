// Package tui implements the interactive terminal calculator.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/session"
	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

var (
	// Display and keypad styling
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Align(lipgloss.Right)

	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	keyCursorStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("205")).
			Foreground(lipgloss.Color("205")).
			Bold(true)

	tapeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// keyWidth is the content width of a rendered keypad cell.
const keyWidth = 5

// tapeLines is how many recent tape entries the view shows.
const tapeLines = 5

// keyMap holds the calculator key bindings.
type keyMap struct {
	Equals    key.Binding
	Backspace key.Binding
	Clear     key.Binding
	Negate    key.Binding
	Percent   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Press     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Equals:    key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("enter", "equals")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Negate:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "negate")),
		Percent:   key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "percent")),
		Up:        key.NewBinding(key.WithKeys("up")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Press:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "press")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the Bubble Tea model for the calculator.
type Model struct {
	calc   *session.Session
	layout *keypad.Layout
	keys   keyMap

	cursorRow int
	cursorCol int

	lastErr  error
	quitting bool
}

// New creates a calculator model with the given keypad layout.
func New(layout *keypad.Layout) Model {
	return Model{
		calc:   session.New(),
		layout: layout,
		keys:   defaultKeyMap(),
	}
}

// Run starts the interactive calculator and blocks until it exits.
func Run(layout *keypad.Layout) error {
	_, err := tea.NewProgram(New(layout), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keystroke clears the previous error line.
	m.lastErr = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Equals):
		_, m.lastErr = m.calc.Equals()

	case key.Matches(msg, m.keys.Backspace):
		m.calc.Backspace()

	case key.Matches(msg, m.keys.Clear):
		m.calc.Clear()

	case key.Matches(msg, m.keys.Negate):
		_, m.lastErr = m.calc.Negate()

	case key.Matches(msg, m.keys.Percent):
		_, m.lastErr = m.calc.Percent()

	case key.Matches(msg, m.keys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
			m.cursorCol = clampCol(m.layout, m.cursorRow, m.cursorCol)
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursorRow < len(m.layout.Rows)-1 {
			m.cursorRow++
			m.cursorCol = clampCol(m.layout, m.cursorRow, m.cursorCol)
		}

	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursorCol < len(m.layout.Rows[m.cursorRow])-1 {
			m.cursorCol++
		}

	case key.Matches(msg, m.keys.Press):
		_, m.lastErr = m.calc.Press(m.layout.Rows[m.cursorRow][m.cursorCol])

	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && isKeypadRune(msg.Runes[0]) {
			m.calc.Append(string(msg.Runes))
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	cols := 0
	for _, row := range m.layout.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	gridWidth := cols * (keyWidth + 2)

	display := m.calc.Buffer()
	if display == "" {
		display = "0"
	}
	// Show the tail when the expression outgrows the display.
	if w := gridWidth - 4; len(display) > w {
		display = display[len(display)-w:]
	}
	sb.WriteString(displayStyle.Width(gridWidth - 2).Render(display))
	sb.WriteString("\n")

	for r, row := range m.layout.Rows {
		cells := make([]string, len(row))
		for c, k := range row {
			style := keyStyle
			if r == m.cursorRow && c == m.cursorCol {
				style = keyCursorStyle
			}
			cells[c] = style.Width(keyWidth).Align(lipgloss.Center).Render(k.Label)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		sb.WriteString("\n")
	}

	entries := m.calc.Tape()
	if len(entries) > 0 {
		sb.WriteString("\n")
		start := 0
		if len(entries) > tapeLines {
			start = len(entries) - tapeLines
		}
		for _, e := range entries[start:] {
			sb.WriteString(tapeStyle.Render(fmt.Sprintf("%s = %s", e.Expression, e.Result)))
			sb.WriteString("\n")
		}
	}

	if m.lastErr != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(errorText(m.lastErr)))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("\n↑/↓/←/→: Move • Space: Press • Enter: Equals • Esc: Clear • q: Quit"))
	sb.WriteString("\n")

	return sb.String()
}

func clampCol(layout *keypad.Layout, row, col int) int {
	if max := len(layout.Rows[row]) - 1; col > max {
		return max
	}
	return col
}

func isKeypadRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' || r == '*' || r == '/'
}

// errorText strips the code/tag decoration for the status line.
func errorText(err error) string {
	var ce *types.CalcError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
