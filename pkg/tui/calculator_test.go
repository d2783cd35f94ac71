package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
)

func typeRunes(t *testing.T, m Model, input string) Model {
	t.Helper()
	for _, r := range input {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func sendKey(t *testing.T, m Model, keyType tea.KeyType) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: keyType})
	return updated.(Model)
}

func TestTypeAndEvaluate(t *testing.T) {
	m := New(keypad.Default())

	m = typeRunes(t, m, "12+3")
	if m.calc.Buffer() != "12+3" {
		t.Fatalf("expected buffer 12+3, got %q", m.calc.Buffer())
	}

	m = sendKey(t, m, tea.KeyEnter)
	if m.calc.Buffer() != "15" {
		t.Fatalf("expected buffer 15 after equals, got %q", m.calc.Buffer())
	}
	if !strings.Contains(m.View(), "15") {
		t.Error("expected result in view")
	}
	if !strings.Contains(m.View(), "12+3 = 15") {
		t.Error("expected tape entry in view")
	}
}

func TestBackspaceAndClear(t *testing.T) {
	m := New(keypad.Default())

	m = typeRunes(t, m, "12")
	m = sendKey(t, m, tea.KeyBackspace)
	if m.calc.Buffer() != "1" {
		t.Errorf("expected buffer 1 after backspace, got %q", m.calc.Buffer())
	}

	m = sendKey(t, m, tea.KeyEsc)
	if m.calc.Buffer() != "" {
		t.Errorf("expected empty buffer after clear, got %q", m.calc.Buffer())
	}
}

func TestErrorShownAndClearedOnNextKey(t *testing.T) {
	m := New(keypad.Default())

	m = typeRunes(t, m, "5/0")
	m = sendKey(t, m, tea.KeyEnter)

	if m.lastErr == nil {
		t.Fatal("expected an error after dividing by zero")
	}
	if m.calc.Buffer() != "5/0" {
		t.Errorf("expected buffer unchanged on error, got %q", m.calc.Buffer())
	}
	if !strings.Contains(m.View(), "division by zero") {
		t.Error("expected error text in view")
	}

	m = typeRunes(t, m, "1")
	if strings.Contains(m.View(), "division by zero") {
		t.Error("expected error line cleared by the next keystroke")
	}
	if m.calc.Buffer() != "5/01" {
		t.Errorf("expected buffer 5/01, got %q", m.calc.Buffer())
	}
}

func TestCursorNavigationAndPress(t *testing.T) {
	m := New(keypad.Default())

	// Default layout: the cursor starts on C; one row down is 7.
	m = sendKey(t, m, tea.KeyDown)
	m = sendKey(t, m, tea.KeySpace)
	if m.calc.Buffer() != "7" {
		t.Fatalf("expected buffer 7 after pressing the highlighted key, got %q", m.calc.Buffer())
	}

	m = sendKey(t, m, tea.KeyRight)
	m = sendKey(t, m, tea.KeySpace)
	if m.calc.Buffer() != "78" {
		t.Fatalf("expected buffer 78, got %q", m.calc.Buffer())
	}

	// Up from row 1 lands on the control row; pressing C clears.
	m = sendKey(t, m, tea.KeyUp)
	m = sendKey(t, m, tea.KeyLeft)
	m = sendKey(t, m, tea.KeySpace)
	if m.calc.Buffer() != "" {
		t.Fatalf("expected empty buffer after pressing C, got %q", m.calc.Buffer())
	}
}

func TestCursorStaysInsideGrid(t *testing.T) {
	m := New(keypad.Default())

	m = sendKey(t, m, tea.KeyUp)
	m = sendKey(t, m, tea.KeyLeft)
	if m.cursorRow != 0 || m.cursorCol != 0 {
		t.Errorf("expected cursor pinned to 0,0, got %d,%d", m.cursorRow, m.cursorCol)
	}

	for i := 0; i < 20; i++ {
		m = sendKey(t, m, tea.KeyDown)
		m = sendKey(t, m, tea.KeyRight)
	}
	rows := m.layout.Rows
	if m.cursorRow != len(rows)-1 || m.cursorCol != len(rows[m.cursorRow])-1 {
		t.Errorf("expected cursor pinned to the bottom-right key, got %d,%d", m.cursorRow, m.cursorCol)
	}
}

func TestNegateAndPercentKeys(t *testing.T) {
	m := New(keypad.Default())

	m = typeRunes(t, m, "5")
	m = typeRunes(t, m, "n")
	if m.calc.Buffer() != "-5" {
		t.Errorf("expected buffer -5 after negate, got %q", m.calc.Buffer())
	}

	m = sendKey(t, m, tea.KeyEsc)
	m = typeRunes(t, m, "50")
	m = typeRunes(t, m, "%")
	if m.calc.Buffer() != "0.5" {
		t.Errorf("expected buffer 0.5 after percent, got %q", m.calc.Buffer())
	}
}

func TestQuit(t *testing.T) {
	m := New(keypad.Default())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if updated.(Model).View() != "" {
		t.Error("expected empty view after quitting")
	}
}
