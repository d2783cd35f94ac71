// Package session implements the calculator state machine driven by the
// front ends: a display buffer mutated by key presses, evaluated on demand.
package session

import (
	"fmt"
	"unicode/utf8"

	"github.com/lemonberrylabs/deskcalc/pkg/expr"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

// MaxTapeEntries is the maximum number of tape entries a session keeps.
const MaxTapeEntries = 100

// TapeEntry records one successful equals evaluation.
type TapeEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Session is a single calculator: one display buffer plus a tape of results.
// On any evaluation error the buffer is left unchanged so the user can
// correct it. Operations are synchronous; a Session is not safe for
// concurrent use.
type Session struct {
	buffer string
	tape   []TapeEntry
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// Buffer returns the current display text.
func (s *Session) Buffer() string {
	return s.buffer
}

// Tape returns a copy of the recorded evaluations, oldest first.
func (s *Session) Tape() []TapeEntry {
	out := make([]TapeEntry, len(s.tape))
	copy(out, s.tape)
	return out
}

// Append adds text to the display buffer and returns the new display text.
// Appends that would grow the buffer beyond expr.MaxExpressionLength are
// ignored.
func (s *Session) Append(text string) string {
	if len(s.buffer)+len(text) > expr.MaxExpressionLength {
		return s.buffer
	}
	s.buffer += text
	return s.buffer
}

// Clear empties the display buffer.
func (s *Session) Clear() string {
	s.buffer = ""
	return s.buffer
}

// Backspace removes the last rune from the buffer. An empty buffer is a
// no-op.
func (s *Session) Backspace() string {
	if s.buffer == "" {
		return s.buffer
	}
	_, size := utf8.DecodeLastRuneInString(s.buffer)
	s.buffer = s.buffer[:len(s.buffer)-size]
	return s.buffer
}

// Equals evaluates the buffer, replaces it with the formatted result, and
// records a tape entry. An empty buffer is a no-op.
func (s *Session) Equals() (string, error) {
	if s.buffer == "" {
		return s.buffer, nil
	}
	v, err := expr.Evaluate(s.buffer)
	if err != nil {
		return s.buffer, err
	}

	entry := TapeEntry{Expression: s.buffer, Result: types.FormatNumber(v)}
	s.tape = append(s.tape, entry)
	if len(s.tape) > MaxTapeEntries {
		s.tape = s.tape[len(s.tape)-MaxTapeEntries:]
	}

	s.buffer = entry.Result
	return s.buffer, nil
}

// Negate evaluates the buffer and replaces it with the negated result. An
// empty buffer is a no-op. No tape entry is recorded.
func (s *Session) Negate() (string, error) {
	return s.apply(func(v float64) float64 { return -v })
}

// Percent evaluates the buffer and replaces it with the result divided by
// 100. An empty buffer is a no-op. No tape entry is recorded.
func (s *Session) Percent() (string, error) {
	return s.apply(func(v float64) float64 { return v / 100 })
}

func (s *Session) apply(op func(float64) float64) (string, error) {
	if s.buffer == "" {
		return s.buffer, nil
	}
	v, err := expr.Evaluate(s.buffer)
	if err != nil {
		return s.buffer, err
	}
	s.buffer = types.FormatNumber(op(v))
	return s.buffer, nil
}

// Press dispatches a keypad key to the matching operation and returns the
// display text after the press.
func (s *Session) Press(key keypad.Key) (string, error) {
	switch key.Action {
	case keypad.ActionDigit, keypad.ActionPoint, keypad.ActionOperator:
		return s.Append(key.Text()), nil
	case keypad.ActionClear:
		return s.Clear(), nil
	case keypad.ActionDelete:
		return s.Backspace(), nil
	case keypad.ActionNegate:
		return s.Negate()
	case keypad.ActionPercent:
		return s.Percent()
	case keypad.ActionEquals:
		return s.Equals()
	default:
		return s.buffer, fmt.Errorf("unknown key action '%s'", key.Action)
	}
}
