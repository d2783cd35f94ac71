// Package keypad converts YAML layout definitions into calculator keypads.
package keypad

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxRows is the maximum number of rows in a layout.
const MaxRows = 12

// MaxKeysPerRow is the maximum number of keys in a single row.
const MaxKeysPerRow = 8

// MaxSourceSize is the maximum layout source size in bytes (16 KB).
const MaxSourceSize = 16 * 1024

// Action identifies what a key does when pressed.
type Action string

const (
	ActionDigit    Action = "digit"    // append a digit
	ActionPoint    Action = "point"    // append the decimal point
	ActionOperator Action = "operator" // append a binary operator
	ActionClear    Action = "clear"    // empty the display buffer
	ActionDelete   Action = "delete"   // drop the last character
	ActionNegate   Action = "negate"   // evaluate and negate
	ActionPercent  Action = "percent"  // evaluate and divide by 100
	ActionEquals   Action = "equals"   // evaluate and display the result
)

// Key is a single keypad button.
type Key struct {
	Label  string `yaml:"label" json:"label"`
	Action Action `yaml:"action" json:"action"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Text returns the characters the key appends to the display buffer.
// For keys whose value is not set explicitly, the label is used.
func (k Key) Text() string {
	if k.Value != "" {
		return k.Value
	}
	return k.Label
}

// Layout is a keypad: named rows of keys rendered top to bottom.
type Layout struct {
	Name string  `yaml:"name" json:"name"`
	Rows [][]Key `yaml:"rows" json:"rows"`
}

// Find returns the first key with the given label.
func (l *Layout) Find(label string) (Key, bool) {
	for _, row := range l.Rows {
		for _, k := range row {
			if k.Label == label {
				return k, true
			}
		}
	}
	return Key{}, false
}

// ParseError represents an error encountered during layout parsing.
type ParseError struct {
	Message  string
	Location string // e.g., "row 3, key 2"
}

func (e *ParseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("layout error at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("layout error: %s", e.Message)
}

//go:embed default.yaml
var defaultSource []byte

// Default returns the built-in 5x4 layout. Each call returns a fresh copy so
// callers may modify it.
func Default() *Layout {
	layout, err := Parse(defaultSource)
	if err != nil {
		panic("keypad: embedded default layout is invalid: " + err.Error())
	}
	return layout
}

// Load reads and parses a layout file.
func Load(path string) (*Layout, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(source)
}

// Parse parses a YAML layout definition.
func Parse(source []byte) (*Layout, error) {
	if len(source) > MaxSourceSize {
		return nil, &ParseError{Message: fmt.Sprintf("layout source size %d exceeds maximum %d bytes", len(source), MaxSourceSize)}
	}

	var layout Layout
	if err := yaml.Unmarshal(source, &layout); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if err := validate(&layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

func validate(layout *Layout) error {
	if len(layout.Rows) == 0 {
		return &ParseError{Message: "layout must have at least one row"}
	}
	if len(layout.Rows) > MaxRows {
		return &ParseError{Message: fmt.Sprintf("layout has %d rows, maximum is %d", len(layout.Rows), MaxRows)}
	}

	for i, row := range layout.Rows {
		if len(row) == 0 {
			return &ParseError{
				Message:  "row has no keys",
				Location: fmt.Sprintf("row %d", i+1),
			}
		}
		if len(row) > MaxKeysPerRow {
			return &ParseError{
				Message:  fmt.Sprintf("row has %d keys, maximum is %d", len(row), MaxKeysPerRow),
				Location: fmt.Sprintf("row %d", i+1),
			}
		}
		for j, key := range row {
			if err := validateKey(key); err != nil {
				return &ParseError{
					Message:  err.Error(),
					Location: fmt.Sprintf("row %d, key %d", i+1, j+1),
				}
			}
		}
	}
	return nil
}

func validateKey(key Key) error {
	if key.Label == "" {
		return fmt.Errorf("key must have a label")
	}

	switch key.Action {
	case ActionDigit:
		text := key.Text()
		if len(text) != 1 || text[0] < '0' || text[0] > '9' {
			return fmt.Errorf("digit key %q must produce a single digit 0-9", key.Label)
		}
	case ActionPoint:
		if key.Text() != "." {
			return fmt.Errorf("point key %q must produce '.'", key.Label)
		}
	case ActionOperator:
		switch key.Text() {
		case "+", "-", "*", "/":
		default:
			return fmt.Errorf("operator key %q must produce one of + - * /", key.Label)
		}
	case ActionClear, ActionDelete, ActionNegate, ActionPercent, ActionEquals:
	case "":
		return fmt.Errorf("key %q has no action", key.Label)
	default:
		return fmt.Errorf("unknown action '%s'", key.Action)
	}
	return nil
}
