package picross

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownButton is returned by ParseButton.
var ErrUnknownButton = errors.New("picross: unknown button")

// Button is the pointer button that started a gesture.
type Button int

const (
	Primary Button = iota
	Secondary
)

func (b Button) String() string {
	if b == Secondary {
		return "secondary"
	}
	return "primary"
}

// ParseButton accepts primary/left and secondary/right.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "left", "":
		return Primary, nil
	case "secondary", "right":
		return Secondary, nil
	default:
		return Primary, fmt.Errorf("%w: %q", ErrUnknownButton, s)
	}
}

// DrawType is the single operation a gesture performs on every cell it
// touches. It is fixed when the gesture starts.
type DrawType int

const (
	DrawNone DrawType = iota
	DrawFill
	DrawMark
	DrawClear
)

func (d DrawType) String() string {
	switch d {
	case DrawFill:
		return "fill"
	case DrawMark:
		return "mark"
	case DrawClear:
		return "clear"
	default:
		return "none"
	}
}

// Classify decides what a gesture does from the button, the state and color
// of the cell under the pointer at gesture start, and the palette selection.
//
// The primary button paints, or erases when the cell already holds the
// selected color; with nothing selected it only erases. The secondary
// button toggles the elimination mark.
func Classify(b Button, state CellState, cell NullColor, selected NullColor) DrawType {
	if b == Secondary {
		if state == Marked {
			return DrawClear
		}
		return DrawMark
	}
	if state == Filled {
		if selected.Valid && !selected.Equal(cell) {
			return DrawFill
		}
		return DrawClear
	}
	if selected.Valid {
		return DrawFill
	}
	return DrawNone
}
