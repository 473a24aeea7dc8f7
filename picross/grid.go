package picross

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned for coordinates outside the grid.
var ErrOutOfRange = errors.New("picross: cell out of range")

// CellState is the play state of one cell.
type CellState int

const (
	Empty CellState = iota
	Filled
	Marked
)

func (s CellState) String() string {
	switch s {
	case Filled:
		return "filled"
	case Marked:
		return "marked"
	default:
		return "empty"
	}
}

func (s CellState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *CellState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*s = Empty
	case "filled":
		*s = Filled
	case "marked":
		*s = Marked
	default:
		return fmt.Errorf("picross: unknown cell state %q", b)
	}
	return nil
}

// PlayerGrid is the mutable board the player builds. A cell is Filled
// exactly when it holds a color.
type PlayerGrid struct {
	width, height int
	colors        [][]NullColor
	states        [][]CellState
}

// NewPlayerGrid returns an all-Empty grid.
func NewPlayerGrid(width, height int) *PlayerGrid {
	g := &PlayerGrid{
		width:  width,
		height: height,
		colors: make([][]NullColor, height),
		states: make([][]CellState, height),
	}
	for y := 0; y < height; y++ {
		g.colors[y] = make([]NullColor, width)
		g.states[y] = make([]CellState, width)
	}
	return g
}

func (g *PlayerGrid) Width() int  { return g.width }
func (g *PlayerGrid) Height() int { return g.height }

// Contains reports whether (x, y) lies on the grid.
func (g *PlayerGrid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *PlayerGrid) check(x, y int) error {
	if !g.Contains(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	return nil
}

// Fill paints (x, y) with c, overwriting any previous color or mark.
func (g *PlayerGrid) Fill(x, y int, c Color) error {
	if err := g.check(x, y); err != nil {
		return err
	}
	g.colors[y][x] = Some(c)
	g.states[y][x] = Filled
	return nil
}

// Mark puts the elimination mark on (x, y), dropping any color.
func (g *PlayerGrid) Mark(x, y int) error {
	if err := g.check(x, y); err != nil {
		return err
	}
	g.colors[y][x] = None
	g.states[y][x] = Marked
	return nil
}

// Clear returns (x, y) to Empty.
func (g *PlayerGrid) Clear(x, y int) error {
	if err := g.check(x, y); err != nil {
		return err
	}
	g.colors[y][x] = None
	g.states[y][x] = Empty
	return nil
}

// State returns the state of (x, y); out-of-range cells read as Empty.
func (g *PlayerGrid) State(x, y int) CellState {
	if !g.Contains(x, y) {
		return Empty
	}
	return g.states[y][x]
}

// Color returns the color placed on (x, y), if any.
func (g *PlayerGrid) Color(x, y int) NullColor {
	if !g.Contains(x, y) {
		return None
	}
	return g.colors[y][x]
}

// ClearMarks turns every Marked cell back to Empty and returns how many
// were cleared.
func (g *PlayerGrid) ClearMarks() int {
	n := 0
	for y := range g.states {
		for x, s := range g.states[y] {
			if s == Marked {
				g.states[y][x] = Empty
				n++
			}
		}
	}
	return n
}

func (g *PlayerGrid) Clone() *PlayerGrid {
	c := &PlayerGrid{
		width:  g.width,
		height: g.height,
		colors: make([][]NullColor, g.height),
		states: make([][]CellState, g.height),
	}
	for y := 0; y < g.height; y++ {
		c.colors[y] = append([]NullColor(nil), g.colors[y]...)
		c.states[y] = append([]CellState(nil), g.states[y]...)
	}
	return c
}
