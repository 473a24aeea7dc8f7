package picross

import (
	"errors"
	"testing"
)

func checkCell(t *testing.T, g *PlayerGrid, x, y int, state CellState, color NullColor) {
	t.Helper()
	if got := g.State(x, y); got != state {
		t.Errorf("State(%d,%d) = %v, want %v", x, y, got, state)
	}
	if got := g.Color(x, y); !got.Equal(color) {
		t.Errorf("Color(%d,%d) = %v, want %v", x, y, got, color)
	}
	if (g.State(x, y) == Filled) != g.Color(x, y).Valid {
		t.Errorf("cell (%d,%d): filled state and color disagree", x, y)
	}
}

func TestPlayerGridTransitions(t *testing.T) {
	g := NewPlayerGrid(3, 2)
	checkCell(t, g, 2, 1, Empty, None)

	if err := g.Fill(2, 1, red); err != nil {
		t.Fatal(err)
	}
	if err := g.Fill(2, 1, red); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 2, 1, Filled, Some(red))

	if err := g.Fill(2, 1, blue); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 2, 1, Filled, Some(blue))

	if err := g.Mark(2, 1); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 2, 1, Marked, None)

	if err := g.Fill(2, 1, red); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 2, 1, Filled, Some(red))

	if err := g.Clear(2, 1); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 2, 1, Empty, None)

	if err := g.Mark(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Clear(0, 0); err != nil {
		t.Fatal(err)
	}
	checkCell(t, g, 0, 0, Empty, None)
}

func TestPlayerGridOutOfRange(t *testing.T) {
	g := NewPlayerGrid(2, 2)
	ops := map[string]func() error{
		"fill":  func() error { return g.Fill(2, 0, red) },
		"mark":  func() error { return g.Mark(0, -1) },
		"clear": func() error { return g.Clear(-1, 5) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: err = %v, want ErrOutOfRange", name, err)
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			checkCell(t, g, x, y, Empty, None)
		}
	}
}

func TestClearMarks(t *testing.T) {
	g := NewPlayerGrid(3, 1)
	_ = g.Mark(0, 0)
	_ = g.Fill(1, 0, red)
	_ = g.Mark(2, 0)
	if n := g.ClearMarks(); n != 2 {
		t.Errorf("ClearMarks = %d, want 2", n)
	}
	checkCell(t, g, 0, 0, Empty, None)
	checkCell(t, g, 1, 0, Filled, Some(red))
	checkCell(t, g, 2, 0, Empty, None)
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewPlayerGrid(1, 1)
	c := g.Clone()
	_ = c.Fill(0, 0, red)
	checkCell(t, g, 0, 0, Empty, None)
}

func TestClassify(t *testing.T) {
	a, b := Some(red), Some(blue)
	cases := []struct {
		name     string
		button   Button
		state    CellState
		cell     NullColor
		selected NullColor
		want     DrawType
	}{
		{"primary on empty", Primary, Empty, None, a, DrawFill},
		{"primary on marked", Primary, Marked, None, a, DrawFill},
		{"primary without selection", Primary, Empty, None, None, DrawNone},
		{"primary on marked without selection", Primary, Marked, None, None, DrawNone},
		{"primary on same color", Primary, Filled, a, a, DrawClear},
		{"primary repaints other color", Primary, Filled, a, b, DrawFill},
		{"primary on filled without selection", Primary, Filled, a, None, DrawClear},
		{"secondary on empty", Secondary, Empty, None, a, DrawMark},
		{"secondary on filled", Secondary, Filled, a, None, DrawMark},
		{"secondary on marked", Secondary, Marked, None, a, DrawClear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.button, tc.state, tc.cell, tc.selected); got != tc.want {
				t.Errorf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseButton(t *testing.T) {
	for in, want := range map[string]Button{"primary": Primary, "LEFT": Primary, "right": Secondary, " secondary ": Secondary} {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Errorf("ParseButton(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseButton("middle"); err == nil {
		t.Error("ParseButton(middle) should fail")
	}
}
