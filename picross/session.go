package picross

import (
	"errors"
	"fmt"
)

var (
	ErrSolved       = errors.New("picross: puzzle already solved")
	ErrNoGesture    = errors.New("picross: no gesture in progress")
	ErrUnknownColor = errors.New("picross: color not in palette")
)

// Session is one player working on one puzzle. It is not safe for
// concurrent use; callers serialize gestures per session.
type Session struct {
	puzzle   *Puzzle
	grid     *PlayerGrid
	selected NullColor

	active  bool
	drawing DrawType
	paint   NullColor

	solved bool
}

// NewSession starts play on p with an empty grid and the first palette
// color selected.
func NewSession(p *Puzzle) *Session {
	s := &Session{
		puzzle: p,
		grid:   NewPlayerGrid(p.Width(), p.Height()),
	}
	if colors := p.Colors(); len(colors) > 0 {
		s.selected = Some(colors[0])
	}
	return s
}

func (s *Session) Puzzle() *Puzzle { return s.puzzle }

// Grid returns a snapshot of the player's grid.
func (s *Session) Grid() *PlayerGrid { return s.grid.Clone() }

func (s *Session) Solved() bool { return s.solved }

func (s *Session) Selected() NullColor { return s.selected }

// Gesture reports the DrawType of the gesture in progress, if any.
func (s *Session) Gesture() (DrawType, bool) { return s.drawing, s.active }

// Select makes c the paint color. c must be one of the puzzle's colors.
func (s *Session) Select(c Color) error {
	if s.solved {
		return ErrSolved
	}
	if !s.puzzle.HasColor(c) {
		return fmt.Errorf("%w: %s", ErrUnknownColor, c)
	}
	s.selected = Some(c)
	return nil
}

// Deselect drops the palette selection. Primary gestures then only erase.
func (s *Session) Deselect() error {
	if s.solved {
		return ErrSolved
	}
	s.selected = None
	return nil
}

// Begin starts a gesture on (x, y). The DrawType is classified against that
// cell and the current selection, then applied to it. It stays fixed until
// End, as does the paint color.
func (s *Session) Begin(b Button, x, y int) (DrawType, error) {
	if s.solved {
		return DrawNone, ErrSolved
	}
	if !s.grid.Contains(x, y) {
		return DrawNone, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, x, y)
	}
	s.drawing = Classify(b, s.grid.State(x, y), s.grid.Color(x, y), s.selected)
	s.paint = s.selected
	s.active = true
	Logger().Debug("gesture begin", "button", b, "x", x, "y", y, "draw", s.drawing, "paint", s.paint)
	return s.drawing, s.apply(x, y)
}

// Move applies the gesture's DrawType to (x, y). Cells off the grid are
// skipped.
func (s *Session) Move(x, y int) error {
	if s.solved {
		return ErrSolved
	}
	if !s.active {
		return ErrNoGesture
	}
	if !s.grid.Contains(x, y) {
		return nil
	}
	return s.apply(x, y)
}

// End finishes the gesture and checks the grid against the puzzle. On a
// match every mark is cleared and the session becomes solved for good.
func (s *Session) End() (bool, error) {
	if !s.active {
		return s.solved, ErrNoGesture
	}
	Logger().Debug("gesture end", "draw", s.drawing)
	s.active = false
	s.drawing = DrawNone
	s.paint = None
	if IsComplete(s.puzzle, s.grid) {
		n := s.grid.ClearMarks()
		s.solved = true
		Logger().Debug("puzzle solved", "width", s.puzzle.Width(), "height", s.puzzle.Height(), "marksCleared", n)
	}
	return s.solved, nil
}

// Restart discards all progress, as a fresh session on the same puzzle
// would. The palette selection is kept.
func (s *Session) Restart() error {
	if s.solved {
		return ErrSolved
	}
	s.grid = NewPlayerGrid(s.puzzle.Width(), s.puzzle.Height())
	s.active = false
	s.drawing = DrawNone
	s.paint = None
	return nil
}

func (s *Session) apply(x, y int) error {
	switch s.drawing {
	case DrawFill:
		return s.grid.Fill(x, y, s.paint.Color)
	case DrawMark:
		return s.grid.Mark(x, y)
	case DrawClear:
		return s.grid.Clear(x, y)
	}
	return nil
}
