package gameModel

import (
	"time"

	"github.com/tiggercwh/go-picross/picross"
)

func clueLines(lines [][]picross.Clue) [][]Clue {
	out := make([][]Clue, len(lines))
	for i, line := range lines {
		out[i] = make([]Clue, len(line))
		for j, c := range line {
			out[i][j] = Clue{Color: c.Color.Hex(), Count: c.Count}
		}
	}
	return out
}

func hexes(colors []picross.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

// NewPuzzleInfo describes a catalog puzzle without its solution.
func NewPuzzleInfo(id, name string, p *picross.Puzzle) PuzzleInfo {
	return PuzzleInfo{ID: id, Name: name, Width: p.Width(), Height: p.Height(), Colors: hexes(p.Colors())}
}

// NewGameState snapshots a session for the wire.
func NewGameState(id, puzzleID, name string, s *picross.Session, createdAt, lastActivity time.Time) GameState {
	p := s.Puzzle()
	g := s.Grid()
	cells := make([][]Cell, g.Height())
	for y := range cells {
		cells[y] = make([]Cell, g.Width())
		for x := range cells[y] {
			cells[y][x].State = g.State(x, y).String()
			if c := g.Color(x, y); c.Valid {
				cells[y][x].Color = c.Color.Hex()
			}
		}
	}
	st := GameState{
		ID:           id,
		PuzzleID:     puzzleID,
		Name:         name,
		Width:        p.Width(),
		Height:       p.Height(),
		RowClues:     clueLines(p.RowClues()),
		ColClues:     clueLines(p.ColClues()),
		Palette:      hexes(p.Colors()),
		Background:   p.Background().Hex(),
		Cells:        cells,
		Solved:       s.Solved(),
		CreatedAt:    createdAt.Format(time.RFC3339),
		LastActivity: lastActivity.Format(time.RFC3339),
	}
	if sel := s.Selected(); sel.Valid {
		st.Selected = sel.Color.Hex()
	}
	return st
}
