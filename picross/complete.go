package picross

// IsComplete reports whether every cell of g matches p: target cells hold
// exactly the target color and empty cells hold no color. Marks count as
// no color.
func IsComplete(p *Puzzle, g *PlayerGrid) bool {
	if p.Width() != g.Width() || p.Height() != g.Height() {
		return false
	}
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			if !p.Target(x, y).Equal(g.Color(x, y)) {
				return false
			}
		}
	}
	return true
}
