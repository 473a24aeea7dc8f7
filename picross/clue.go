package picross

// Clue is one colored run of a row or column.
type Clue struct {
	Color Color `json:"color"`
	Count int   `json:"count"`
}

// Axis selects rows or columns of a puzzle.
type Axis int

const (
	Rows Axis = iota
	Columns
)

func (a Axis) String() string {
	if a == Columns {
		return "columns"
	}
	return "rows"
}

// DeriveLine segments a line into maximal same-colored runs of non-empty
// cells. A color change closes a run even without an empty cell between.
// An all-empty line yields an empty, non-nil slice.
func DeriveLine(line []NullColor) []Clue {
	clues := []Clue{}
	run := 0
	var active Color
	for _, cell := range line {
		if cell.Valid && (run == 0 || cell.Color == active) {
			run++
			active = cell.Color
			continue
		}
		if run > 0 {
			clues = append(clues, Clue{Color: active, Count: run})
		}
		run = 0
		if cell.Valid {
			active = cell.Color
			run = 1
		}
	}
	if run > 0 {
		clues = append(clues, Clue{Color: active, Count: run})
	}
	return clues
}

// DeriveClues computes the clue-lines of every row and every column of a
// height x width target grid.
func DeriveClues(target [][]NullColor, width, height int) (rows, cols [][]Clue) {
	rows = make([][]Clue, height)
	for y := 0; y < height; y++ {
		rows[y] = DeriveLine(target[y][:width])
	}
	cols = make([][]Clue, width)
	line := make([]NullColor, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			line[y] = target[y][x]
		}
		cols[x] = DeriveLine(line)
	}
	return rows, cols
}

func longest(lines [][]Clue) int {
	n := 0
	for _, l := range lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}

func copyLines(lines [][]Clue) [][]Clue {
	out := make([][]Clue, len(lines))
	for i, l := range lines {
		out[i] = append([]Clue{}, l...)
	}
	return out
}
