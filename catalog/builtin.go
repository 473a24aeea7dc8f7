package catalog

import (
	"fmt"

	"github.com/tiggercwh/go-picross/picross"
)

type pattern struct {
	id, name string
	legend   map[rune]picross.Color
	rows     []string
}

var builtins = []pattern{
	{
		id:   "heart",
		name: "Heart",
		legend: map[rune]picross.Color{
			'R': picross.RGB(0xe6, 0x39, 0x46),
		},
		rows: []string{
			".RR.RR.",
			"RRRRRRR",
			"RRRRRRR",
			".RRRRR.",
			"..RRR..",
			"...R...",
		},
	},
	{
		id:   "mushroom",
		name: "Mushroom",
		legend: map[rune]picross.Color{
			'R': picross.RGB(0xd6, 0x28, 0x28),
			'W': picross.RGB(0xff, 0xff, 0xff),
			'B': picross.RGB(0x8d, 0x5a, 0x3b),
		},
		rows: []string{
			"..RRRR..",
			".RWRRWR.",
			"RRRRRRRR",
			"RWRRRRWR",
			"..BBBB..",
			"..BWWB..",
			"..BBBB..",
		},
	},
	{
		id:   "sailboat",
		name: "Sailboat",
		legend: map[rune]picross.Color{
			'S': picross.RGB(0xf1, 0xfa, 0xee),
			'M': picross.RGB(0x6b, 0x4f, 0x2a),
			'H': picross.RGB(0x1d, 0x35, 0x57),
			'W': picross.RGB(0x45, 0x7b, 0x9d),
		},
		rows: []string{
			"...M....",
			"..SM....",
			".SSMS...",
			"SSSMSS..",
			"...M....",
			"HHHHHHHH",
			".HHHHHH.",
			"WWWWWWWW",
		},
	},
}

// FromPattern builds a puzzle from text rows; each rune is looked up in
// legend and '.' (or any rune missing from it) is an empty cell.
func FromPattern(legend map[rune]picross.Color, rows ...string) (*picross.Puzzle, error) {
	target := make([][]picross.NullColor, len(rows))
	for y, row := range rows {
		for _, r := range row {
			cell := picross.None
			if c, ok := legend[r]; ok {
				cell = picross.Some(c)
			}
			target[y] = append(target[y], cell)
		}
	}
	return picross.FromTarget(target)
}

// Builtin returns a catalog of the puzzles shipped with the program.
func Builtin() *Catalog {
	c := New()
	if err := c.AddBuiltins(); err != nil {
		panic(err)
	}
	return c
}

// AddBuiltins adds the shipped puzzles to c.
func (c *Catalog) AddBuiltins() error {
	for _, b := range builtins {
		p, err := FromPattern(b.legend, b.rows...)
		if err != nil {
			return fmt.Errorf("builtin %s: %w", b.id, err)
		}
		if err := c.Add(b.id, b.name, p); err != nil {
			return err
		}
	}
	return nil
}
