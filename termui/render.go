// Package termui draws game states on an ANSI truecolor terminal and parses
// the commands typed by the player.
package termui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

const (
	reset    = "\033[0m"
	dim      = "\033[1;90m"
	bold     = "\033[1m"
	cellW    = 3
	rowLabel = 4
)

func bg(c picross.Color) string { return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B) }
func fg(c picross.Color) string { return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B) }

// textOn picks black or white text for legibility on c.
func textOn(c picross.Color) picross.Color {
	if c.Luma() < 128 {
		return picross.RGB(255, 255, 255)
	}
	return picross.RGB(0, 0, 0)
}

func parseHex(s string) picross.Color {
	c, _ := picross.ParseColor(s)
	return c
}

func clueCell(c gameModel.Clue) string {
	col := parseHex(c.Color)
	return bg(col) + fg(textOn(col)) + fmt.Sprintf("%2d ", c.Count) + reset
}

func longest(lines [][]gameModel.Clue) int {
	n := 0
	for _, l := range lines {
		n = max(n, len(l))
	}
	return n
}

// Render writes st: column clues stacked above the grid and aligned to its
// bottom edge, row clues on the left, then the palette. Coordinates are
// labelled 1-based to match ParseCommand.
func Render(w io.Writer, st gameModel.GameState) error {
	bw := bufio.NewWriter(w)
	back := parseHex(st.Background)
	rowClueW := longest(st.RowClues) * cellW
	pad := strings.Repeat(" ", rowLabel+rowClueW)

	fmt.Fprintf(bw, "%s%s%s (%dx%d)\n", bold, st.Name, reset, st.Width, st.Height)

	colDepth := longest(st.ColClues)
	for i := 0; i < colDepth; i++ {
		bw.WriteString(pad)
		for _, col := range st.ColClues {
			k := i - (colDepth - len(col))
			if k < 0 {
				bw.WriteString(strings.Repeat(" ", cellW))
				continue
			}
			bw.WriteString(clueCell(col[k]))
		}
		bw.WriteByte('\n')
	}

	bw.WriteString(pad + dim)
	for x := 1; x <= st.Width; x++ {
		fmt.Fprintf(bw, "%2d ", x)
	}
	bw.WriteString(reset + "\n")

	for y, row := range st.Cells {
		fmt.Fprintf(bw, "%s%3d%s ", dim, y+1, reset)
		var clues []gameModel.Clue
		if y < len(st.RowClues) {
			clues = st.RowClues[y]
		}
		bw.WriteString(strings.Repeat(" ", rowClueW-len(clues)*cellW))
		for _, c := range clues {
			bw.WriteString(clueCell(c))
		}
		for _, cell := range row {
			switch cell.State {
			case "filled":
				bw.WriteString(bg(parseHex(cell.Color)) + "   " + reset)
			case "marked":
				bw.WriteString(bg(back) + fg(textOn(back)) + " x " + reset)
			default:
				bw.WriteString(bg(back) + fg(textOn(back)) + " . " + reset)
			}
		}
		bw.WriteByte('\n')
	}

	bw.WriteString(Palette(st))
	bw.WriteByte('\n')
	if st.Solved {
		bw.WriteString(bold + "Solved!" + reset + "\n")
	}
	return bw.Flush()
}

// Palette renders the palette line, numbering entries from 1 and
// bracketing the selected one.
func Palette(st gameModel.GameState) string {
	var b strings.Builder
	b.WriteString("palette:")
	for i, hex := range st.Palette {
		c := parseHex(hex)
		swatch := bg(c) + fg(textOn(c)) + fmt.Sprintf(" %d ", i+1) + reset
		if strings.EqualFold(hex, st.Selected) {
			b.WriteString(" [" + swatch + "]")
		} else {
			b.WriteString("  " + swatch + " ")
		}
	}
	if st.Selected == "" {
		b.WriteString("  (none selected)")
	}
	return b.String()
}
