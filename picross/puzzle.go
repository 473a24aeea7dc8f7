package picross

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrMalformedSource is wrapped by every puzzle construction failure.
var ErrMalformedSource = errors.New("picross: malformed pixel source")

// MaxCells bounds width*height of any puzzle.
const MaxCells = 1 << 24

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedSource, width, height)
	}
	if width > MaxCells/height {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrMalformedSource, width, height, MaxCells)
	}
	return nil
}

// Puzzle is the immutable definition of one nonogram: the target image and
// the clues derived from it.
type Puzzle struct {
	width, height int
	target        [][]NullColor
	rowClues      [][]Clue
	colClues      [][]Clue
	colors        []Color
	dominant      NullColor
}

// NewPuzzle builds a puzzle from a row-major RGBA buffer of width*height*4
// bytes. Pixels with alpha 255 carry their color, every other alpha is empty.
func NewPuzzle(width, height int, rgba []byte) (*Puzzle, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if want := width * height * 4; len(rgba) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrMalformedSource, len(rgba), want, width, height)
	}
	target := make([][]NullColor, height)
	for y := 0; y < height; y++ {
		row := make([]NullColor, width)
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			// only fully opaque pixels are part of the picture
			if rgba[i+3] == 255 {
				row[x] = Some(Color{R: rgba[i], G: rgba[i+1], B: rgba[i+2]})
			}
		}
		target[y] = row
	}
	return newPuzzle(target), nil
}

// FromImage builds a puzzle from a decoded image, one cell per pixel.
func FromImage(img image.Image) (*Puzzle, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrMalformedSource)
	}
	if err := checkSize(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return NewPuzzle(b.Dx(), b.Dy(), dst.Pix)
}

// FromTarget builds a puzzle from an explicit height x width target grid.
func FromTarget(rows [][]NullColor) (*Puzzle, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty target grid", ErrMalformedSource)
	}
	width := len(rows[0])
	target := make([][]NullColor, len(rows))
	for y, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedSource, y, len(r), width)
		}
		target[y] = append([]NullColor(nil), r...)
	}
	return newPuzzle(target), nil
}

func newPuzzle(target [][]NullColor) *Puzzle {
	p := &Puzzle{
		width:  len(target[0]),
		height: len(target),
		target: target,
	}
	p.rowClues, p.colClues = DeriveClues(target, p.width, p.height)

	counts := make(map[Color]int)
	for _, row := range target {
		for _, cell := range row {
			if !cell.Valid {
				continue
			}
			if counts[cell.Color] == 0 {
				p.colors = append(p.colors, cell.Color)
			}
			counts[cell.Color]++
		}
	}
	best := 0
	for _, c := range p.colors {
		if counts[c] > best {
			best = counts[c]
			p.dominant = Some(c)
		}
	}
	return p
}

func (p *Puzzle) Width() int  { return p.width }
func (p *Puzzle) Height() int { return p.height }

// Target returns the color of cell (x, y), or None for an empty or
// out-of-range cell.
func (p *Puzzle) Target(x, y int) NullColor {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return None
	}
	return p.target[y][x]
}

func (p *Puzzle) RowClues() [][]Clue { return copyLines(p.rowClues) }
func (p *Puzzle) ColClues() [][]Clue { return copyLines(p.colClues) }

func (p *Puzzle) Clues(a Axis) [][]Clue {
	if a == Columns {
		return p.ColClues()
	}
	return p.RowClues()
}

// LongestClueLength is the number of clues in the longest clue-line along a.
func (p *Puzzle) LongestClueLength(a Axis) int {
	if a == Columns {
		return longest(p.colClues)
	}
	return longest(p.rowClues)
}

// Colors lists the distinct colors of the picture in raster order of first
// appearance. This is the palette offered to the player.
func (p *Puzzle) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// HasColor reports whether c appears anywhere in the picture.
func (p *Puzzle) HasColor(c Color) bool {
	for _, pc := range p.colors {
		if pc == c {
			return true
		}
	}
	return false
}

// DominantColor is the color covering the most cells, ties going to the
// color seen first. ok is false for a picture without any colored cell.
func (p *Puzzle) DominantColor() (Color, bool) {
	return p.dominant.Color, p.dominant.Valid
}

// Background is a pale complement of the dominant color, for presentation.
func (p *Puzzle) Background() Color {
	return p.dominant.Color.Background()
}

// RGBA renders the target grid back into a row-major RGBA buffer. Empty
// cells are fully transparent black.
func (p *Puzzle) RGBA() []byte {
	out := make([]byte, p.width*p.height*4)
	for y, row := range p.target {
		for x, cell := range row {
			if !cell.Valid {
				continue
			}
			i := (y*p.width + x) * 4
			out[i], out[i+1], out[i+2], out[i+3] = cell.Color.R, cell.Color.G, cell.Color.B, 255
		}
	}
	return out
}
