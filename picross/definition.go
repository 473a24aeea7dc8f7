package picross

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Definition is the serialized form of a puzzle: {name, width, height, pixels}.
//
// On input, pixels may be a base64 string or a flat array of RGBA bytes, a
// list of width*height [r,g,b,a] entries, or height rows of width
// [r,g,b] | [r,g,b,a] | null entries. A three-element entry is opaque and
// null is empty. Output always uses the row form with [r,g,b] and null.
type Definition struct {
	Name   string
	Width  int
	Height int
	rgba   []byte
}

type wireDefinition struct {
	Name   string          `json:"name,omitempty"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Pixels json.RawMessage `json:"pixels"`
}

// DefinitionOf serializes p under the given name.
func DefinitionOf(p *Puzzle, name string) Definition {
	return Definition{Name: name, Width: p.Width(), Height: p.Height(), rgba: p.RGBA()}
}

// ReadDefinition decodes one JSON definition from r.
func ReadDefinition(r io.Reader) (Definition, error) {
	var d Definition
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// Puzzle builds the puzzle the definition describes.
func (d Definition) Puzzle() (*Puzzle, error) {
	return NewPuzzle(d.Width, d.Height, d.rgba)
}

func (d Definition) MarshalJSON() ([]byte, error) {
	if want := d.Width * d.Height * 4; len(d.rgba) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSource, len(d.rgba), want)
	}
	rows := make([][][]int, d.Height)
	for y := range rows {
		rows[y] = make([][]int, d.Width)
		for x := range rows[y] {
			i := (y*d.Width + x) * 4
			if d.rgba[i+3] == 255 {
				rows[y][x] = []int{int(d.rgba[i]), int(d.rgba[i+1]), int(d.rgba[i+2])}
			}
		}
	}
	pixels, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireDefinition{Name: d.Name, Width: d.Width, Height: d.Height, Pixels: pixels})
}

func (d *Definition) UnmarshalJSON(b []byte) error {
	var w wireDefinition
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if err := checkSize(w.Width, w.Height); err != nil {
		return err
	}
	rgba, err := decodePixels(w.Pixels, w.Width, w.Height)
	if err != nil {
		return err
	}
	if want := w.Width * w.Height * 4; len(rgba) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrMalformedSource, len(rgba), want, w.Width, w.Height)
	}
	*d = Definition{Name: w.Name, Width: w.Width, Height: w.Height, rgba: rgba}
	return nil
}

func decodePixels(raw json.RawMessage, width, height int) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 'n' {
		return nil, fmt.Errorf("%w: missing pixels", ErrMalformedSource)
	}
	if raw[0] == '"' {
		var flat []byte
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
		}
		return flat, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(items) == 0 {
		return []byte{}, nil
	}
	first := bytes.TrimSpace(items[0])
	switch {
	case first[0] == 'n':
		return decodePixelList(raw, width*height)
	case first[0] != '[':
		return decodeFlat(raw)
	}
	var inner []json.RawMessage
	if err := json.Unmarshal(first, &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(inner) > 0 {
		if c := bytes.TrimSpace(inner[0]); c[0] == '[' || c[0] == 'n' {
			return decodeRows(raw, width, height)
		}
	}
	return decodePixelList(raw, width*height)
}

func decodeFlat(raw json.RawMessage) ([]byte, error) {
	var nums []int
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range: %d", ErrMalformedSource, i, n)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func decodePixelList(raw json.RawMessage, n int) ([]byte, error) {
	var px [][]int
	if err := json.Unmarshal(raw, &px); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(px) != n {
		return nil, fmt.Errorf("%w: got %d pixels, want %d", ErrMalformedSource, len(px), n)
	}
	out := make([]byte, 0, n*4)
	for i, p := range px {
		b, err := pixelBytes(p)
		if err != nil {
			return nil, fmt.Errorf("pixel %d: %w", i, err)
		}
		out = append(out, b[:]...)
	}
	return out, nil
}

func decodeRows(raw json.RawMessage, width, height int) ([]byte, error) {
	var rows [][][]int
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(rows) != height {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrMalformedSource, len(rows), height)
	}
	out := make([]byte, 0, width*height*4)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrMalformedSource, y, len(row), width)
		}
		for x, p := range row {
			b, err := pixelBytes(p)
			if err != nil {
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			out = append(out, b[:]...)
		}
	}
	return out, nil
}

func pixelBytes(p []int) ([4]byte, error) {
	var b [4]byte
	switch len(p) {
	case 0:
		return b, nil
	case 3:
		b[3] = 255
	case 4:
	default:
		return b, fmt.Errorf("%w: pixel has %d channels", ErrMalformedSource, len(p))
	}
	for i, v := range p {
		if v < 0 || v > 255 {
			return b, fmt.Errorf("%w: channel value %d", ErrMalformedSource, v)
		}
		b[i] = byte(v)
	}
	return b, nil
}
