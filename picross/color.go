package picross

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color string is not of the form #rrggbb.
var ErrInvalidColor = errors.New("picross: invalid color")

// Color is an opaque RGB value. Two colors are equal iff all three channels match.
type Color struct {
	R, G, B uint8
}

// RGB is shorthand for Color{r, g, b}.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor accepts "#rrggbb" or "rrggbb" in either case.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Invert returns the channel-wise complement.
func (c Color) Invert() Color {
	return Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Luma is the perceived brightness in [0, 255]. Text drawn on a color with
// Luma below 128 should be light.
func (c Color) Luma() float64 {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return math.Sqrt(0.299*r*r + 0.587*g*g + 0.114*b*b)
}

// Background derives a pale backdrop from the complement of c: saturation
// is cut to a fifth and value lifted by 0.2.
func (c Color) Background() Color {
	h, s, v := toHSV(c.Invert())
	return fromHSV(h, s*0.2, math.Min(v+0.2, 1))
}

func toHSV(c Color) (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	d := hi - lo
	v = hi
	if hi > 0 {
		s = d / hi
	}
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func fromHSV(h, s, v float64) Color {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Color{R: channel(r + m), G: channel(g + m), B: channel(b + m)}
}

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// NullColor is a Color that may be absent. The zero value is absent.
type NullColor struct {
	Color Color
	Valid bool
}

// None is the absent color.
var None = NullColor{}

// Some wraps c as a present NullColor.
func Some(c Color) NullColor { return NullColor{Color: c, Valid: true} }

// Equal reports whether both are absent or both hold the same color.
func (n NullColor) Equal(o NullColor) bool {
	if n.Valid != o.Valid {
		return false
	}
	return !n.Valid || n.Color == o.Color
}

func (n NullColor) String() string {
	if !n.Valid {
		return "none"
	}
	return n.Color.Hex()
}

func (n NullColor) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Color.Hex())
}

func (n *NullColor) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = None
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	*n = Some(c)
	return nil
}
