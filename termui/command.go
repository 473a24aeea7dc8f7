package termui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

var ErrBadCommand = errors.New("bad command")

type Kind int

const (
	Gesture Kind = iota
	Select
	Restart
	Help
	Quit
)

// Command is one parsed input line. Path holds 0-based grid coordinates.
type Command struct {
	Kind   Kind
	Button picross.Button
	Path   []gameModel.Point
	// Index is the 1-based palette entry for Select; 0 deselects.
	Index int
}

const Usage = `commands (coordinates start at 1):
  p x y [x y ...]   paint or erase along a path (primary button)
  s x y [x y ...]   mark or unmark along a path (secondary button)
  c N               select palette color N, c 0 deselects
  r                 restart the puzzle
  h                 show this help
  q                 quit`

// ParseCommand reads one line typed by the player.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrBadCommand)
	}
	args := fields[1:]
	switch fields[0] {
	case "p", "s":
		b := picross.Primary
		if fields[0] == "s" {
			b = picross.Secondary
		}
		path, err := parsePath(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: Gesture, Button: b, Path: path}, nil
	case "c":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: c takes one palette number", ErrBadCommand)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return Command{}, fmt.Errorf("%w: bad palette number %q", ErrBadCommand, args[0])
		}
		return Command{Kind: Select, Index: n}, nil
	case "r":
		return Command{Kind: Restart}, nil
	case "h", "?":
		return Command{Kind: Help}, nil
	case "q":
		return Command{Kind: Quit}, nil
	}
	return Command{}, fmt.Errorf("%w: unknown command %q", ErrBadCommand, fields[0])
}

func parsePath(args []string) ([]gameModel.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: expected x y pairs", ErrBadCommand)
	}
	path := make([]gameModel.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, errX := strconv.Atoi(args[i])
		y, errY := strconv.Atoi(args[i+1])
		if errX != nil || errY != nil || x < 1 || y < 1 {
			return nil, fmt.Errorf("%w: bad coordinate %s %s", ErrBadCommand, args[i], args[i+1])
		}
		path = append(path, gameModel.Point{X: x - 1, Y: y - 1})
	}
	return path, nil
}

// Color resolves a Select command against a palette. The empty string
// means no selection.
func (c Command) Color(palette []string) (string, error) {
	if c.Index == 0 {
		return "", nil
	}
	if c.Index > len(palette) {
		return "", fmt.Errorf("%w: palette has %d colors", ErrBadCommand, len(palette))
	}
	return palette[c.Index-1], nil
}
