package termui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"p 1 1", Command{Kind: Gesture, Button: picross.Primary, Path: []gameModel.Point{{X: 0, Y: 0}}}},
		{"S 2 3 2 4", Command{Kind: Gesture, Button: picross.Secondary, Path: []gameModel.Point{{X: 1, Y: 2}, {X: 1, Y: 3}}}},
		{"c 2", Command{Kind: Select, Index: 2}},
		{"c 0", Command{Kind: Select}},
		{"  r ", Command{Kind: Restart}},
		{"h", Command{Kind: Help}},
		{"q", Command{Kind: Quit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if err != nil {
				t.Fatalf("ParseCommand(%q): %v", tt.line, err)
			}
			if got.Kind != tt.want.Kind || got.Button != tt.want.Button || got.Index != tt.want.Index {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
			if len(got.Path) != len(tt.want.Path) {
				t.Fatalf("path = %v, want %v", got.Path, tt.want.Path)
			}
			for i := range got.Path {
				if got.Path[i] != tt.want.Path[i] {
					t.Errorf("path[%d] = %v, want %v", i, got.Path[i], tt.want.Path[i])
				}
			}
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{"", "p", "p 1", "p 0 1", "p a b", "c", "c -1", "c x", "zap"} {
		if _, err := ParseCommand(line); !errors.Is(err, ErrBadCommand) {
			t.Errorf("ParseCommand(%q) err = %v, want ErrBadCommand", line, err)
		}
	}
}

func TestCommandColor(t *testing.T) {
	palette := []string{"#ff0000", "#0000ff"}
	if c, err := (Command{Kind: Select, Index: 2}).Color(palette); err != nil || c != "#0000ff" {
		t.Errorf("Color(2) = %q, %v", c, err)
	}
	if c, err := (Command{Kind: Select}).Color(palette); err != nil || c != "" {
		t.Errorf("Color(0) = %q, %v", c, err)
	}
	if _, err := (Command{Kind: Select, Index: 3}).Color(palette); !errors.Is(err, ErrBadCommand) {
		t.Errorf("Color(3) err = %v", err)
	}
}

func renderState(t *testing.T) gameModel.GameState {
	t.Helper()
	red, blue := picross.RGB(255, 0, 0), picross.RGB(0, 0, 255)
	p, err := picross.FromTarget([][]picross.NullColor{
		{picross.Some(red), picross.Some(blue)},
		{picross.None, picross.Some(red)},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := picross.NewSession(p)
	if _, err := s.Begin(picross.Primary, 0, 0); err != nil {
		t.Fatal(err)
	}
	s.End()
	s.Begin(picross.Secondary, 0, 1)
	s.End()
	now := time.Now()
	return gameModel.NewGameState("g", "p", "Pair", s, now, now)
}

func TestRender(t *testing.T) {
	st := renderState(t)
	var buf bytes.Buffer
	if err := Render(&buf, st); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, two clue rows, the column numbers, two grid rows, palette
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Pair") {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.Contains(out, "\033[48;2;255;0;0m") {
		t.Error("filled red cell not drawn on a red background")
	}
	if !strings.Contains(lines[5], " x ") {
		t.Errorf("mark missing from row 2: %q", lines[5])
	}
	// white clue text on blue
	if !strings.Contains(out, "\033[48;2;0;0;255m\033[38;2;255;255;255m") {
		t.Error("blue clue should use white text")
	}
	if !strings.Contains(lines[6], " [\033") || strings.Contains(lines[6], "none selected") {
		t.Errorf("palette line = %q", lines[6])
	}
	if strings.Contains(out, "Solved!") {
		t.Error("unsolved state rendered as solved")
	}
}

func TestPaletteWithoutSelection(t *testing.T) {
	st := renderState(t)
	st.Selected = ""
	if got := Palette(st); !strings.Contains(got, "none selected") || strings.Contains(got, " [\033") {
		t.Errorf("Palette = %q", got)
	}
}
