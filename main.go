package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tiggercwh/go-picross/catalog"
	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
	"github.com/tiggercwh/go-picross/termui"
)

var (
	puzzleFile = flag.String("puzzle", "", "puzzle definition (.json) or image to play")
	builtinID  = flag.String("name", "heart", "built-in puzzle to play when -puzzle is not set")
)

func loadPuzzle() (*picross.Puzzle, string, error) {
	if *puzzleFile != "" {
		p, name, err := catalog.LoadFile(*puzzleFile)
		if err != nil {
			return nil, "", err
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(*puzzleFile), filepath.Ext(*puzzleFile))
		}
		return p, name, nil
	}
	e, err := catalog.Builtin().Get(*builtinID)
	if err != nil {
		return nil, "", err
	}
	return e.Puzzle, e.Name, nil
}

// drag runs a whole gesture along path.
func drag(s *picross.Session, b picross.Button, path []gameModel.Point) (bool, error) {
	if _, err := s.Begin(b, path[0].X, path[0].Y); err != nil {
		return s.Solved(), err
	}
	for _, pt := range path[1:] {
		if err := s.Move(pt.X, pt.Y); err != nil {
			s.End()
			return s.Solved(), err
		}
	}
	return s.End()
}

func main() {
	flag.Parse()

	p, name, err := loadPuzzle()
	if err != nil {
		log.Fatalf("cannot load puzzle: %v", err)
	}
	s := picross.NewSession(p)
	started := time.Now()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome to Picross CLI!")
	fmt.Println(termui.Usage)

	for {
		st := gameModel.NewGameState("local", name, name, s, started, time.Now())
		if err := termui.Render(os.Stdout, st); err != nil {
			log.Fatalf("render: %v", err)
		}
		if s.Solved() {
			fmt.Println("Congratulations! You solved the puzzle.")
			return
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		cmd, err := termui.ParseCommand(scanner.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}

		switch cmd.Kind {
		case termui.Gesture:
			_, err = drag(s, cmd.Button, cmd.Path)
		case termui.Select:
			var hex string
			if hex, err = cmd.Color(st.Palette); err != nil {
				break
			}
			if hex == "" {
				err = s.Deselect()
				break
			}
			c, _ := picross.ParseColor(hex)
			err = s.Select(c)
		case termui.Restart:
			err = s.Restart()
		case termui.Help:
			fmt.Println(termui.Usage)
		case termui.Quit:
			return
		}
		if errors.Is(err, picross.ErrOutOfRange) {
			fmt.Printf("That cell is off the %dx%d board.\n", p.Width(), p.Height())
		} else if err != nil {
			fmt.Println(err)
		}
	}
}
