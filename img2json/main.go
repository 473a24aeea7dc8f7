// Command img2json turns an image into a puzzle definition file, one cell
// per pixel. Pixels that are not fully opaque become empty cells.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tiggercwh/go-picross/catalog"
	"github.com/tiggercwh/go-picross/picross"
)

var (
	size = flag.String("size", "", "resample to WxH before conversion, e.g. 15x15")
	name = flag.String("name", "", "puzzle name (default: input file name)")
)

func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad width", s)
	}
	if h, err = strconv.Atoi(hs); err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad height", s)
	}
	if w > picross.MaxCells/h {
		return 0, 0, fmt.Errorf("size %q: more than %d cells", s, picross.MaxCells)
	}
	return w, h, nil
}

// convert reads an image from in and writes its definition to out. A zero
// width leaves the image at its own size.
func convert(in io.Reader, out io.Writer, title string, width, height int) (*picross.Puzzle, error) {
	img, _, err := catalog.ReadImage(in)
	if err != nil {
		return nil, err
	}
	if width > 0 {
		img = catalog.Resample(img, width, height)
	}
	p, err := picross.FromImage(img)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return p, enc.Encode(picross.DefinitionOf(p, title))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: img2json [-size WxH] [-name NAME] <input-image> <output-json>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	var w, h int
	if *size != "" {
		var err error
		if w, h, err = parseSize(*size); err != nil {
			log.Fatal(err)
		}
	}
	title := *name
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("cannot open input: %v", err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("cannot create output: %v", err)
	}

	p, err := convert(in, out, title, w, h)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
	fmt.Printf("wrote %s: %dx%d, %d colors\n", outPath, p.Width(), p.Height(), len(p.Colors()))
}
