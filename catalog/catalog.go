// Package catalog is the library of puzzles a server or game can offer.
// Puzzles come from JSON definitions, image files, or the built-in set.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tiggercwh/go-picross/picross"
)

var (
	ErrNotFound          = errors.New("catalog: puzzle not found")
	ErrDuplicate         = errors.New("catalog: duplicate puzzle id")
	ErrUnsupportedFormat = errors.New("catalog: unsupported puzzle format")
)

// ManifestFile is the optional index read by LoadDir.
const ManifestFile = "catalog.yaml"

// Entry is one puzzle of the library.
type Entry struct {
	ID     string
	Name   string
	Puzzle *picross.Puzzle
}

// Catalog holds puzzles in insertion order. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add registers p under id. An empty name defaults to the id.
func (c *Catalog) Add(id, name string, p *picross.Puzzle) error {
	id = strings.TrimSpace(id)
	if id == "" || p == nil {
		return errors.New("catalog: puzzle needs an id")
	}
	if name == "" {
		name = id
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	c.entries[id] = Entry{ID: id, Name: name, Puzzle: p}
	c.order = append(c.order, id)
	return nil
}

func (c *Catalog) Get(id string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// First returns the earliest added puzzle.
func (c *Catalog) First() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.order) == 0 {
		return Entry{}, false
	}
	return c.entries[c.order[0]], true
}

func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Manifest is the YAML index of a puzzle directory.
type Manifest struct {
	Puzzles []ManifestEntry `yaml:"puzzles"`
}

type ManifestEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	File string `yaml:"file"`
}

var extensions = map[string]bool{
	".json": true,
	".png":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// LoadDir adds the puzzles of dir to c. With a catalog.yaml present only the
// listed files are loaded; otherwise every supported file is, keyed by its
// name without extension, in lexical order.
func (c *Catalog) LoadDir(dir string) error {
	m, err := readManifest(filepath.Join(dir, ManifestFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		m, err = scanDir(dir)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}
	for _, e := range m.Puzzles {
		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		p, name, err := LoadFile(path)
		if err != nil {
			return fmt.Errorf("puzzle %s: %w", e.ID, err)
		}
		if e.Name != "" {
			name = e.Name
		}
		if err := c.Add(e.ID, name, p); err != nil {
			return err
		}
	}
	return nil
}

func readManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%s: %w", path, err)
	}
	for i, e := range m.Puzzles {
		if e.File == "" {
			return m, fmt.Errorf("%s: entry %d has no file", path, i)
		}
		if e.ID == "" {
			m.Puzzles[i].ID = strings.TrimSuffix(filepath.Base(e.File), filepath.Ext(e.File))
		}
	}
	return m, nil
}

func scanDir(dir string) (Manifest, error) {
	var m Manifest
	ents, err := os.ReadDir(dir)
	if err != nil {
		return m, err
	}
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !extensions[ext] {
			continue
		}
		m.Puzzles = append(m.Puzzles, ManifestEntry{ID: strings.TrimSuffix(name, filepath.Ext(name)), File: name})
	}
	sort.Slice(m.Puzzles, func(i, j int) bool { return m.Puzzles[i].File < m.Puzzles[j].File })
	return m, nil
}

// LoadFile reads a JSON definition or an image. The returned name is the
// definition's name, if it has one.
func LoadFile(path string) (*picross.Puzzle, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		d, err := picross.ReadDefinition(f)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		p, err := d.Puzzle()
		return p, d.Name, err
	}
	if !extensions[ext] {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	p, err := DecodeImage(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return p, "", nil
}
