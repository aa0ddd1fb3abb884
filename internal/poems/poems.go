// Package poems loads and selects practice poems.
package poems

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/verte-zerg/tuishi/internal/charclass"
)

//go:embed data/poems.json
var defaultData []byte

var (
	// ErrNoPoems is returned when a dataset or filter yields nothing.
	ErrNoPoems = errors.New("no poems available")
	// ErrNotFound is returned when a requested poem does not exist.
	ErrNotFound = errors.New("poem not found")
)

// Poem is one practice text.
type Poem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Dynasty string   `json:"dynasty,omitempty"`
	Lines   []string `json:"lines"`
}

// Text returns the poem lines joined by line breaks.
func (p Poem) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Chinese reports whether the poem contains Chinese characters.
func (p Poem) Chinese() bool {
	return charclass.ContainsChinese(p.Text())
}

// Library is an immutable poem collection.
type Library struct {
	poems []Poem
}

// Default returns the embedded poem set.
func Default() (*Library, error) {
	return Parse(defaultData)
}

// Load reads a JSON array of poems from path.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes and validates a JSON array of poems. Poems without an ID get
// one derived from author and title; blank lines are dropped.
func Parse(data []byte) (*Library, error) {
	var raw []Poem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	out := make([]Poem, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, p := range raw {
		p.Title = strings.TrimSpace(p.Title)
		p.Author = strings.TrimSpace(p.Author)
		lines := make([]string, 0, len(p.Lines))
		for _, line := range p.Lines {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		p.Lines = lines
		if p.Title == "" || len(p.Lines) == 0 {
			return nil, fmt.Errorf("poem %d: title and lines are required", i)
		}
		if p.ID == "" {
			p.ID = p.Author + "/" + p.Title
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("poem %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrNoPoems
	}
	return &Library{poems: out}, nil
}

// Len returns the number of poems.
func (l *Library) Len() int {
	return len(l.poems)
}

// Authors returns the distinct authors in sorted order.
func (l *Library) Authors() []string {
	set := map[string]struct{}{}
	for _, p := range l.poems {
		set[p.Author] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Filter returns poems by author; an empty author matches all.
func (l *Library) Filter(author string) []Poem {
	var out []Poem
	for _, p := range l.poems {
		if author == "" || p.Author == author {
			out = append(out, p)
		}
	}
	return out
}

// Titles returns the titles written by author in dataset order.
func (l *Library) Titles(author string) []string {
	poems := l.Filter(author)
	out := make([]string, len(poems))
	for i, p := range poems {
		out[i] = p.Title
	}
	return out
}

// Find returns the poem with the given title, optionally narrowed by author.
func (l *Library) Find(author, title string) (Poem, error) {
	for _, p := range l.Filter(author) {
		if p.Title == title {
			return p, nil
		}
	}
	return Poem{}, fmt.Errorf("%q by %q: %w", title, author, ErrNotFound)
}
