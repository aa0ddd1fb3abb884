package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align controls how wrapped lines are placed inside the content width.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignJustify
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// Next cycles left -> center -> justify -> left.
func (a Align) Next() Align {
	return (a + 1) % 3
}

// ParseAlign parses an alignment name. Empty means left.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "justify":
		return AlignJustify, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment %q", s)
	}
}

type cell struct {
	text  string
	width int
	index int
}

// block is one word group ready for layout.
type block struct {
	cells []cell
	width int
	space bool
	brk   bool
}

type line struct {
	blocks []block
	width  int
	last   bool
}

// hit maps the columns [start, end) of a row to a slot index.
type hit struct {
	start int
	end   int
	index int
}

type rendered struct {
	rows []string
	hits [][]hit
}

func newBlock(cells []cell, space, brk bool) block {
	b := block{cells: cells, space: space, brk: brk}
	for _, c := range cells {
		b.width += c.width
	}
	return b
}

// wrapBlocks fills lines up to width columns. A group never breaks across
// lines unless it alone is wider than width. A space that does not fit stays
// at the end of the previous line.
func wrapBlocks(blocks []block, width int) []line {
	var lines []line
	var cur line
	flush := func(last bool) {
		cur.last = last
		lines = append(lines, cur)
		cur = line{}
	}
	for _, b := range blocks {
		if width > 0 && cur.width+b.width > width && len(cur.blocks) > 0 {
			if b.space {
				cur.blocks = append(cur.blocks, b)
				cur.width += b.width
				flush(false)
				continue
			}
			flush(false)
		}
		if width > 0 && b.width > width {
			for _, chunk := range splitBlock(b, width) {
				if cur.width+chunk.width > width && len(cur.blocks) > 0 {
					flush(false)
				}
				cur.blocks = append(cur.blocks, chunk)
				cur.width += chunk.width
			}
		} else {
			cur.blocks = append(cur.blocks, b)
			cur.width += b.width
		}
		if b.brk {
			flush(true)
		}
	}
	if len(cur.blocks) > 0 {
		flush(true)
	}
	return lines
}

func splitBlock(b block, width int) []block {
	var out []block
	var cells []cell
	w := 0
	for _, c := range b.cells {
		if w+c.width > width && len(cells) > 0 {
			out = append(out, newBlock(cells, false, false))
			cells, w = nil, 0
		}
		cells = append(cells, c)
		w += c.width
	}
	if len(cells) > 0 {
		out = append(out, newBlock(cells, false, b.brk))
	}
	return out
}

// renderLines writes lines starting at column left. Justified lines spread
// the spare columns over the gaps between groups, except for the last line of
// a paragraph.
func renderLines(lines []line, width int, align Align, left int) rendered {
	out := rendered{
		rows: make([]string, 0, len(lines)),
		hits: make([][]hit, 0, len(lines)),
	}
	for _, ln := range lines {
		spare := max(0, width-ln.width)
		var extra []int
		offset := 0
		switch align {
		case AlignCenter:
			offset = spare / 2
		case AlignJustify:
			if !ln.last {
				extra = justifyGaps(ln.blocks, spare)
			}
		}
		var b strings.Builder
		var hits []hit
		col := left + offset
		b.WriteString(strings.Repeat(" ", col))
		for i, blk := range ln.blocks {
			if i < len(extra) && extra[i] > 0 {
				b.WriteString(strings.Repeat(" ", extra[i]))
				col += extra[i]
			}
			for _, c := range blk.cells {
				b.WriteString(c.text)
				hits = append(hits, hit{start: col, end: col + c.width, index: c.index})
				col += c.width
			}
		}
		out.rows = append(out.rows, b.String())
		out.hits = append(out.hits, hits)
	}
	return out
}

// justifyGaps returns the padding to insert before each block. Padding goes
// after spaces when the line has any, otherwise between every pair of groups.
func justifyGaps(blocks []block, spare int) []int {
	var slots []int
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].space && !blocks[i].space {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 {
		for i := 1; i < len(blocks); i++ {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 || spare == 0 {
		return nil
	}
	extra := make([]int, len(blocks))
	for j, n := range spread(spare, len(slots)) {
		extra[slots[j]] = n
	}
	return extra
}

func spread(total, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = total / n
		if i < total%n {
			out[i]++
		}
	}
	return out
}

// hitTest returns the slot index rendered at row, col or -1.
func (r rendered) hitTest(row, col int) int {
	if row < 0 || row >= len(r.hits) {
		return -1
	}
	for _, h := range r.hits[row] {
		if col >= h.start && col < h.end {
			return h.index
		}
	}
	return -1
}

func displayWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}
