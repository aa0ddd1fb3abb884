package tui

import (
	"strings"
	"testing"
)

func plainBlock(text string, start int, brk bool) block {
	cells := make([]cell, 0, len(text))
	for i, r := range []rune(text) {
		cells = append(cells, cell{text: string(r), width: displayWidth(r), index: start + i})
	}
	return newBlock(cells, text == " ", brk)
}

func TestWrapBlocksKeepsGroupsTogether(t *testing.T) {
	blocks := []block{
		plainBlock("abc", 0, false),
		plainBlock(" ", 3, false),
		plainBlock("def", 4, false),
	}
	lines := wrapBlocks(blocks, 5)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(lines[0].blocks) != 2 || lines[0].width != 4 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if !lines[1].last {
		t.Fatalf("expected final line to be marked last")
	}
}

func TestWrapBlocksTrailingSpaceStaysOnLine(t *testing.T) {
	blocks := []block{
		plainBlock("abc", 0, false),
		plainBlock(" ", 3, false),
		plainBlock("def", 4, false),
	}
	lines := wrapBlocks(blocks, 3)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].width != 4 {
		t.Fatalf("expected space to stay on first line, width %d", lines[0].width)
	}
	if lines[1].blocks[0].cells[0].index != 4 {
		t.Fatalf("second line should start at index 4")
	}
}

func TestWrapBlocksSplitsLongGroup(t *testing.T) {
	lines := wrapBlocks([]block{plainBlock("abcdefg", 0, false)}, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if ln.width > 3 {
			t.Fatalf("line wider than limit: %d", ln.width)
		}
	}
}

func TestWrapBlocksLineBreakEndsParagraph(t *testing.T) {
	blocks := []block{
		plainBlock("床，", 0, false),
		plainBlock("霜。\n", 2, true),
		plainBlock("举", 5, false),
	}
	lines := wrapBlocks(blocks, 40)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[0].last || !lines[1].last {
		t.Fatalf("both lines should close a paragraph")
	}
}

func TestWrapBlocksWideRunes(t *testing.T) {
	blocks := []block{
		plainBlock("床", 0, false),
		plainBlock("前", 1, false),
		plainBlock("明", 2, false),
	}
	lines := wrapBlocks(blocks, 4)
	if len(lines) != 2 || lines[0].width != 4 || lines[1].width != 2 {
		t.Fatalf("unexpected wide rune wrap: %+v", lines)
	}
}

func TestRenderLinesAlignments(t *testing.T) {
	blocks := []block{
		plainBlock("ab", 0, false),
		plainBlock(" ", 2, false),
		plainBlock("cd", 3, false),
		plainBlock(" ", 5, false),
		plainBlock("ef", 6, false),
	}
	lines := wrapBlocks(blocks, 6)

	left := renderLines(lines, 6, AlignLeft, 0)
	if left.rows[0] != "ab cd " {
		t.Fatalf("left row = %q", left.rows[0])
	}

	center := renderLines(lines, 6, AlignCenter, 0)
	if center.rows[1] != "  ef" {
		t.Fatalf("center row = %q", center.rows[1])
	}

	justify := renderLines(lines, 8, AlignJustify, 0)
	if justify.rows[0] != "ab   cd " {
		t.Fatalf("justify row = %q", justify.rows[0])
	}
	if justify.rows[1] != "ef" {
		t.Fatalf("last line must not be justified, got %q", justify.rows[1])
	}
}

func TestHitTest(t *testing.T) {
	lines := wrapBlocks([]block{plainBlock("中文", 0, false), plainBlock(" ", 2, false), plainBlock("ab", 3, false)}, 20)
	out := renderLines(lines, 20, AlignLeft, 2)
	cases := []struct {
		row, col, want int
	}{
		{0, 0, -1},
		{0, 2, 0},
		{0, 3, 0},
		{0, 4, 1},
		{0, 6, 2},
		{0, 8, 4},
		{0, 9, -1},
		{1, 2, -1},
		{-1, 2, -1},
	}
	for _, tc := range cases {
		if got := out.hitTest(tc.row, tc.col); got != tc.want {
			t.Fatalf("hitTest(%d, %d) = %d, want %d", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestAlignCycle(t *testing.T) {
	a := AlignLeft
	seen := []string{}
	for i := 0; i < 4; i++ {
		seen = append(seen, a.String())
		a = a.Next()
	}
	if strings.Join(seen, ",") != "left,center,justify,left" {
		t.Fatalf("unexpected cycle: %v", seen)
	}
	if _, err := ParseAlign("diagonal"); err == nil {
		t.Fatalf("expected error for unknown alignment")
	}
	if got, err := ParseAlign(" Justify "); err != nil || got != AlignJustify {
		t.Fatalf("ParseAlign = %v, %v", got, err)
	}
}
