package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuishi/internal/charclass"
	"github.com/verte-zerg/tuishi/internal/session"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	skippedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")).Strikethrough(true)
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pinyinOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E")).Underline(true)
	pinyinBadStyle   = incorrectStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

const (
	wrongSpaceGlyph = "•"
	lineBreakGlyph  = "↵"
)

// buildBlocks turns word groups into styled layout blocks.
func buildBlocks(words []session.WordGroup, cursor int) []block {
	current := -1
	for i, w := range words {
		if w.Contains(cursor) {
			current = i
			break
		}
	}
	blocks := make([]block, 0, len(words))
	for i, w := range words {
		cells := make([]cell, 0, len(w.Slots))
		space, brk := false, false
		for j, slot := range w.Slots {
			idx := w.Start + j
			cells = append(cells, styledCell(slot, idx, cursor, i == current))
			if charclass.IsWordBreaker(slot.Char) {
				space = true
			}
			if charclass.IsLineBreak(slot.Char) && j == len(w.Slots)-1 {
				brk = true
			}
		}
		blocks = append(blocks, newBlock(cells, space, brk))
	}
	return blocks
}

func styledCell(slot session.Slot, idx, cursor int, inCurrentWord bool) cell {
	text := string(slot.Char)
	width := displayWidth(slot.Char)
	if charclass.IsLineBreak(slot.Char) {
		text, width = lineBreakGlyph, 1
	}

	style := pendingStyle
	switch slot.State {
	case session.Correct:
		style = correctStyle
	case session.Incorrect:
		style = incorrectStyle
		if charclass.IsWordBreaker(slot.Char) {
			text = wrongSpaceGlyph
		}
	case session.Skipped:
		style = skippedStyle
	default:
		if inCurrentWord && !charclass.IsWordBreaker(slot.Char) {
			style = currentWordStyle
		}
	}
	if idx == cursor {
		switch slot.PinyinState {
		case session.PinyinCorrect:
			style = pinyinOKStyle
		case session.PinyinIncorrect:
			style = pinyinBadStyle
		default:
			style = style.Underline(true)
		}
	}
	return cell{text: style.Render(text), width: width, index: idx}
}
