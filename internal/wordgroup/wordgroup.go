// Package wordgroup partitions prompt text into display units.
package wordgroup

import "github.com/verte-zerg/tuishi/internal/charclass"

// Range is a half-open interval [Start, End) of rune indexes forming one unit.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Group splits chars into contiguous ranges. The ranges cover every index
// exactly once and in order:
//
//   - a space is always a unit of its own;
//   - a Chinese character starts its own unit and takes a directly following
//     Chinese punctuation mark or line break with it;
//   - a line break or Chinese punctuation closes the open unit, or stands alone;
//   - English punctuation joins the open unit without closing it, or stands alone;
//   - anything else extends the open unit.
func Group(chars []rune) []Range {
	groups := make([]Range, 0, len(chars)/2+1)
	start := -1
	flush := func(end int) {
		if start >= 0 {
			groups = append(groups, Range{Start: start, End: end})
			start = -1
		}
	}
	for i := 0; i < len(chars); i++ {
		ch := chars[i]
		switch {
		case charclass.IsWordBreaker(ch):
			flush(i)
			groups = append(groups, Range{Start: i, End: i + 1})
		case charclass.IsChinese(ch):
			flush(i)
			end := i + 1
			if end < len(chars) && (charclass.IsChinesePunctuation(chars[end]) || charclass.IsLineBreak(chars[end])) {
				end++
			}
			groups = append(groups, Range{Start: i, End: end})
			i = end - 1
		case charclass.IsLineBreak(ch), charclass.IsChinesePunctuation(ch):
			if start >= 0 {
				flush(i + 1)
				continue
			}
			groups = append(groups, Range{Start: i, End: i + 1})
		case charclass.IsEnglishPunctuation(ch):
			if start < 0 {
				groups = append(groups, Range{Start: i, End: i + 1})
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(chars))
	return groups
}

// Find returns the position in groups of the range containing index, or -1.
func Find(groups []Range, index int) int {
	lo, hi := 0, len(groups)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case index < groups[mid].Start:
			hi = mid
		case index >= groups[mid].End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
