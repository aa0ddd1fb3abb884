// Package pinyin wraps go-pinyin with the normalization used for typing practice.
package pinyin

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var umlautReplacer = strings.NewReplacer(
	"ü", "v", "ǖ", "v", "ǘ", "v", "ǚ", "v", "ǜ", "v",
	"Ü", "v", "Ǖ", "v", "Ǘ", "v", "Ǚ", "v", "Ǜ", "v",
)

var toneArgs = func() gopinyin.Args {
	a := gopinyin.NewArgs()
	a.Style = gopinyin.Tone
	return a
}()

// Toneful returns the tone-marked pinyin for r, or "" when r has no reading.
// Heteronyms resolve to the most common reading.
func Toneful(r rune) string {
	readings := gopinyin.SinglePinyin(r, toneArgs)
	if len(readings) == 0 {
		return ""
	}
	return readings[0]
}

// Toneless returns the normalized pinyin for r, e.g. "lv" for 绿.
func Toneless(r rune) string {
	return Normalize(Toneful(r))
}

// Normalize lower-cases input, maps ü and its tone variants to v and strips
// the remaining tone marks.
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	s := umlautReplacer.Replace(strings.ToLower(input))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
