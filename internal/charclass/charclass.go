// Package charclass classifies prompt characters for typing and layout.
package charclass

import "unicode"

// chinesePunct maps full-width punctuation to the key typed on an English keyboard.
var chinesePunct = map[rune]rune{
	'，': ',',
	'。': '.',
	'！': '!',
	'？': '?',
	'；': ';',
	'：': ':',
	'、': ',',
	'“': '"',
	'”': '"',
	'‘': '\'',
	'’': '\'',
	'（': '(',
	'）': ')',
	'《': '<',
	'》': '>',
	'【': '[',
	'】': ']',
	'「': '"',
	'」': '"',
	'『': '"',
	'』': '"',
	'·': '`',
	'—': '-',
	'…': '^',
	'～': '~',
}

// IsChinese reports whether r is a Han ideograph.
func IsChinese(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// ContainsChinese reports whether s has at least one Han ideograph.
func ContainsChinese(s string) bool {
	for _, r := range s {
		if IsChinese(r) {
			return true
		}
	}
	return false
}

// IsChinesePunctuation reports whether r is full-width Chinese punctuation.
func IsChinesePunctuation(r rune) bool {
	_, ok := chinesePunct[r]
	return ok
}

// EnglishEquivalent returns the English keyboard key for Chinese punctuation.
// Other runes map to themselves.
func EnglishEquivalent(r rune) rune {
	if eq, ok := chinesePunct[r]; ok {
		return eq
	}
	return r
}

// IsEnglishPunctuation reports whether r is ASCII punctuation or a symbol.
func IsEnglishPunctuation(r rune) bool {
	if r > unicode.MaxASCII {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// IsWordBreaker reports whether r separates words.
func IsWordBreaker(r rune) bool {
	return r == ' '
}

// IsLineBreak reports whether r ends a line.
func IsLineBreak(r rune) bool {
	return r == '\n'
}
