package session

import (
	"fmt"
	"strings"
)

// Mode selects how keystrokes are matched against the prompt.
type Mode int

const (
	// ModeAuto picks pinyin when the prompt contains Chinese, english otherwise.
	ModeAuto Mode = iota
	ModeEnglish
	ModePinyin
)

func (m Mode) String() string {
	switch m {
	case ModeEnglish:
		return "english"
	case ModePinyin:
		return "pinyin"
	default:
		return "auto"
	}
}

// ParseMode parses "auto", "english" or "pinyin". Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "english", "en":
		return ModeEnglish, nil
	case "pinyin", "zh":
		return ModePinyin, nil
	default:
		return ModeAuto, fmt.Errorf("unknown practice mode %q", s)
	}
}

// CharState is the typing outcome of one slot.
type CharState int

const (
	Untyped CharState = iota
	Correct
	Incorrect
	Skipped
)

func (s CharState) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Skipped:
		return "skipped"
	default:
		return "untyped"
	}
}

// PinyinState is the live verdict on a partially typed syllable.
type PinyinState int

const (
	PinyinNeutral PinyinState = iota
	PinyinCorrect
	PinyinIncorrect
)

// Slot is one prompt position.
type Slot struct {
	Char  rune
	State CharState
	// Typed is the last input compared against this slot.
	Typed string
	// ExpectedPinyin is the toneless target, set only for Chinese characters
	// in pinyin mode.
	ExpectedPinyin string
	PinyinInput    string
	PinyinState    PinyinState
}

// Resolved reports whether the slot has left the untyped state.
func (s Slot) Resolved() bool {
	return s.State != Untyped
}

// Stats summarizes a finished session.
type Stats struct {
	Accuracy            int
	TotalCharacters     int
	CorrectCharacters   int
	IncorrectCharacters int
	SkippedCharacters   int
}

// WordGroup is a contiguous run of slots rendered as one unit.
// Start is inclusive, End is exclusive.
type WordGroup struct {
	Slots []Slot
	Start int
	End   int
}

// CharResult tallies outcomes for one expected character.
type CharResult struct {
	Char      string
	Correct   int
	Incorrect int
}
