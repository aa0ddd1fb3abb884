// Package session implements the typing session state machine.
//
// A session owns one slot per prompt rune and a cursor. Every slot left of
// the cursor is resolved (correct, incorrect or skipped); every slot right of
// the cursor is untyped. The slot under the cursor is untyped and, in pinyin
// mode, holds the syllable typed so far.
package session

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/tuishi/internal/charclass"
	"github.com/verte-zerg/tuishi/internal/pinyin"
	"github.com/verte-zerg/tuishi/internal/wordgroup"
)

// Key names accepted by SubmitKey besides single characters.
const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
	KeySpace     = " "
)

// CompleteFunc receives the final statistics of a session.
type CompleteFunc func(Stats)

// Option configures a Session.
type Option func(*Session)

// WithMode forces a practice mode instead of detecting it from the prompt.
func WithMode(m Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithOnComplete registers the completion callback. A nil fn is allowed.
func WithOnComplete(fn CompleteFunc) Option {
	return func(s *Session) {
		s.onComplete = fn
	}
}

// Session tracks typing progress over a fixed prompt.
type Session struct {
	prompt     string
	slots      []Slot
	groups     []wordgroup.Range
	cursor     int
	buf        []rune
	completed  bool
	stats      Stats
	mode       Mode
	onComplete CompleteFunc
}

// New creates a session for prompt. The mode is resolved once here.
func New(prompt string, opts ...Option) *Session {
	s := &Session{prompt: prompt}
	for _, opt := range opts {
		opt(s)
	}
	if s.mode == ModeAuto {
		s.mode = ModeEnglish
		if charclass.ContainsChinese(prompt) {
			s.mode = ModePinyin
		}
	}
	chars := []rune(prompt)
	s.slots = make([]Slot, len(chars))
	for i, ch := range chars {
		s.slots[i] = Slot{Char: ch}
		if s.mode == ModePinyin && charclass.IsChinese(ch) {
			s.slots[i].ExpectedPinyin = pinyin.Toneless(ch)
		}
	}
	s.groups = wordgroup.Group(chars)
	return s
}

// Start completes an empty session. It is a no-op for any other prompt.
func (s *Session) Start() {
	s.checkComplete()
}

// Restart returns a fresh session over the same prompt, mode and callback.
func (s *Session) Restart() *Session {
	return New(s.prompt, WithMode(s.mode), WithOnComplete(s.onComplete))
}

// Prompt returns the original prompt text.
func (s *Session) Prompt() string {
	return s.prompt
}

// Mode returns the resolved practice mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Len returns the number of slots.
func (s *Session) Len() int {
	return len(s.slots)
}

// Cursor returns the index of the next slot to type.
func (s *Session) Cursor() int {
	return s.cursor
}

// Completed reports whether the cursor has reached the end of the prompt.
func (s *Session) Completed() bool {
	return s.completed
}

// PinyinInput returns the syllable buffered for the slot under the cursor.
func (s *Session) PinyinInput() string {
	return string(s.buf)
}

// Slot returns a copy of slot i.
func (s *Session) Slot(i int) Slot {
	return s.slots[i]
}

// Slots returns a copy of all slots.
func (s *Session) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Stats returns the final statistics once the session is completed.
func (s *Session) Stats() (Stats, bool) {
	return s.stats, s.completed
}

// Progress returns the fraction of slots behind the cursor.
func (s *Session) Progress() float64 {
	if len(s.slots) == 0 {
		return 1
	}
	return float64(s.cursor) / float64(len(s.slots))
}

// SubmitKey applies one key event. Key is either a single printable character
// or one of KeyBackspace and KeyEnter; other names and control characters are
// ignored. It reports whether
// the session changed.
func (s *Session) SubmitKey(key string) bool {
	if s.completed || s.cursor >= len(s.slots) {
		return false
	}
	switch key {
	case KeyBackspace:
		return s.backspace()
	case KeyEnter:
		if s.onPinyinSlot() {
			return s.commitPinyin()
		}
		if charclass.IsLineBreak(s.slots[s.cursor].Char) {
			s.finalize("\n", true)
			return true
		}
		return false
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) || !unicode.IsPrint(r) {
		return false
	}
	if s.onPinyinSlot() {
		if r == ' ' {
			return s.commitPinyin()
		}
		return s.appendPinyin(r)
	}
	expected := s.slots[s.cursor].Char
	if s.mode == ModePinyin && r == ' ' && !charclass.IsWordBreaker(expected) {
		return false
	}
	s.finalize(string(r), s.matches(expected, r))
	return true
}

// ClickCharacter moves the cursor to index. Moving forward marks untyped
// slots as skipped; moving back resets every slot from index on. Indexes
// outside [0, Len()) are ignored, as is any click after completion.
func (s *Session) ClickCharacter(index int) bool {
	if s.completed || index < 0 || index >= len(s.slots) {
		return false
	}
	s.clearPinyin()
	switch {
	case index > s.cursor:
		for i := s.cursor; i < index; i++ {
			if s.slots[i].State == Untyped {
				s.slots[i].State = Skipped
			}
		}
	case index < s.cursor:
		s.resetFrom(index)
	}
	s.cursor = index
	return true
}

// Words returns the current word groups with slot snapshots.
func (s *Session) Words() []WordGroup {
	out := make([]WordGroup, len(s.groups))
	for i, g := range s.groups {
		slots := make([]Slot, g.Len())
		copy(slots, s.slots[g.Start:g.End])
		out[i] = WordGroup{Slots: slots, Start: g.Start, End: g.End}
	}
	return out
}

// Contains reports whether slot index i belongs to the group.
func (w WordGroup) Contains(i int) bool {
	return wordgroup.Range{Start: w.Start, End: w.End}.Contains(i)
}

// CurrentWord returns the group under the cursor, or the last group once the
// cursor is at the end. ok is false for an empty prompt.
func (s *Session) CurrentWord() (WordGroup, bool) {
	if len(s.groups) == 0 {
		return WordGroup{}, false
	}
	idx := wordgroup.Find(s.groups, s.cursor)
	if idx < 0 {
		idx = len(s.groups) - 1
	}
	g := s.groups[idx]
	slots := make([]Slot, g.Len())
	copy(slots, s.slots[g.Start:g.End])
	return WordGroup{Slots: slots, Start: g.Start, End: g.End}, true
}

// SkipWord jumps to the start of the next word group.
func (s *Session) SkipWord() bool {
	w, ok := s.CurrentWord()
	if !ok {
		return false
	}
	return s.ClickCharacter(w.End)
}

// CharResults tallies finalized outcomes per expected character, sorted by
// character.
func (s *Session) CharResults() []CharResult {
	byChar := map[rune]*CharResult{}
	for _, slot := range s.slots {
		if slot.State != Correct && slot.State != Incorrect {
			continue
		}
		entry, ok := byChar[slot.Char]
		if !ok {
			entry = &CharResult{Char: string(slot.Char)}
			byChar[slot.Char] = entry
		}
		if slot.State == Correct {
			entry.Correct++
		} else {
			entry.Incorrect++
		}
	}
	out := make([]CharResult, 0, len(byChar))
	for _, entry := range byChar {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}

// ComputeStats derives accuracy figures from slots. Accuracy is the rounded
// share of correct among typed slots; with nothing typed it is 100.
func ComputeStats(slots []Slot) Stats {
	st := Stats{TotalCharacters: len(slots)}
	typed := 0
	for _, slot := range slots {
		switch slot.State {
		case Correct:
			st.CorrectCharacters++
			typed++
		case Incorrect:
			typed++
		case Skipped:
			st.SkippedCharacters++
		}
	}
	st.IncorrectCharacters = typed - st.CorrectCharacters
	if typed == 0 {
		st.Accuracy = 100
		return st
	}
	st.Accuracy = int(math.Round(100 * float64(st.CorrectCharacters) / float64(typed)))
	return st
}

// Hint returns the tone-marked pinyin of a Chinese slot, or "".
func (s Slot) Hint() string {
	if !charclass.IsChinese(s.Char) {
		return ""
	}
	return pinyin.Toneful(s.Char)
}

func (s *Session) onPinyinSlot() bool {
	return s.mode == ModePinyin && charclass.IsChinese(s.slots[s.cursor].Char)
}

func (s *Session) backspace() bool {
	if s.onPinyinSlot() && len(s.buf) > 0 {
		s.buf = s.buf[:len(s.buf)-1]
		s.syncPinyin()
		return true
	}
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.resetFrom(s.cursor)
	return true
}

func (s *Session) appendPinyin(r rune) bool {
	s.buf = append(s.buf, unicode.ToLower(r))
	s.syncPinyin()
	expected := s.slots[s.cursor].ExpectedPinyin
	if expected != "" && len(s.buf) == utf8.RuneCountInString(expected) {
		s.finalizePinyin()
	}
	return true
}

func (s *Session) commitPinyin() bool {
	if len(s.buf) == 0 {
		return false
	}
	s.finalizePinyin()
	return true
}

// finalizePinyin is shared by the length trigger and the explicit commit.
func (s *Session) finalizePinyin() {
	typed := string(s.buf)
	expected := s.slots[s.cursor].ExpectedPinyin
	ok := expected != "" && pinyin.Normalize(typed) == expected
	s.clearPinyin()
	s.finalize(typed, ok)
}

func (s *Session) syncPinyin() {
	slot := &s.slots[s.cursor]
	slot.PinyinInput = string(s.buf)
	normalized := pinyin.Normalize(slot.PinyinInput)
	switch {
	case normalized == "":
		slot.PinyinState = PinyinNeutral
	case strings.HasPrefix(slot.ExpectedPinyin, normalized):
		slot.PinyinState = PinyinCorrect
	default:
		slot.PinyinState = PinyinIncorrect
	}
}

func (s *Session) clearPinyin() {
	s.buf = nil
	if s.cursor < len(s.slots) {
		s.slots[s.cursor].PinyinInput = ""
		s.slots[s.cursor].PinyinState = PinyinNeutral
	}
}

func (s *Session) finalize(typed string, ok bool) {
	slot := &s.slots[s.cursor]
	slot.Typed = typed
	slot.State = Incorrect
	if ok {
		slot.State = Correct
	}
	s.cursor++
	s.checkComplete()
}

func (s *Session) resetFrom(index int) {
	s.buf = nil
	for i := index; i < len(s.slots); i++ {
		s.slots[i] = Slot{Char: s.slots[i].Char, ExpectedPinyin: s.slots[i].ExpectedPinyin}
	}
}

// checkComplete fires the callback exactly once, after state is settled.
func (s *Session) checkComplete() {
	if s.completed || s.cursor < len(s.slots) {
		return
	}
	s.completed = true
	s.stats = ComputeStats(s.slots)
	if s.onComplete != nil {
		s.onComplete(s.stats)
	}
}

// matches compares a keystroke with the expected character. In pinyin mode a
// Chinese punctuation mark also accepts its English keyboard key.
func (s *Session) matches(expected, typed rune) bool {
	if typed == expected {
		return true
	}
	return s.mode == ModePinyin && charclass.IsChinesePunctuation(expected) &&
		typed == charclass.EnglishEquivalent(expected)
}
