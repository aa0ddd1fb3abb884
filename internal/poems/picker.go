package poems

import (
	"math/rand"
	"time"
)

// Picker selects poems at random, avoiding an immediate repeat.
type Picker struct {
	rnd  *rand.Rand
	last string
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewPickerWithSeed(time.Now().UnixNano())
}

// NewPickerWithSeed returns a deterministic Picker.
func NewPickerWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick chooses a poem from lib. A non-empty title pins the choice; author
// narrows the candidates.
func (p *Picker) Pick(lib *Library, author, title string) (Poem, error) {
	if title != "" {
		poem, err := lib.Find(author, title)
		if err != nil {
			return Poem{}, err
		}
		p.last = poem.ID
		return poem, nil
	}
	candidates := lib.Filter(author)
	if len(candidates) == 0 {
		return Poem{}, ErrNoPoems
	}
	idx := p.rnd.Intn(len(candidates))
	if len(candidates) > 1 && candidates[idx].ID == p.last {
		idx = (idx + 1 + p.rnd.Intn(len(candidates)-1)) % len(candidates)
	}
	p.last = candidates[idx].ID
	return candidates[idx], nil
}
