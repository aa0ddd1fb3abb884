package poems

import "github.com/sahilm/fuzzy"

type searchSource []Poem

func (s searchSource) String(i int) string {
	return s[i].Author + " " + s[i].Title
}

func (s searchSource) Len() int {
	return len(s)
}

// Search returns up to limit poems whose author and title fuzzily match
// query, best match first. A limit <= 0 returns every match.
func (l *Library) Search(query string, limit int) []Poem {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, searchSource(l.poems))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Poem, len(matches))
	for i, m := range matches {
		out[i] = l.poems[m.Index]
	}
	return out
}
