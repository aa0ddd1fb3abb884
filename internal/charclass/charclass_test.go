package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsChinese(t *testing.T) {
	assert.True(t, IsChinese('你'))
	assert.True(t, IsChinese('好'))
	assert.False(t, IsChinese('a'))
	assert.False(t, IsChinese('，'))
	assert.False(t, IsChinese(' '))
}

func TestContainsChinese(t *testing.T) {
	assert.True(t, ContainsChinese("hello 世界"))
	assert.False(t, ContainsChinese("hello, world"))
	assert.False(t, ContainsChinese(""))
}

func TestChinesePunctuation(t *testing.T) {
	for _, tc := range []struct {
		in   rune
		want rune
	}{
		{'，', ','},
		{'。', '.'},
		{'！', '!'},
		{'？', '?'},
		{'“', '"'},
		{'《', '<'},
	} {
		assert.True(t, IsChinesePunctuation(tc.in), "%q", tc.in)
		assert.Equal(t, tc.want, EnglishEquivalent(tc.in), "%q", tc.in)
	}
	assert.False(t, IsChinesePunctuation(','))
	assert.Equal(t, 'x', EnglishEquivalent('x'))
}

func TestEnglishPunctuation(t *testing.T) {
	for _, r := range ".,!?;:'\"()-" {
		assert.True(t, IsEnglishPunctuation(r), "%q", r)
	}
	assert.False(t, IsEnglishPunctuation('a'))
	assert.False(t, IsEnglishPunctuation('。'))
	assert.False(t, IsEnglishPunctuation(' '))
}

func TestBreakers(t *testing.T) {
	assert.True(t, IsWordBreaker(' '))
	assert.False(t, IsWordBreaker('\n'))
	assert.True(t, IsLineBreak('\n'))
}
