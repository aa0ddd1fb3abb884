package poems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)

	got := lib.Search("frost gold", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "frost", got[0].ID)

	got = lib.Search("静夜", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "静夜思", got[0].Title)

	assert.Empty(t, lib.Search("", 5))
	assert.Empty(t, lib.Search("zzzz", 5))
}
