package poems

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"title": "静夜思", "author": "李白", "lines": ["床前明月光，疑是地上霜。", "  ", "举头望明月，低头思故乡。"]},
  {"id": "frost", "title": "Nothing Gold Can Stay", "author": "Robert Frost", "lines": ["Nature's first green is gold,"]},
  {"title": "早发白帝城", "author": "李白", "lines": ["朝辞白帝彩云间，千里江陵一日还。"]}
]`

func TestDefaultLibrary(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.Greater(t, lib.Len(), 0)
	poem, err := lib.Find("李白", "静夜思")
	require.NoError(t, err)
	assert.True(t, poem.Chinese())
}

func TestParse(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Len())

	poem, err := lib.Find("", "静夜思")
	require.NoError(t, err)
	assert.Equal(t, "李白/静夜思", poem.ID)
	assert.Equal(t, "床前明月光，疑是地上霜。\n举头望明月，低头思故乡。", poem.Text())

	frost, err := lib.Find("Robert Frost", "Nothing Gold Can Stay")
	require.NoError(t, err)
	assert.False(t, frost.Chinese())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrNoPoems)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"title": "x", "lines": []}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"id": "a", "title": "x", "lines": ["a"]}, {"id": "a", "title": "y", "lines": ["b"]}]`))
	assert.Error(t, err)
}

func TestLibraryQueries(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Robert Frost", "李白"}, lib.Authors())
	assert.Equal(t, []string{"静夜思", "早发白帝城"}, lib.Titles("李白"))
	assert.Len(t, lib.Filter(""), 3)

	_, err = lib.Find("Robert Frost", "静夜思")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poems.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	lib, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPicker(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)
	picker := NewPickerWithSeed(1)

	pinned, err := picker.Pick(lib, "", "Nothing Gold Can Stay")
	require.NoError(t, err)
	assert.Equal(t, "frost", pinned.ID)

	prev := ""
	for i := 0; i < 50; i++ {
		poem, err := picker.Pick(lib, "李白", "")
		require.NoError(t, err)
		assert.Equal(t, "李白", poem.Author)
		assert.NotEqual(t, prev, poem.ID)
		prev = poem.ID
	}

	_, err = picker.Pick(lib, "nobody", "")
	assert.ErrorIs(t, err, ErrNoPoems)
	_, err = picker.Pick(lib, "", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachePath(t *testing.T) {
	got, err := CachePath("/cache", "https://example.com/data/tang.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache", "example.com-tang.json"), got)

	got, err = CachePath("/cache", "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache", "example.com-poems.json"), got)

	_, err = CachePath("/cache", "file:///etc/passwd")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	ctx := context.Background()
	ds, err := Fetch(ctx, srv.Client(), srv.URL+"/tang.json", dir, false)
	require.NoError(t, err)
	assert.False(t, ds.Cached)
	assert.Equal(t, 3, ds.Poems)
	assert.FileExists(t, ds.Path)

	again, err := Fetch(ctx, srv.Client(), srv.URL+"/tang.json", dir, false)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, int32(1), hits.Load())

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/tang.json", dir, true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchRejectsInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/bad.json", dir, false)
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/x.json", t.TempDir(), false)
	assert.Error(t, err)
}
