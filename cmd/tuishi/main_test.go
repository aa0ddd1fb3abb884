package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuishi/internal/config"
	"github.com/verte-zerg/tuishi/internal/model"
	"github.com/verte-zerg/tuishi/internal/poems"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Mode)
	assert.Nil(t, cfg.Log.Level)
}

func TestValidateConfig(t *testing.T) {
	logCfg := model.LogConfig{Level: "warn", Format: "text"}
	assert.NoError(t, validateConfig(model.Config{Mode: "pinyin", Align: "justify"}, logCfg))
	assert.Error(t, validateConfig(model.Config{Mode: "morse"}, logCfg))
	assert.Error(t, validateConfig(model.Config{Align: "diagonal"}, logCfg))
	assert.Error(t, validateConfig(model.Config{}, model.LogConfig{Level: "loud", Format: "text"}))
	assert.Error(t, validateConfig(model.Config{}, model.LogConfig{Level: "info", Format: "xml"}))
}

func TestResolveLogConfig(t *testing.T) {
	cfg := resolveLogConfig(config.FileConfig{})
	assert.Equal(t, model.LogConfig{Level: defaultLogLevel, Format: defaultLogFormat}, cfg)

	level, format := "debug", "json"
	cfg = resolveLogConfig(config.FileConfig{Log: config.LogConfig{Level: &level, Format: &format}})
	assert.Equal(t, model.LogConfig{Level: "debug", Format: "json"}, cfg)
}

func TestLoadLibrary(t *testing.T) {
	ctx := context.Background()
	lib, err := loadLibrary(ctx, "")
	require.NoError(t, err)
	assert.Greater(t, lib.Len(), 0)

	path := filepath.Join(t.TempDir(), "poems.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "t", "author": "a", "lines": ["x"]}]`), 0o644))
	lib, err = loadLibrary(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())

	_, err = loadLibrary(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWritePoemList(t *testing.T) {
	lib, err := poems.Parse([]byte(`[
  {"title": "静夜思", "author": "李白", "lines": ["床前明月光"]},
  {"title": "春晓", "author": "孟浩然", "lines": ["春眠不觉晓"]},
  {"title": "早发白帝城", "author": "李白", "lines": ["朝辞白帝彩云间"]}
]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writePoemList(&buf, lib, ""))
	assert.Equal(t, "孟浩然 (1)\n李白 (2)\n", buf.String())

	buf.Reset()
	require.NoError(t, writePoemList(&buf, lib, "李白"))
	assert.Equal(t, "静夜思\n早发白帝城\n", buf.String())

	assert.ErrorIs(t, writePoemList(&buf, lib, "杜甫"), poems.ErrNoPoems)
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/poems.json"))
	assert.True(t, isURL("http://example.com"))
	assert.False(t, isURL("/tmp/poems.json"))
	assert.False(t, isURL("poems.json"))
}

func TestWriteSearchResults(t *testing.T) {
	lib, err := poems.Parse([]byte(`[
  {"title": "静夜思", "author": "李白", "lines": ["床前明月光"]},
  {"title": "春晓", "author": "孟浩然", "lines": ["春眠不觉晓"]}
]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSearchResults(&buf, lib, "春晓"))
	assert.Equal(t, "孟浩然\t春晓\n", buf.String())

	assert.ErrorIs(t, writeSearchResults(&buf, lib, "xyz"), poems.ErrNotFound)
}

func TestPracticeErrorSuggestsTitles(t *testing.T) {
	lib, err := poems.Parse([]byte(`[{"title": "静夜思", "author": "李白", "lines": ["床前明月光"]}]`))
	require.NoError(t, err)

	_, findErr := lib.Find("", "静夜")
	got := practiceError(model.Config{Title: "静夜"}, lib, findErr)
	assert.ErrorIs(t, got, poems.ErrNotFound)
	assert.Contains(t, got.Error(), "静夜思 (李白)")
}
