package resources

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
}

func TestReadCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	writeFile(t, path, "hello world\nnaïve café")
	text, err := ReadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\nnaïve café", text)
}

func TestReadCorpus_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	writeFile(t, path, "")
	text, err := ReadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestReadCorpus_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadCorpus(filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = ReadCorpus(dir)
	assert.Error(t, err)
}

func TestGlobTexts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "bb")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "skip.md"), "ignored")
	pathInfos, err := GlobTexts(dir)
	require.NoError(t, err)
	require.Len(t, pathInfos, 2)
	assert.Equal(t, filepath.Join(dir, "b.txt"), pathInfos[0].Path)
	assert.Equal(t, int64(2), pathInfos[0].Size)
	assert.Equal(t, filepath.Join(dir, "nested", "deeper", "a.txt"),
		pathInfos[1].Path)
}

func TestGlobTexts_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"), "x")
	_, err := GlobTexts(dir)
	assert.ErrorIs(t, err, ErrNoCorpus)
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1.txt"), "first file")
	writeFile(t, filepath.Join(dir, "2.txt"), "second file")
	writeFile(t, filepath.Join(dir, "sub", "3.txt"), "third file")

	text, err := LoadCorpus(dir)
	require.NoError(t, err)
	assert.Equal(t, "first file\nsecond file\nthird file", text)

	text, err = LoadCorpus(filepath.Join(dir, "2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second file", text)

	text, err = LoadCorpus(filepath.Join(dir, "[12].txt"))
	require.NoError(t, err)
	assert.Equal(t, "first file\nsecond file", text)
}

func TestLoadCorpus_Missing(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
	_, err = LoadCorpus(filepath.Join(t.TempDir(), "*.txt"))
	assert.ErrorIs(t, err, ErrNoCorpus)
}
