package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/char_bpe/types"
)

func writeCorpus(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCLI()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTrainCommand(t *testing.T) {
	corpus := writeCorpus(t, "aa aa bb")
	out, err := runCLI(t, "", "train", "--corpus", corpus, "--vocab-size", "101")
	require.NoError(t, err)
	assert.Contains(t, out, "base size:  100")
	assert.Contains(t, out, "vocab size: 101")
	assert.Contains(t, out, "merges:     1")
	assert.NotContains(t, out, "merge     0")
}

func TestTrainCommandVerbose(t *testing.T) {
	corpus := writeCorpus(t, "aa aa bb")
	out, err := runCLI(t, "", "train", "-c", corpus, "-n", "101", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, `merge     0: "a" + "a" -> "aa" (2)`)
}

func TestMissingCorpus(t *testing.T) {
	_, err := runCLI(t, "", "train")
	assert.ErrorIs(t, err, errNoCorpusFlag)

	_, err = runCLI(t, "", "train", "--corpus",
		filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestVocabCommand(t *testing.T) {
	corpus := writeCorpus(t, "aa aa bb")
	out, err := runCLI(t, "", "vocab", "--corpus", corpus, "--vocab-size", "101")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header plus one row per symbol.
	require.Len(t, lines, 102)
	assert.Contains(t, lines[1], `"<PAD>"`)
	assert.Contains(t, lines[101], `"aa"`)
	assert.Contains(t, lines[101], `"a" + "a"`)
}

func TestEncodeDecodeCommands(t *testing.T) {
	corpus := writeCorpus(t, "aa aa bb")

	out, err := runCLI(t, "", "encode", "--corpus", corpus, "-n", "101", "aa", "b")
	require.NoError(t, err)
	assert.Equal(t, "[2 100 99 70 99 3]\n", out)

	out, err = runCLI(t, "aa b\n", "encode", "--corpus", corpus, "-n", "101",
		"--symbols")
	require.NoError(t, err)
	assert.Equal(t, "[2 100 99 70 99 3]\n|<BOS>|aa|</w>|b|</w>|<EOS>\n", out)

	out, err = runCLI(t, "", "decode", "--corpus", corpus, "-n", "101",
		"2", "100", "99", "70", "99", "3")
	require.NoError(t, err)
	assert.Equal(t, "aa b\n", out)

	_, err = runCLI(t, "", "decode", "--corpus", corpus, "x")
	assert.Error(t, err)
	_, err = runCLI(t, "", "decode", "--corpus", corpus)
	assert.Error(t, err)
}

func TestEncodeDecodeBinary(t *testing.T) {
	corpus := writeCorpus(t, "aa aa bb")
	for _, width := range []string{"--uint32=false", "--uint32=true"} {
		t.Run(width, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tokens.bin")
			_, err := runCLI(t, "", "encode", "--corpus", corpus, "-n", "101",
				width, "--output", path, "aa", "b")
			require.NoError(t, err)

			bin, err := os.ReadFile(path)
			require.NoError(t, err)
			size := types.TokenSize
			if width == "--uint32=true" {
				size = 4
			}
			assert.Len(t, bin, 6*size)

			out, err := runCLI(t, "", "decode", "--corpus", corpus, "-n", "101",
				width, "--input", path)
			require.NoError(t, err)
			assert.Equal(t, "aa b\n", out)
		})
	}
}
