package wordlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/char_bpe/types"
)

func TestLearnOrdersByFrequency(t *testing.T) {
	vocab := Learn("the cat sat on the mat the cat", 100)
	assert.Equal(t,
		[]string{"<PAD>", "<UNK>", "<BOS>", "<EOS>",
			"the", "cat", "sat", "on", "mat"},
		vocab.Words())
	id, ok := vocab.Get("cat")
	require.True(t, ok)
	assert.Equal(t, types.Token(5), id)
}

func TestLearnCapsVocabulary(t *testing.T) {
	vocab := Learn("a b b c c c", 6)
	assert.Equal(t, 6, vocab.Len())
	assert.Equal(t, []string{"<PAD>", "<UNK>", "<BOS>", "<EOS>", "c", "b"},
		vocab.Words())

	vocab = Learn("a b c", 2)
	assert.Equal(t, 4, vocab.Len())
}

func TestLearnSkipsSpecialWords(t *testing.T) {
	vocab := Learn("<UNK> <UNK> word", 100)
	assert.Equal(t, []string{"<PAD>", "<UNK>", "<BOS>", "<EOS>", "word"},
		vocab.Words())
}

func TestLearnEmpty(t *testing.T) {
	vocab := Learn("", 10)
	assert.Equal(t, 4, vocab.Len())
	assert.Equal(t, types.Tokens{2, 3}, vocab.Encode(""))
	assert.Equal(t, "", vocab.Decode(types.Tokens{2, 3}))
}

func TestEncodeDecode(t *testing.T) {
	vocab := Learn("the cat sat on the mat", 100)
	encoded := vocab.Encode("  the dog\tsat ")
	assert.Equal(t, types.Tokens{2, 4, 1, 6, 3}, encoded)
	assert.Equal(t, "the sat", vocab.Decode(encoded))
	assert.Equal(t, "the cat", vocab.Decode(types.Tokens{0, 4, -1, 5, 99}))
}
