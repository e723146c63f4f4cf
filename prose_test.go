//go:build !wasip1 && !js

package char_bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TrimTest struct {
	Input     string
	Direction TrimDirection
	Limit     uint
	Expected  string
}

const sent1 = "This is test sentence 1.  This is test sentence 2.  This is test sentence 3."

var trimCodec = Train(sent1, 140).NewCodec()

func sentenceLimit(text string) uint {
	return uint(len(trimCodec.Encode(text)))
}

func TestCodec_TrimSentences(t *testing.T) {
	one := sentenceLimit("This is test sentence 3.")
	two := sentenceLimit("This is test sentence 2. This is test sentence 3.")
	var TrimSentencesTests = []TrimTest{
		{sent1, TrimTop, one,
			"This is test sentence 3."},
		{sent1, TrimTop, two,
			"This is test sentence 2. This is test sentence 3."},
		{sent1, TrimTop, 1000,
			"This is test sentence 1. This is test sentence 2. This is test sentence 3."},
		{sent1, TrimBottom, one,
			"This is test sentence 1."},
		{sent1, TrimBottom, two,
			"This is test sentence 1. This is test sentence 2."},
		{sent1, TrimTop, 1, ""},
		{sent1, TrimNone, one, ""},
	}
	for _, test := range TrimSentencesTests {
		res, err := trimCodec.TrimSentences(trimCodec.Encode(test.Input),
			test.Direction, test.Limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, uint(len(res)), test.Limit)
		if test.Expected == "" {
			assert.Empty(t, res)
		} else {
			assert.Equal(t, trimCodec.Encode(test.Expected), res)
		}
	}
}

func TestCodec_TrimSentencesUnknownDirection(t *testing.T) {
	_, err := trimCodec.TrimSentences(trimCodec.Encode(sent1),
		TrimDirection(42), 3)
	assert.Error(t, err)
}

func TestCodec_TrimIncompleteSentence(t *testing.T) {
	testStr := "The cat sat on the mat. The dog ran home quickly. A bird"
	expected := "The cat sat on the mat. The dog ran home quickly."
	trimmed, err := trimCodec.TrimIncompleteSentence(trimCodec.Encode(testStr))
	require.NoError(t, err)
	assert.Equal(t, trimCodec.Encode(expected), trimmed)
}

func TestCodec_TrimSentencesMergedMarkers(t *testing.T) {
	// Merges span the end of word marker, so Decode output is not plain text.
	require.Contains(t, trimCodec.Decode(trimCodec.Encode(sent1)), EndOfWord)
	res, err := trimCodec.TrimSentences(trimCodec.Encode(sent1), TrimBottom,
		sentenceLimit("This is test sentence 1."))
	require.NoError(t, err)
	assert.Equal(t, "This is test sentence 1.", trimCodec.words(res))
}

func TestCodec_TrimIncompleteSentenceKeepsMostText(t *testing.T) {
	// Dropping the fragment would remove more than a fifth of the text.
	testStr := "Short one. And then a long unterminated fragment follows"
	tokens := trimCodec.Encode(testStr)
	trimmed, err := trimCodec.TrimIncompleteSentence(tokens)
	require.NoError(t, err)
	assert.Equal(t, tokens, trimmed)
}
