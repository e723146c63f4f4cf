//go:build !wasip1 && !js

package char_bpe

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

func (codec *Codec) sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(
		text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return nil, err
	}
	sentences := make([]string, 0)
	for _, sentence := range doc.Sentences() {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences, nil
}

// TrimIncompleteSentence
// Drops a trailing sentence that does not end in punctuation. The tokens are
// returned as is when that would remove more than a fifth of the text.
func (codec *Codec) TrimIncompleteSentence(tokens Tokens) (Tokens, error) {
	text := codec.words(tokens)
	sentences, err := codec.sentences(text)
	if err != nil {
		return Tokens{}, err
	}
	if len(sentences) == 0 {
		return tokens, nil
	}
	lastSentence := sentences[len(sentences)-1]
	var last rune
	for _, r := range lastSentence {
		if unicode.IsSpace(r) {
			continue
		}
		last = r
	}
	trimmed := text
	if !unicode.IsPunct(last) {
		if trimPos := strings.LastIndex(text, lastSentence); trimPos >= 0 {
			trimmed = text[:trimPos]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	if float32(len(trimmed)) < float32(len(text))*0.8 {
		return tokens, nil
	}
	return codec.Encode(trimmed), nil
}

// TrimSentences
// Trims tokens down to at most limit tokens by dropping whole sentences.
// TrimTop drops sentences from the start, TrimBottom from the end. The result
// is re-encoded, and is empty when no whole sentence fits.
func (codec *Codec) TrimSentences(
	tokens Tokens,
	direction TrimDirection,
	limit uint,
) (Tokens, error) {
	trimmed := make(Tokens, 0)
	if uint(len(tokens)) <= limit {
		return tokens, nil
	} else if direction == TrimNone {
		return trimmed, nil
	}
	sentences, err := codec.sentences(codec.words(tokens))
	if err != nil {
		return trimmed, err
	}
	fits := func(candidate []string) (Tokens, bool) {
		encoded := codec.Encode(strings.Join(candidate, " "))
		return encoded, uint(len(encoded)) <= limit
	}
	switch direction {
	case TrimTop:
		for start := len(sentences) - 1; start >= 0; start-- {
			encoded, ok := fits(sentences[start:])
			if !ok {
				break
			}
			trimmed = encoded
		}
	case TrimBottom:
		for end := 1; end <= len(sentences); end++ {
			encoded, ok := fits(sentences[:end])
			if !ok {
				break
			}
			trimmed = encoded
		}
	default:
		return trimmed, fmt.Errorf("unknown trim direction %d", direction)
	}
	return trimmed, nil
}
