// Package wordlevel is a whole-word tokenizer sharing the special tokens of
// the character level codec. Every distinct word is one token.
package wordlevel

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/wbrown/char_bpe"
	"github.com/wbrown/char_bpe/types"
)

type Vocab struct {
	words []string
	ids   types.TokenMap
}

type wordCount struct {
	word  string
	count int
}

// Learn
// Builds a vocabulary of the special tokens followed by the most frequent
// words of text, up to vocabSize entries in total. Words of equal frequency
// keep the order in which they first appear.
func Learn(text string, vocabSize int) *Vocab {
	freqs := orderedmap.New[string, int]()
	for _, word := range char_bpe.SplitWords(text) {
		count, _ := freqs.Get(word)
		freqs.Set(word, count+1)
	}
	counts := make([]wordCount, 0, freqs.Len())
	for entry := freqs.Oldest(); entry != nil; entry = entry.Next() {
		counts = append(counts, wordCount{entry.Key, entry.Value})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	specials := char_bpe.SpecialTokens()
	vocab := &Vocab{
		words: specials,
		ids:   make(types.TokenMap, len(specials)+len(counts)),
	}
	for id, special := range specials {
		vocab.ids[special] = types.Token(id)
	}
	limit := vocabSize - len(specials)
	for idx := 0; idx < len(counts) && idx < limit; idx++ {
		word := counts[idx].word
		if _, ok := vocab.ids[word]; ok {
			continue
		}
		vocab.ids[word] = types.Token(len(vocab.words))
		vocab.words = append(vocab.words, word)
	}
	return vocab
}

func (vocab *Vocab) Len() int {
	return len(vocab.words)
}

// Words returns a copy of the vocabulary, indexed by id.
func (vocab *Vocab) Words() []string {
	return append([]string(nil), vocab.words...)
}

func (vocab *Vocab) Get(word string) (types.Token, bool) {
	id, ok := vocab.ids[word]
	return id, ok
}

// Encode returns the id of each word of text between <BOS> and <EOS>.
// Unknown words encode as <UNK>.
func (vocab *Vocab) Encode(text string) types.Tokens {
	words := char_bpe.SplitWords(text)
	tokens := make(types.Tokens, 0, len(words)+2)
	tokens = append(tokens, char_bpe.BosId)
	for _, word := range words {
		if id, ok := vocab.ids[word]; ok {
			tokens = append(tokens, id)
		} else {
			tokens = append(tokens, char_bpe.UnkId)
		}
	}
	return append(tokens, char_bpe.EosId)
}

// Decode joins the words of tokens with single spaces. Special tokens and
// unknown ids are dropped.
func (vocab *Vocab) Decode(tokens types.Tokens) string {
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token < 0 || int(token) >= len(vocab.words) {
			continue
		}
		word := vocab.words[token]
		if char_bpe.IsSpecial(word) {
			continue
		}
		words = append(words, word)
	}
	return strings.Join(words, " ")
}
