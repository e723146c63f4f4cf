package char_bpe

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/wbrown/char_bpe/types"
)

const BPE_LRU_SZ = 65536

// Codec encodes and decodes text against one trained state. The merge ranks
// are fixed when the Codec is built; it never modifies the state and is safe
// for concurrent use.
type Codec struct {
	state     *TrainedState
	bpeRanks  map[types.Pair]int
	cache     *lru.ARCCache
	lruHits   atomic.Int64
	lruMisses atomic.Int64
}

// NewCodec
// Returns a Codec backed by the trained state.
func (state *TrainedState) NewCodec() *Codec {
	return state.NewCodecWithCache(BPE_LRU_SZ)
}

// NewCodecWithCache returns a Codec whose per-word cache holds up to cacheSz
// entries. A cacheSz below one disables caching.
func (state *TrainedState) NewCodecWithCache(cacheSz int) *Codec {
	bpeRanks := make(map[types.Pair]int, len(state.merges))
	for rank, pair := range state.merges {
		bpeRanks[pair] = rank
	}
	var cache *lru.ARCCache
	if cacheSz > 0 {
		// NewARC only fails on a non-positive size.
		cache, _ = lru.NewARC(cacheSz)
	}
	return &Codec{
		state:    state,
		bpeRanks: bpeRanks,
		cache:    cache,
	}
}

// Cached reports whether per-word results are memoized.
func (codec *Codec) Cached() bool {
	return codec.cache != nil
}

func (codec *Codec) State() *TrainedState {
	return codec.state
}

func (codec *Codec) LruHits() int64 {
	return codec.lruHits.Load()
}

func (codec *Codec) LruMisses() int64 {
	return codec.lruMisses.Load()
}

// minPair returns the adjacent pair in word with the lowest merge rank.
func (codec *Codec) minPair(word []string) (bigram types.Pair, found bool) {
	minRank := 0
	for idx := 1; idx < len(word); idx++ {
		pair := types.Pair{Left: word[idx-1], Right: word[idx]}
		rank, ok := codec.bpeRanks[pair]
		if !ok {
			continue
		}
		if !found || rank < minRank {
			bigram, minRank, found = pair, rank, true
		}
	}
	return bigram, found
}

// toBPE
// Given a single word, applies the learned merges and returns the resulting
// symbols, ending with the end of word marker. Merging the lowest ranked pair
// until none is left is the same as applying every rule in learned order,
// since a rule only references symbols that existed before it was learned.
func (codec *Codec) toBPE(text string) []string {
	if codec.cache != nil {
		if lookup, ok := codec.cache.Get(text); ok {
			codec.lruHits.Add(1)
			return lookup.([]string)
		}
		codec.lruMisses.Add(1)
	}
	word := wordSymbols(text)
	for len(word) > 1 {
		bigram, ok := codec.minPair(word)
		if !ok {
			break
		}
		word = mergePair(word, bigram)
	}
	if codec.cache != nil {
		codec.cache.Add(text, word)
	}
	return word
}

func (codec *Codec) lookup(symbol string) Token {
	if token, ok := codec.state.vocab.Get(symbol); ok {
		return token
	}
	return UnkId
}

// Encode encodes text into tokens, enclosed in <BOS> and <EOS>. Symbols that
// are not in the vocabulary encode as <UNK>.
func (codec *Codec) Encode(text string) Tokens {
	words := SplitWords(text)
	encoded := make(Tokens, 0, len(words)*2+2)
	encoded = append(encoded, BosId)
	for _, word := range words {
		for _, symbol := range codec.toBPE(word) {
			encoded = append(encoded, codec.lookup(symbol))
		}
	}
	return append(encoded, EosId)
}

// EncodeWords returns the merged symbols of each word in text.
func (codec *Codec) EncodeWords(text string) [][]string {
	words := SplitWords(text)
	encoded := make([][]string, 0, len(words))
	for _, word := range words {
		symbols := codec.toBPE(word)
		encoded = append(encoded, append([]string(nil), symbols...))
	}
	return encoded
}

// Get
// Looks up text in the vocabulary, and returns the Token representation of
// it. If the text is not found, then nil is returned.
func (codec *Codec) Get(text string) *Token {
	if token, ok := codec.state.vocab.Get(text); !ok {
		return nil
	} else {
		return &token
	}
}

// Symbol returns the symbol for token, or <UNK> for ids outside the
// vocabulary.
func (codec *Codec) Symbol(token Token) string {
	if symbol, ok := codec.state.vocab.Symbol(token); ok {
		return symbol
	}
	return UnkToken
}

// Decode Tokens back into a string. Special tokens and unknown ids produce
// no output and the end of word marker becomes a space. Every other symbol is
// written as is, so a merged symbol such as "ab</w>" keeps its marker.
func (codec *Codec) Decode(encoded Tokens) (text string) {
	var sb strings.Builder
	for _, token := range encoded {
		symbol := codec.Symbol(token)
		switch {
		case IsSpecial(symbol):
			continue
		case symbol == EndOfWord:
			sb.WriteByte(' ')
		default:
			sb.WriteString(symbol)
		}
	}
	return strings.TrimSpace(sb.String())
}

// words renders tokens as space separated words, splitting merged symbols at
// the end of word marker. Sentence trimming segments and re-encodes this
// text, which Decode cannot give it once a merge spans the marker.
func (codec *Codec) words(encoded Tokens) string {
	var sb strings.Builder
	for _, token := range encoded {
		symbol := codec.Symbol(token)
		if IsSpecial(symbol) {
			continue
		}
		if word, ok := strings.CutSuffix(symbol, EndOfWord); ok {
			sb.WriteString(word)
			sb.WriteByte(' ')
		} else {
			sb.WriteString(symbol)
		}
	}
	return strings.TrimSpace(sb.String())
}
