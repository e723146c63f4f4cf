package char_bpe

import (
	"github.com/wbrown/char_bpe/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MergeCallback is invoked once per learned merge with its rank, the pair and
// the pair's count at the time it was selected.
type MergeCallback func(rank int, pair types.Pair, count int)

// TrainedState is the immutable result of one training run: the vocabulary
// and the ordered merge rules.
type TrainedState struct {
	vocab    *Vocabulary
	merges   []types.Pair
	baseSize int
}

// corpusWord is one distinct word of the corpus with its frequency.
type corpusWord struct {
	symbols []string
	count   int
}

// Train
// Learns a vocabulary of up to targetVocabSize symbols from corpus.
func Train(corpus string, targetVocabSize int) *TrainedState {
	return TrainWithCallback(corpus, targetVocabSize, nil)
}

// TrainWithCallback is Train with a per-merge callback, which may be nil.
func TrainWithCallback(
	corpus string,
	targetVocabSize int,
	callback MergeCallback,
) *TrainedState {
	vocab := NewBaseVocabulary()
	words := collectWords(corpus)

	for _, word := range words {
		for _, symbol := range word.symbols {
			vocab.add(symbol)
		}
	}
	baseSize := vocab.Len()

	merges := make([]types.Pair, 0)
	for vocab.Len() < targetVocabSize {
		pairCounts := countPairs(words)
		bestPair, bestCount, ok := selectPair(pairCounts, vocab)
		if !ok {
			break
		}
		vocab.add(bestPair.Merged())
		merges = append(merges, bestPair)
		if callback != nil {
			callback(len(merges)-1, bestPair, bestCount)
		}
		for idx := range words {
			if containsPair(words[idx].symbols, bestPair) {
				words[idx].symbols = mergePair(words[idx].symbols, bestPair)
			}
		}
	}

	return &TrainedState{
		vocab:    vocab,
		merges:   merges,
		baseSize: baseSize,
	}
}

// collectWords splits corpus into distinct words, in order of first
// appearance, each carrying its frequency. Counting a word type once with its
// frequency gives the same pair counts and first-seen order as scanning every
// occurrence.
func collectWords(corpus string) []corpusWord {
	freqs := orderedmap.New[string, int]()
	for _, word := range SplitWords(corpus) {
		count, _ := freqs.Get(word)
		freqs.Set(word, count+1)
	}
	words := make([]corpusWord, 0, freqs.Len())
	for entry := freqs.Oldest(); entry != nil; entry = entry.Next() {
		words = append(words, corpusWord{
			symbols: wordSymbols(entry.Key),
			count:   entry.Value,
		})
	}
	return words
}

// countPairs counts adjacent symbol pairs across all words, remembering the
// order in which each pair was first seen.
func countPairs(words []corpusWord) *orderedmap.OrderedMap[types.Pair, int] {
	pairCounts := orderedmap.New[types.Pair, int]()
	for _, word := range words {
		for idx := 1; idx < len(word.symbols); idx++ {
			pair := types.Pair{Left: word.symbols[idx-1], Right: word.symbols[idx]}
			count, _ := pairCounts.Get(pair)
			pairCounts.Set(pair, count+word.count)
		}
	}
	return pairCounts
}

// selectPair returns the most frequent eligible pair. Ties go to the pair
// seen first. A pair is eligible only if its concatenation is not already a
// symbol, so specials and the end of word marker are never produced by a
// merge.
func selectPair(
	pairCounts *orderedmap.OrderedMap[types.Pair, int],
	vocab *Vocabulary,
) (best types.Pair, bestCount int, ok bool) {
	for entry := pairCounts.Oldest(); entry != nil; entry = entry.Next() {
		if entry.Value <= bestCount {
			continue
		}
		if vocab.Contains(entry.Key.Merged()) {
			continue
		}
		best, bestCount, ok = entry.Key, entry.Value, true
	}
	return best, bestCount, ok
}

// VocabSize returns the number of symbols, special tokens included.
func (state *TrainedState) VocabSize() int {
	return state.vocab.Len()
}

// BaseSize returns the vocabulary size before any merges: the base alphabet
// plus characters registered from the corpus.
func (state *TrainedState) BaseSize() int {
	return state.baseSize
}

func (state *TrainedState) Merges() []types.Pair {
	return append([]types.Pair(nil), state.merges...)
}

func (state *TrainedState) Symbols() []string {
	return state.vocab.Symbols()
}

func (state *TrainedState) SpecialTokens() []string {
	return SpecialTokens()
}

// Vocabulary returns a copy of the trained vocabulary.
func (state *TrainedState) Vocabulary() *Vocabulary {
	return state.vocab.clone()
}

// VocabularyBuilder holds the most recent training result. Each call to
// Train replaces it entirely.
type VocabularyBuilder struct {
	Callback MergeCallback
	state    *TrainedState
}

func (builder *VocabularyBuilder) InitBaseVocabulary() *Vocabulary {
	return NewBaseVocabulary()
}

func (builder *VocabularyBuilder) Train(
	corpus string,
	targetVocabSize int,
) *TrainedState {
	builder.state = TrainWithCallback(corpus, targetVocabSize,
		builder.Callback)
	return builder.state
}

// State returns the last trained state, or nil before the first Train.
func (builder *VocabularyBuilder) State() *TrainedState {
	return builder.state
}
