package char_bpe

import (
	"github.com/dlclark/regexp2"
	"github.com/wbrown/char_bpe/types"
)

type TrimDirection uint

const (
	TrimTop    TrimDirection = iota
	TrimBottom TrimDirection = iota
	TrimNone   TrimDirection = iota
)

// SPLIT_REGEX matches one whitespace-delimited word.
const SPLIT_REGEX = `\S+`

var wordPattern = regexp2.MustCompile(SPLIT_REGEX, regexp2.None)

// SplitWords
// Splits text on runs of whitespace, discarding empty fragments.
func SplitWords(text string) []string {
	words := make([]string, 0)
	match, err := wordPattern.FindStringMatch(text)
	for err == nil && match != nil {
		words = append(words, match.String())
		match, err = wordPattern.FindNextMatch(match)
	}
	return words
}

// wordSymbols returns the characters of word followed by the end of word
// marker.
func wordSymbols(word string) []string {
	symbols := make([]string, 0, len(word)+1)
	for _, r := range word {
		symbols = append(symbols, string(r))
	}
	return append(symbols, EndOfWord)
}

// pos finds the index of the first occurrence of seek in word past index i.
func pos(word []string, seek string, i int) int {
	for j, v := range word[i:] {
		if seek == v {
			return j + i
		}
	}
	return -1
}

// mergePair replaces every non-overlapping occurrence of pair in word,
// scanning left to right. A match consumes both symbols.
func mergePair(word []string, pair types.Pair) []string {
	merged := pair.Merged()
	newWord := make([]string, 0, len(word))
	for i := 0; i < len(word); {
		j := pos(word, pair.Left, i)
		if j == -1 {
			newWord = append(newWord, word[i:]...)
			break
		}
		newWord = append(newWord, word[i:j]...)
		i = j
		if i < len(word)-1 && word[i+1] == pair.Right {
			newWord = append(newWord, merged)
			i += 2
		} else {
			newWord = append(newWord, word[i])
			i += 1
		}
	}
	return newWord
}

func containsPair(word []string, pair types.Pair) bool {
	for idx := 1; idx < len(word); idx++ {
		if word[idx-1] == pair.Left && word[idx] == pair.Right {
			return true
		}
	}
	return false
}
