package char_bpe

import "github.com/wbrown/char_bpe/types"

type Token = types.Token
type Tokens = types.Tokens

const (
	PadToken  = "<PAD>"
	UnkToken  = "<UNK>"
	BosToken  = "<BOS>"
	EosToken  = "<EOS>"
	EndOfWord = "</w>"
)

const (
	PadId Token = iota
	UnkId
	BosId
	EosId
)

// FirstPrintable and LastPrintable bound the fixed base alphabet, the 95
// printable ASCII characters.
const (
	FirstPrintable = ' '
	LastPrintable  = '~'
)

var specialTokens = [...]string{PadToken, UnkToken, BosToken, EosToken}

// SpecialTokens returns the reserved symbols in id order.
func SpecialTokens() []string {
	return append([]string(nil), specialTokens[:]...)
}

func IsSpecial(symbol string) bool {
	for _, special := range specialTokens {
		if symbol == special {
			return true
		}
	}
	return false
}

// Vocabulary maps symbols to dense ids assigned in insertion order. The id to
// symbol direction is the insertion-ordered slice itself, so the two
// directions cannot drift apart.
type Vocabulary struct {
	symbols []string
	ids     map[string]Token
}

func newVocabulary(capacity int) *Vocabulary {
	return &Vocabulary{
		symbols: make([]string, 0, capacity),
		ids:     make(map[string]Token, capacity),
	}
}

// NewBaseVocabulary
// Returns the special tokens at ids 0-3 followed by the printable ASCII
// alphabet.
func NewBaseVocabulary() *Vocabulary {
	alphabetSz := int(LastPrintable-FirstPrintable) + 1
	vocab := newVocabulary(len(specialTokens) + alphabetSz)
	for _, special := range specialTokens {
		vocab.add(special)
	}
	for r := rune(FirstPrintable); r <= LastPrintable; r++ {
		vocab.add(string(r))
	}
	return vocab
}

// add inserts symbol at the next id unless it is already present.
func (vocab *Vocabulary) add(symbol string) (Token, bool) {
	if id, ok := vocab.ids[symbol]; ok {
		return id, false
	}
	id := Token(len(vocab.symbols))
	vocab.symbols = append(vocab.symbols, symbol)
	vocab.ids[symbol] = id
	return id, true
}

func (vocab *Vocabulary) clone() *Vocabulary {
	cloned := newVocabulary(len(vocab.symbols))
	for _, symbol := range vocab.symbols {
		cloned.add(symbol)
	}
	return cloned
}

func (vocab *Vocabulary) Len() int {
	return len(vocab.symbols)
}

func (vocab *Vocabulary) Contains(symbol string) bool {
	_, ok := vocab.ids[symbol]
	return ok
}

// Get
// Looks up the id of a symbol.
func (vocab *Vocabulary) Get(symbol string) (Token, bool) {
	id, ok := vocab.ids[symbol]
	return id, ok
}

// Symbol
// Looks up the symbol for an id. Negative and out of range ids are not found.
func (vocab *Vocabulary) Symbol(id Token) (string, bool) {
	if id < 0 || int(id) >= len(vocab.symbols) {
		return "", false
	}
	return vocab.symbols[id], true
}

// Symbols returns a copy of all symbols, indexed by id.
func (vocab *Vocabulary) Symbols() []string {
	return append([]string(nil), vocab.symbols...)
}

// TokenMap returns a copy of the symbol to id mapping.
func (vocab *Vocabulary) TokenMap() types.TokenMap {
	tokenMap := make(types.TokenMap, len(vocab.ids))
	for symbol, id := range vocab.ids {
		tokenMap[symbol] = id
	}
	return tokenMap
}
