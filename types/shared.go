package types

type Token int32
type Tokens []Token
type TokenMap map[string]Token

const (
	TokenSize   = 2
	TokenSize32 = 4
)

// Pair is a merge rule: two adjacent symbols that are joined into one.
type Pair struct {
	Left  string
	Right string
}

func (pair Pair) Merged() string {
	return pair.Left + pair.Right
}

type TokenPair struct {
	Left  Token
	Right Token
}
