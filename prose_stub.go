//go:build wasip1 || js

package char_bpe

import "errors"

func (codec *Codec) TrimIncompleteSentence(tokens Tokens) (Tokens, error) {
	return nil, errors.New("TrimIncompleteSentence is not implemented")
}

func (codec *Codec) TrimSentences(
	tokens Tokens,
	direction TrimDirection,
	limit uint,
) (Tokens, error) {
	return nil, errors.New("TrimSentences is not implemented")
}
