package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrTokenRange reports a token id that does not fit the binary width.
type ErrTokenRange struct {
	Token Token
	Width int
	Index int
}

func (err ErrTokenRange) Error() string {
	return fmt.Sprintf("token %d at index %d does not fit in %d bits",
		err.Token, err.Index, err.Width*8)
}

// ToBin serializes tokens as little-endian uint32 when useUint32 is set, and
// as uint16 otherwise.
func (tokens *Tokens) ToBin(useUint32 bool) (*[]byte, error) {
	if useUint32 {
		return tokens.ToBinUint32()
	}
	return tokens.ToBinUint16()
}

func (tokens *Tokens) ToBinUint16() (*[]byte, error) {
	bin := make([]byte, 0, len(*tokens)*TokenSize)
	for idx, token := range *tokens {
		if token < 0 || token > math.MaxUint16 {
			return nil, ErrTokenRange{Token: token, Width: TokenSize, Index: idx}
		}
		bin = binary.LittleEndian.AppendUint16(bin, uint16(token))
	}
	return &bin, nil
}

func (tokens *Tokens) ToBinUint32() (*[]byte, error) {
	bin := make([]byte, 0, len(*tokens)*TokenSize32)
	for idx, token := range *tokens {
		if token < 0 {
			return nil, ErrTokenRange{Token: token, Width: TokenSize32, Index: idx}
		}
		bin = binary.LittleEndian.AppendUint32(bin, uint32(token))
	}
	return &bin, nil
}

// TokensFromBin reads little-endian uint16 token ids. A trailing partial
// token is ignored.
func TokensFromBin(bin *[]byte) *Tokens {
	data := *bin
	tokens := make(Tokens, len(data)/TokenSize)
	for idx := range tokens {
		tokens[idx] = Token(binary.LittleEndian.Uint16(data[idx*TokenSize:]))
	}
	return &tokens
}

// TokensFromBin32 reads little-endian uint32 token ids. Ids beyond the
// int32 range are clamped to MaxInt32, which decodes as <UNK>.
func TokensFromBin32(bin *[]byte) *Tokens {
	data := *bin
	tokens := make(Tokens, len(data)/TokenSize32)
	for idx := range tokens {
		id := binary.LittleEndian.Uint32(data[idx*TokenSize32:])
		tokens[idx] = Token(min(id, math.MaxInt32))
	}
	return &tokens
}
