package main

//go:generate gopherjs build --minify

import (
	"log"

	"github.com/gopherjs/gopherjs/js"
	"github.com/wbrown/char_bpe"
	"github.com/wbrown/char_bpe/types"
)

// codec holds the most recently trained state. Until train is called it
// only knows the base alphabet.
var codec = char_bpe.Train("", 0).NewCodec()

func Train(corpus string, vocabSize int) int {
	codec = char_bpe.Train(corpus, vocabSize).NewCodec()
	return codec.State().VocabSize()
}

func Tokenize(text string) types.Tokens {
	return codec.Encode(text)
}

func Decode(ids []int) string {
	tokens := make(types.Tokens, len(ids))
	for idx, id := range ids {
		tokens[idx] = types.Token(id)
	}
	return codec.Decode(tokens)
}

// DecodeBin decodes little endian uint16 tokens.
func DecodeBin(arr []byte) string {
	return codec.Decode(*types.TokensFromBin(&arr))
}

func VocabSize() int {
	return codec.State().VocabSize()
}

func init() {
	exports := js.Module.Get("exports")
	exports.Set("train", Train)
	exports.Set("tokenize", Tokenize)
	exports.Set("decode", Decode)
	exports.Set("decodeBin", DecodeBin)
	exports.Set("vocabSize", VocabSize)
	log.Printf("Character BPE Codec Loaded")
}

func main() {

}
