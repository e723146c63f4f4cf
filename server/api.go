package server

import (
	"time"

	"github.com/wbrown/char_bpe/types"
)

type Merge struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func toMerges(pairs []types.Pair) []Merge {
	merges := make([]Merge, len(pairs))
	for idx, pair := range pairs {
		merges[idx] = Merge{Left: pair.Left, Right: pair.Right}
	}
	return merges
}

// TrainRequest trains a new vocabulary. VocabSize falls back to the server
// default when omitted.
type TrainRequest struct {
	Corpus    string `json:"corpus"`
	VocabSize *int   `json:"vocab_size,omitempty"`
}

type TrainResponse struct {
	ID            string   `json:"id"`
	VocabSize     int      `json:"vocab_size"`
	BaseSize      int      `json:"base_size"`
	Merges        []Merge  `json:"merges"`
	SpecialTokens []string `json:"special_tokens"`
}

type EncodeRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type EncodeResponse struct {
	IDs     types.Tokens `json:"ids"`
	Symbols [][]string   `json:"symbols"`
}

type DecodeRequest struct {
	ID  string       `json:"id"`
	IDs types.Tokens `json:"ids"`
}

type DecodeResponse struct {
	Text string `json:"text"`
}

type VocabResponse struct {
	ID       string   `json:"id"`
	BaseSize int      `json:"base_size"`
	Symbols  []string `json:"symbols"`
	Merges   []Merge  `json:"merges"`
}

type StateInfo struct {
	ID        string    `json:"id"`
	VocabSize int       `json:"vocab_size"`
	Merges    int       `json:"merges"`
	CreatedAt time.Time `json:"created_at"`
}

type ListResponse struct {
	States []StateInfo `json:"states"`
}
