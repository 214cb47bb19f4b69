package service

import (
	"surveylens/internal/core/stopwords"
	"surveylens/internal/core/tokenize"
)

// Tokenizer produces keyness features from response text:
// lowercase words, compounds, then stopword removal
type Tokenizer struct {
	Compounds *Compounder
	Stop      stopwords.Set
}

// Tokens returns the features of s in order
func (t Tokenizer) Tokens(s string) []string {
	words := t.Compounds.Apply(tokenize.Words(s, true))
	out := words[:0]
	for _, w := range words {
		if t.Stop.Has(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}
