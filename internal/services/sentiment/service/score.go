package service

import (
	"surveylens/internal/core/lexicon"
	"surveylens/internal/core/tokenize"
	"surveylens/internal/services/sentiment/domain"

	"gonum.org/v1/gonum/floats"
)

// Scorer implements domain.ScorerPort
type Scorer struct {
	Lowercase bool
	Policy    domain.Policy
}

// Score tokenizes every district document into one stream and averages matched scores per district
// The mean is unweighted: every matched token counts once. Districts without a match are omitted
func (s Scorer) Score(docs []domain.DistrictDoc, lex *lexicon.Lexicon) []domain.DistrictSentiment {
	in := make([]tokenize.Doc, len(docs))
	for i, d := range docs {
		in[i] = tokenize.Doc{District: d.District, Text: d.Text}
	}

	scores := make(map[int][]float64, len(docs))
	for _, tk := range tokenize.Stream(in, s.Lowercase) {
		v, ok := lex.Lookup(tk.Word)
		switch {
		case ok:
			scores[tk.District] = append(scores[tk.District], float64(v))
		case s.Policy == domain.PolicyZero:
			scores[tk.District] = append(scores[tk.District], 0)
		}
	}

	out := make([]domain.DistrictSentiment, 0, len(docs))
	for _, d := range docs {
		vs := scores[d.District]
		if len(vs) == 0 {
			continue
		}
		out = append(out, domain.DistrictSentiment{
			District:  d.District,
			Sentiment: floats.Sum(vs) / float64(len(vs)),
			Matched:   len(vs),
		})
	}
	return out
}
