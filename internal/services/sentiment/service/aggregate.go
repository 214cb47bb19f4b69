// Package service implements the district aggregator and lexicon scorer
package service

import (
	"sort"
	"strings"

	"surveylens/internal/services/sentiment/domain"
	survey "surveylens/internal/services/survey/domain"
)

// Aggregator implements domain.AggregatorPort
type Aggregator struct{}

// Aggregate keeps Single district codes only and joins texts with one space in input order
// Output is ordered by ascending district
func (Aggregator) Aggregate(rs []survey.Response) []domain.DistrictDoc {
	type acc struct {
		b *strings.Builder
		n int
	}
	by := map[int]*acc{}
	for _, r := range rs {
		d, ok := r.District.Single()
		if !ok || r.Text == "" {
			continue
		}
		a := by[d]
		if a == nil {
			a = &acc{b: &strings.Builder{}}
			by[d] = a
		}
		if a.n > 0 {
			a.b.WriteByte(' ')
		}
		a.b.WriteString(r.Text)
		a.n++
	}

	keys := make([]int, 0, len(by))
	for k := range by {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]domain.DistrictDoc, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.DistrictDoc{District: k, Text: by[k].b.String(), Responses: by[k].n})
	}
	return out
}
