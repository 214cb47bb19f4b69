package service

import (
	"sort"

	"surveylens/internal/core/district"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/services/textstats/domain"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vectorizer implements the counting behind domain.VectorizerPort with a vocabulary index
type Vectorizer struct {
	Tok Tokenizer
}

// DFM tokenizes every document and counts features per document
// Documents without any feature keep an empty count map
func (v Vectorizer) DFM(docs []domain.Document) (domain.DFM, error) {
	const op = "textstats.DFM"
	tokens := make([][]string, len(docs))
	vocab := map[string]int{}
	for i, d := range docs {
		tokens[i] = v.Tok.Tokens(d.Text)
		for _, w := range tokens[i] {
			vocab[w] = 0
		}
	}
	if len(vocab) == 0 {
		return domain.DFM{}, perr.WithOp(perr.InvalidArgf("no features in %d documents", len(docs)), op)
	}

	features := make([]string, 0, len(vocab))
	for w := range vocab {
		features = append(features, w)
	}
	sort.Strings(features)
	for i, w := range features {
		vocab[w] = i
	}

	out := domain.DFM{
		Features:  features,
		Docs:      make([]string, len(docs)),
		Districts: make([]district.Code, len(docs)),
		Counts:    make([]map[int]float64, len(docs)),
	}
	for j, d := range docs {
		out.Docs[j] = d.ID
		out.Districts[j] = d.District
		row := make(map[int]float64, len(tokens[j]))
		for _, w := range tokens[j] {
			row[vocab[w]]++
		}
		out.Counts[j] = row
	}
	return out, nil
}

// Group sums document counts per Single district; other codes are left out,
// and so are features that only occur in those left-out documents
func Group(dfm domain.DFM) (domain.Grouped, error) {
	const op = "textstats.Group"
	col := map[int]int{}
	var districts []int
	for _, c := range dfm.Districts {
		if n, ok := c.Single(); ok {
			if _, seen := col[n]; !seen {
				col[n] = 0
				districts = append(districts, n)
			}
		}
	}
	if len(districts) == 0 || len(dfm.Features) == 0 {
		return domain.Grouped{}, perr.WithOp(perr.InvalidArgf("no single-district documents to group"), op)
	}
	sort.Ints(districts)
	for j, n := range districts {
		col[n] = j
	}

	acc := make([][]float64, len(dfm.Features))
	for j, c := range dfm.Districts {
		n, ok := c.Single()
		if !ok {
			continue
		}
		for i, v := range dfm.Counts[j] {
			if acc[i] == nil {
				acc[i] = make([]float64, len(districts))
			}
			acc[i][col[n]] += v
		}
	}

	var features []string
	var rows []float64
	for i, r := range acc {
		if r == nil || floats.Sum(r) == 0 {
			continue
		}
		features = append(features, dfm.Features[i])
		rows = append(rows, r...)
	}
	if len(features) == 0 {
		return domain.Grouped{}, perr.WithOp(perr.InvalidArgf("no features in single-district documents"), op)
	}
	g := mat.NewDense(len(features), len(districts), rows)
	return domain.Grouped{Features: features, Districts: districts, Counts: g}, nil
}

// Split returns the target district's column and the sum of every other column
func Split(g domain.Grouped, target int) (tgt, ref []float64, err error) {
	idx := sort.SearchInts(g.Districts, target)
	if idx == len(g.Districts) || g.Districts[idx] != target {
		return nil, nil, perr.WithOp(perr.WithField(
			perr.InvalidArgf("target district %d not among %v", target, g.Districts), "CORE_KEYNESS_TARGET"), "textstats.Split")
	}
	if len(g.Districts) < 2 {
		return nil, nil, perr.WithOp(perr.InvalidArgf("district %d has no reference districts to compare against", target), "textstats.Split")
	}
	nf := len(g.Features)
	tgt = mat.Col(nil, idx, g.Counts)
	ref = make([]float64, nf)
	buf := make([]float64, nf)
	for j := range g.Districts {
		if j == idx {
			continue
		}
		mat.Col(buf, j, g.Counts)
		floats.Add(ref, buf)
	}
	return tgt, ref, nil
}
