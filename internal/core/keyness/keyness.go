// Package keyness scores how strongly each feature is associated with a target
// partition against a reference partition using 2x2 contingency tables
//
//	           feature   other features
//	target        a            b
//	reference     c            d
package keyness

import (
	"math"
	"sort"
	"strings"

	perr "surveylens/internal/platform/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Measure selects the association statistic
type Measure string

const (
	// Chi2 is Pearson chi-squared with Yates continuity correction
	Chi2 Measure = "chi2"
	// LR is the likelihood ratio G2 with Williams correction
	LR Measure = "lr"
	// PMI is pointwise mutual information of feature and target (natural log)
	PMI Measure = "pmi"
)

// ParseMeasure maps a config value to a Measure
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(strings.ToLower(strings.TrimSpace(s))); m {
	case Chi2, LR, PMI:
		return m, nil
	case "":
		return Chi2, nil
	default:
		return "", perr.WithField(perr.InvalidArgf("unknown keyness measure %q", s), "measure")
	}
}

// Side says which partition a term leans to; empty for a zero score
type Side string

const (
	// SideTarget marks terms over-represented in the target
	SideTarget Side = "target"
	// SideReference marks terms over-represented in the reference
	SideReference Side = "reference"
)

// Term is one scored feature
// Target and Reference are the raw feature counts in each partition
type Term struct {
	Feature   string
	Score     float64
	P         float64
	Target    int
	Reference int
	Side      Side
}

// Compute scores every feature counted in either partition and returns them ranked
// by score desc, ties by feature asc. target and reference are aligned with features.
// P is NaN for PMI
func Compute(features []string, target, reference []float64, m Measure) ([]Term, error) {
	if len(target) != len(features) || len(reference) != len(features) {
		return nil, perr.WithOp(perr.InvalidArgf("length mismatch: %d features, %d target, %d reference",
			len(features), len(target), len(reference)), "keyness.Compute")
	}
	switch m {
	case Chi2, LR, PMI:
	default:
		return nil, perr.WithOp(perr.InvalidArgf("unknown keyness measure %q", m), "keyness.Compute")
	}

	tTotal := floats.Sum(target)
	rTotal := floats.Sum(reference)
	chi := distuv.ChiSquared{K: 1}

	out := make([]Term, 0, len(features))
	for i, f := range features {
		a, c := target[i], reference[i]
		if a+c == 0 {
			continue
		}
		b, d := tTotal-a, rTotal-c

		var score, p float64
		switch m {
		case Chi2:
			score = chi2Yates(a, b, c, d)
		case LR:
			score = gSquaredWilliams(a, b, c, d)
		case PMI:
			score = pmi(a, b, c, d)
		}
		if m == PMI {
			p = math.NaN()
		} else {
			p = 1 - chi.CDF(math.Abs(score))
		}

		var side Side
		switch {
		case score > 0:
			side = SideTarget
		case score < 0:
			side = SideReference
		}
		out = append(out, Term{
			Feature:   f,
			Score:     score,
			P:         p,
			Target:    int(a),
			Reference: int(c),
			Side:      side,
		})
	}
	Rank(out)
	return out, nil
}

// Rank sorts terms by score desc, ties by feature asc
func Rank(terms []Term) {
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Score != terms[j].Score {
			return terms[i].Score > terms[j].Score
		}
		return terms[i].Feature < terms[j].Feature
	})
}

// Top returns at most n target-side terms (highest first) followed by at most n
// reference-side terms (most negative last), from an already ranked list
// Zero scores belong to neither side
func Top(ranked []Term, n int) []Term {
	if n <= 0 {
		return nil
	}
	var tgt, ref []Term
	for _, t := range ranked {
		if t.Score > 0 && len(tgt) < n {
			tgt = append(tgt, t)
		}
	}
	for i := len(ranked) - 1; i >= 0 && len(ref) < n; i-- {
		if ranked[i].Score < 0 {
			ref = append(ref, ranked[i])
		}
	}
	// back to descending order
	for i, j := 0, len(ref)-1; i < j; i, j = i+1, j-1 {
		ref[i], ref[j] = ref[j], ref[i]
	}
	return append(tgt, ref...)
}

// expected11 is the expected target count of the feature under independence
func expected11(a, b, c, d float64) float64 {
	n := a + b + c + d
	if n == 0 {
		return 0
	}
	return (a + b) * (a + c) / n
}

func sign(a, b, c, d float64) float64 {
	if a > expected11(a, b, c, d) {
		return 1
	}
	return -1
}

// chi2Yates applies the continuity correction only when |ad-bc| >= N/2
func chi2Yates(a, b, c, d float64) float64 {
	n := a + b + c + d
	den := (a + b) * (c + d) * (a + c) * (b + d)
	if n == 0 || den == 0 {
		return 0
	}
	diff := math.Abs(a*d - b*c)
	if diff >= n/2 {
		diff -= n / 2
	}
	return sign(a, b, c, d) * n * diff * diff / den
}

// gSquaredWilliams is 2*sum(O*ln(O/E)) divided by Williams' q
func gSquaredWilliams(a, b, c, d float64) float64 {
	n := a + b + c + d
	r1, r2 := a+b, c+d
	c1, c2 := a+c, b+d
	if n == 0 || r1 == 0 || r2 == 0 || c1 == 0 || c2 == 0 {
		return 0
	}
	obs := []float64{a, b, c, d}
	exp := []float64{r1 * c1 / n, r1 * c2 / n, r2 * c1 / n, r2 * c2 / n}
	g := 0.0
	for i, o := range obs {
		if o > 0 {
			g += o * math.Log(o/exp[i])
		}
	}
	g *= 2
	q := 1 + (n/r1+n/r2-1)*(n/c1+n/c2-1)/(6*n)
	return sign(a, b, c, d) * g / q
}

// pmi is ln(a*N / ((a+b)(a+c))); a zero target count gives -Inf
func pmi(a, b, c, d float64) float64 {
	n := a + b + c + d
	den := (a + b) * (a + c)
	if n == 0 || den == 0 {
		return 0
	}
	if a == 0 {
		return math.Inf(-1)
	}
	return math.Log(a * n / den)
}
