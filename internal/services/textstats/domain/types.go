// Package domain defines the core types and interfaces for the textstats service
package domain

import (
	"context"

	"surveylens/internal/core/district"
	"surveylens/internal/core/keyness"
	survey "surveylens/internal/services/survey/domain"

	"gonum.org/v1/gonum/mat"
)

// Document is one response in the keyness corpus
// ID is stable across runs for the same respondent, topic and row
type Document struct {
	ID           string
	RespondentID string
	District     district.Code
	Topic        string
	Text         string
}

// DFM is a sparse document-feature matrix
// Features is sorted; Docs, Districts and Counts are aligned per document,
// Counts[j] maps a feature index to its count in document j
type DFM struct {
	Features  []string
	Docs      []string
	Districts []district.Code
	Counts    []map[int]float64
}

// At returns the count of feature i in document j
func (d DFM) At(i, j int) float64 { return d.Counts[j][i] }

// Grouped is a features x districts count matrix summed over Single-district documents
// Only features counted in at least one district are kept
type Grouped struct {
	Features  []string
	Districts []int
	Counts    *mat.Dense
}

// Result is the outcome of one keyness comparison
// Ranked holds every feature, Top the n-per-side selection
type Result struct {
	Target  int
	Measure keyness.Measure
	Ranked  []keyness.Term
	Top     []keyness.Term
}

// CorpusPort turns responses into documents
type CorpusPort interface {
	Documents(rs []survey.Response) []Document
}

// VectorizerPort counts tokens per document
type VectorizerPort interface {
	DFM(ctx context.Context, docs []Document) (DFM, error)
}

// KeynessPort compares the configured target district against all others
type KeynessPort interface {
	Keyness(ctx context.Context, rs []survey.Response) (Result, error)
}

// Ports exposed by the textstats module
type Ports struct {
	Corpus     CorpusPort
	Vectorizer VectorizerPort
	Keyness    KeynessPort
}
