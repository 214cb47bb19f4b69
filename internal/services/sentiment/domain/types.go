// Package domain defines the core types and interfaces for the sentiment service
package domain

import (
	"context"

	"surveylens/internal/core/lexicon"
	survey "surveylens/internal/services/survey/domain"
)

// Policy says what happens to tokens the lexicon does not know
type Policy string

const (
	// PolicyExclude drops unmatched tokens (inner join)
	PolicyExclude Policy = "exclude"
	// PolicyZero scores unmatched tokens as 0 so they dilute the mean
	PolicyZero Policy = "zero"
)

// DistrictDoc is the concatenated response text of one district
type DistrictDoc struct {
	District  int
	Text      string
	Responses int
}

// DistrictSentiment is the mean lexicon score of one district
// Matched is the number of tokens that contributed to the mean
type DistrictSentiment struct {
	District  int
	Sentiment float64
	Matched   int
}

// AggregatorPort groups responses into district documents
type AggregatorPort interface {
	Aggregate(rs []survey.Response) []DistrictDoc
}

// ScorerPort scores district documents against a lexicon
type ScorerPort interface {
	Score(docs []DistrictDoc, lex *lexicon.Lexicon) []DistrictSentiment
}

// SentimentPort runs aggregate + score with the configured lexicon
type SentimentPort interface {
	Compute(ctx context.Context, rs []survey.Response) ([]DistrictSentiment, error)
}

// Ports exposed by the sentiment module
type Ports struct {
	Aggregator AggregatorPort
	Scorer     ScorerPort
	Sentiment  SentimentPort
}
