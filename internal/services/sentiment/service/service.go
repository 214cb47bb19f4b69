package service

import (
	"context"
	"sync"

	"surveylens/internal/core/lexicon"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"
	"surveylens/internal/services/sentiment/domain"
	survey "surveylens/internal/services/survey/domain"
)

// Config for the sentiment service
type Config struct {
	LexiconSource string
	Lowercase     bool
	Policy        domain.Policy
}

// Service implements domain.SentimentPort
// The lexicon is fetched on first successful use and reused for the life of the service
type Service struct {
	Fetch *fetch.Fetcher
	Agg   domain.AggregatorPort
	Score domain.ScorerPort
	Cfg   Config

	mu  sync.Mutex
	lex *lexicon.Lexicon
}

// New constructs a new sentiment service
func New(f *fetch.Fetcher, cfg Config) *Service {
	if cfg.Policy == "" {
		cfg.Policy = domain.PolicyExclude
	}
	return &Service{
		Fetch: f,
		Agg:   Aggregator{},
		Score: Scorer{Lowercase: cfg.Lowercase, Policy: cfg.Policy},
		Cfg:   cfg,
	}
}

// Lexicon returns the configured lexicon, loading it on first use
// A failed load is not kept; the next call tries again
func (s *Service) Lexicon(ctx context.Context) (*lexicon.Lexicon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lex != nil {
		return s.lex, nil
	}
	lex, err := LoadLexicon(ctx, s.Fetch, s.Cfg.LexiconSource, s.Cfg.Lowercase)
	if err != nil {
		return nil, err
	}
	s.lex = lex
	return lex, nil
}

// Compute aggregates responses per district and scores them
func (s *Service) Compute(ctx context.Context, rs []survey.Response) ([]domain.DistrictSentiment, error) {
	lex, err := s.Lexicon(ctx)
	if err != nil {
		return nil, err
	}
	docs := s.Agg.Aggregate(rs)
	out := s.Score.Score(docs, lex)

	log := logger.C(ctx)
	for _, d := range docs {
		log.Debug().Int("district", d.District).Int("responses", d.Responses).Int("chars", len(d.Text)).Msg("district document")
	}
	log.Info().
		Int("responses", len(rs)).
		Int("districts", len(docs)).
		Int("scored", len(out)).
		Str("policy", string(s.Cfg.Policy)).
		Msg("district sentiment computed")
	return out, nil
}

// LoadLexicon fetches and parses an AFINN style lexicon
func LoadLexicon(ctx context.Context, f *fetch.Fetcher, src string, lower bool) (*lexicon.Lexicon, error) {
	const op = "sentiment.LoadLexicon"
	rc, err := f.Open(ctx, src)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	defer func() { _ = rc.Close() }()

	lex, st, err := lexicon.Parse(rc, lower)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	logger.C(ctx).Info().Str("source", src).Int("entries", st.Entries).Int("skipped", st.Skipped).Msg("lexicon loaded")
	return lex, nil
}
