package service

import (
	"context"
	"sync"

	"surveylens/internal/core/keyness"
	"surveylens/internal/core/stopwords"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"
	survey "surveylens/internal/services/survey/domain"
	"surveylens/internal/services/textstats/domain"
)

// Config for the textstats service
type Config struct {
	Target         int
	Measure        keyness.Measure
	Top            int
	CompoundsFile  string
	Compounds      []string
	StopwordsExtra []string
}

// Service implements domain.KeynessPort and domain.VectorizerPort
// The phrase file is fetched on first successful use; a failed load is retried on the next call
type Service struct {
	Fetch  *fetch.Fetcher
	Corpus Corpus
	Cfg    Config

	mu    sync.Mutex
	ready bool
	vec   Vectorizer
}

// New constructs a new textstats service
func New(f *fetch.Fetcher, cfg Config) *Service {
	if cfg.Measure == "" {
		cfg.Measure = keyness.Chi2
	}
	if cfg.Top <= 0 {
		cfg.Top = 20
	}
	return &Service{Fetch: f, Cfg: cfg}
}

// Vectorizer builds the tokenizer from the phrase list and stopwords, then reuses it
func (s *Service) Vectorizer(ctx context.Context) (Vectorizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return s.vec, nil
	}
	phrases, err := LoadPhrases(ctx, s.Fetch, s.Cfg.CompoundsFile)
	if err != nil {
		return Vectorizer{}, err
	}
	phrases = append(phrases, s.Cfg.Compounds...)
	comp := NewCompounder(phrases)
	logger.C(ctx).Debug().Int("phrases", comp.Len()).Int("stopwords_extra", len(s.Cfg.StopwordsExtra)).Msg("tokenizer ready")
	s.vec = Vectorizer{Tok: Tokenizer{Compounds: comp, Stop: stopwords.NewSet(s.Cfg.StopwordsExtra...)}}
	s.ready = true
	return s.vec, nil
}

// DFM satisfies domain.VectorizerPort using the configured tokenizer
func (s *Service) DFM(ctx context.Context, docs []domain.Document) (domain.DFM, error) {
	v, err := s.Vectorizer(ctx)
	if err != nil {
		return domain.DFM{}, err
	}
	return v.DFM(docs)
}

// Keyness compares the target district against the pooled other districts
func (s *Service) Keyness(ctx context.Context, rs []survey.Response) (domain.Result, error) {
	const op = "textstats.Keyness"
	if s.Cfg.Target <= 0 {
		return domain.Result{}, perr.WithOp(perr.WithField(
			perr.InvalidArgf("a target district is required for keyness"), "CORE_KEYNESS_TARGET"), op)
	}
	v, err := s.Vectorizer(ctx)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, op)
	}

	docs := s.Corpus.Documents(rs)
	dfm, err := v.DFM(docs)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, op)
	}
	g, err := Group(dfm)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, op)
	}
	tgt, ref, err := Split(g, s.Cfg.Target)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, op)
	}
	ranked, err := keyness.Compute(g.Features, tgt, ref, s.Cfg.Measure)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, op)
	}

	res := domain.Result{
		Target:  s.Cfg.Target,
		Measure: s.Cfg.Measure,
		Ranked:  ranked,
		Top:     keyness.Top(ranked, s.Cfg.Top),
	}
	logger.C(ctx).Info().
		Int("documents", len(docs)).
		Int("features", len(g.Features)).
		Ints("districts", g.Districts).
		Int("target", s.Cfg.Target).
		Str("measure", string(s.Cfg.Measure)).
		Int("top", len(res.Top)).
		Msg("keyness computed")
	return res, nil
}
