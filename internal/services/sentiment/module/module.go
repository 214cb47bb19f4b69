// Package module implements the sentiment module
package module

import (
	"surveylens/internal/modkit"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/sentiment/domain"
	"surveylens/internal/services/sentiment/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the sentiment module
// Lowercase comes from config only; string overrides win when non-empty
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sentiment")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.LexiconSource != "" {
		cfg.LexiconSource = overrides.LexiconSource
	}
	if overrides.Unmatched != "" {
		cfg.Unmatched = overrides.Unmatched
	}
	if err := validate.Struct("sentiment.New", cfg); err != nil {
		return nil, err
	}
	deps.Log.Debug().Str("module", b.Name).Str("lexicon", cfg.LexiconSource).Str("unmatched", cfg.Unmatched).Msg("module configured")

	svc := service.New(deps.Fetcher(), service.Config{
		LexiconSource: cfg.LexiconSource,
		Lowercase:     cfg.Lowercase,
		Policy:        domain.Policy(cfg.Unmatched),
	})
	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{
		Aggregator: svc.Agg,
		Scorer:     svc.Score,
		Sentiment:  svc,
	}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "sentiment" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
