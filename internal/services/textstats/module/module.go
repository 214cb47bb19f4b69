// Package module implements the textstats module
package module

import (
	"strings"

	"surveylens/internal/core/keyness"
	"surveylens/internal/modkit"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/textstats/domain"
	"surveylens/internal/services/textstats/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the textstats module
// Non-zero overrides win; list overrides are appended to the configured lists
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("textstats")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Target != 0 {
		cfg.Target = overrides.Target
	}
	if overrides.Measure != "" {
		cfg.Measure = strings.ToLower(overrides.Measure)
	}
	if overrides.Top != 0 {
		cfg.Top = overrides.Top
	}
	if overrides.CompoundsFile != "" {
		cfg.CompoundsFile = overrides.CompoundsFile
	}
	cfg.Compounds = append(cfg.Compounds, overrides.Compounds...)
	cfg.StopwordsExtra = append(cfg.StopwordsExtra, overrides.StopwordsExtra...)

	if err := validate.Struct("textstats.New", cfg); err != nil {
		return nil, err
	}
	measure, err := keyness.ParseMeasure(cfg.Measure)
	if err != nil {
		return nil, err
	}
	deps.Log.Debug().
		Str("module", b.Name).
		Int("target", cfg.Target).
		Str("measure", cfg.Measure).
		Int("top", cfg.Top).
		Str("compounds_file", cfg.CompoundsFile).
		Msg("module configured")

	svc := service.New(deps.Fetcher(), service.Config{
		Target:         cfg.Target,
		Measure:        measure,
		Top:            cfg.Top,
		CompoundsFile:  cfg.CompoundsFile,
		Compounds:      cfg.Compounds,
		StopwordsExtra: cfg.StopwordsExtra,
	})
	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{
		Corpus:     svc.Corpus,
		Vectorizer: svc,
		Keyness:    svc,
	}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "textstats" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
