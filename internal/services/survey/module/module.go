// Package module implements the survey module
package module

import (
	"surveylens/internal/modkit"
	pstrings "surveylens/internal/platform/strings"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/survey/domain"
	"surveylens/internal/services/survey/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the survey module from config merged with non-zero overrides
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("survey")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Source != "" {
		cfg.Source = overrides.Source
	}
	if overrides.Member != "" {
		cfg.Member = overrides.Member
	}
	if overrides.Sheet != "" {
		cfg.Sheet = overrides.Sheet
	}
	if overrides.IDColumn != "" {
		cfg.IDColumn = overrides.IDColumn
	}
	if overrides.DistrictColumn != "" {
		cfg.DistrictColumn = overrides.DistrictColumn
	}
	cfg.TextColumns = pstrings.Dedupe(pstrings.IfEmpty(overrides.TextColumns, cfg.TextColumns))

	if err := validate.Struct("survey.New", cfg); err != nil {
		return nil, err
	}

	deps.Log.Debug().Str("module", b.Name).Str("source", cfg.Source).Strs("text_columns", cfg.TextColumns).Msg("module configured")

	loader := service.NewLoader(deps.Fetcher())
	extractor := service.NewExtractor()
	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{
		Loader:    loader,
		Extractor: extractor,
		Responses: &service.Responses{
			Loader:    loader,
			Extractor: extractor,
			Source:    domain.Source{Location: cfg.Source, Member: cfg.Member, Sheet: cfg.Sheet},
			Columns:   domain.Columns{ID: cfg.IDColumn, District: cfg.DistrictColumn, Text: cfg.TextColumns},
		},
	}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "survey" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
