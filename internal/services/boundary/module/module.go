// Package module implements the boundary module
package module

import (
	"surveylens/internal/modkit"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/boundary/domain"
	"surveylens/internal/services/boundary/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the boundary module
// An empty source is allowed here; the loader rejects it when the map branch runs
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("boundary")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Source != "" {
		cfg.Source = overrides.Source
	}
	if overrides.Key != "" {
		cfg.Key = overrides.Key
	}
	if err := validate.Struct("boundary.New", cfg); err != nil {
		return nil, err
	}
	deps.Log.Debug().Str("module", b.Name).Str("source", cfg.Source).Str("key", cfg.Key).Msg("module configured")

	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{
		Loader: service.NewLoader(deps.Fetcher(), cfg.Source, cfg.Key),
		Joiner: service.Joiner{},
	}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "boundary" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
