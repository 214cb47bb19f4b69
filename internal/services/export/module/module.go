// Package module implements the export module
package module

import (
	"surveylens/internal/modkit"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/export/domain"
	"surveylens/internal/services/export/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the export module; the output directory is created on first write
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("export")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Dir != "" {
		cfg.Dir = overrides.Dir
	}
	if err := validate.Struct("export.New", cfg); err != nil {
		return nil, err
	}
	deps.Log.Debug().Str("module", b.Name).Str("dir", cfg.Dir).Msg("module configured")

	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{Exporter: service.New(cfg.Dir)}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "export" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
