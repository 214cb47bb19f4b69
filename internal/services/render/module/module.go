// Package module implements the render module
package module

import (
	"surveylens/internal/modkit"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/render/domain"
	"surveylens/internal/services/render/service"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the render module
// Enabled only comes from config; overrides carry the palette and title
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("render")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Palette != "" {
		cfg.Palette = overrides.Palette
	}
	if overrides.Title != "" {
		cfg.Title = overrides.Title
	}
	if err := validate.Struct("render.New", cfg); err != nil {
		return nil, err
	}
	if _, err := service.ColorMap(cfg.Palette, 0, 1); err != nil {
		return nil, perr.WithOp(perr.WithField(perr.Validationf("CORE_RENDER_PALETTE must be one of %v", service.PaletteNames()), "CORE_RENDER_PALETTE"), "render.New")
	}
	deps.Log.Debug().Str("module", b.Name).Str("palette", cfg.Palette).Bool("enabled", cfg.Enabled).Msg("module configured")

	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{
		Renderer: service.New(service.Config{Palette: cfg.Palette, Title: cfg.Title}),
	}
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "render" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }

// Enabled reports whether figures should be drawn at all
func (m *Module) Enabled() bool { return m.opts.Enabled }
