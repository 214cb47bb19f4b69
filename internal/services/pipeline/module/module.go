// Package module implements the pipeline module
package module

import (
	"strings"

	"surveylens/internal/modkit"
	"surveylens/internal/modkit/module"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/validate"
	"surveylens/internal/services/pipeline/domain"
	"surveylens/internal/services/pipeline/service"

	boundarydom "surveylens/internal/services/boundary/domain"
	boundarymod "surveylens/internal/services/boundary/module"
	exportdom "surveylens/internal/services/export/domain"
	exportmod "surveylens/internal/services/export/module"
	renderdom "surveylens/internal/services/render/domain"
	rendermod "surveylens/internal/services/render/module"
	sentimentdom "surveylens/internal/services/sentiment/domain"
	sentimentmod "surveylens/internal/services/sentiment/module"
	surveydom "surveylens/internal/services/survey/domain"
	surveymod "surveylens/internal/services/survey/module"
	textstatsdom "surveylens/internal/services/textstats/domain"
	textstatsmod "surveylens/internal/services/textstats/module"
)

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports domain.Ports
}

// New constructs the pipeline module; upstream ports come from WithPorts(domain.Deps)
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	const op = "pipeline.New"
	b := modkit.Build(append([]modkit.Option{modkit.WithName("pipeline")}, opts...)...)

	ports, ok := b.Ports.(domain.Deps)
	if !ok {
		return nil, perr.WithOp(perr.Internalf("expected WithPorts(pipeline/domain.Deps)"), op)
	}
	if ports.Responses == nil || ports.Exporter == nil {
		return nil, perr.WithOp(perr.Internalf("pipeline deps missing Responses or Exporter"), op)
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.Branch != "" {
		cfg.Branch = strings.ToLower(overrides.Branch)
	}
	if err := validate.Struct(op, cfg); err != nil {
		return nil, err
	}
	branch, err := domain.ParseBranch(cfg.Branch)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	if branch.Map() && (ports.Sentiment == nil || ports.Boundaries == nil || ports.Joiner == nil) {
		return nil, perr.WithOp(perr.Internalf("map branch needs Sentiment, Boundaries and Joiner"), op)
	}
	if branch.Keyness() && ports.Keyness == nil {
		return nil, perr.WithOp(perr.Internalf("keyness branch needs Keyness"), op)
	}
	deps.Log.Debug().Str("module", b.Name).Str("branch", cfg.Branch).Msg("module configured")

	m := &Module{deps: deps, opts: cfg}
	m.ports = domain.Ports{Runner: service.New(ports, branch)}
	return m, nil
}

// Assemble builds every service module from deps and wires them into a pipeline
func Assemble(deps modkit.Deps, overrides Options) (*Module, error) {
	sm, err := surveymod.New(deps, surveymod.Options{})
	if err != nil {
		return nil, err
	}
	senm, err := sentimentmod.New(deps, sentimentmod.Options{})
	if err != nil {
		return nil, err
	}
	bm, err := boundarymod.New(deps, boundarymod.Options{})
	if err != nil {
		return nil, err
	}
	tm, err := textstatsmod.New(deps, textstatsmod.Options{})
	if err != nil {
		return nil, err
	}
	rm, err := rendermod.New(deps, rendermod.Options{})
	if err != nil {
		return nil, err
	}
	em, err := exportmod.New(deps, exportmod.Options{})
	if err != nil {
		return nil, err
	}

	bp := module.MustPortsOf[boundarydom.Ports](bm)
	d := domain.Deps{
		Responses:  module.MustPortsOf[surveydom.Ports](sm).Responses,
		Sentiment:  module.MustPortsOf[sentimentdom.Ports](senm).Sentiment,
		Boundaries: bp.Loader,
		Joiner:     bp.Joiner,
		Keyness:    module.MustPortsOf[textstatsdom.Ports](tm).Keyness,
		Exporter:   module.MustPortsOf[exportdom.Ports](em).Exporter,
	}
	if rm.Enabled() {
		d.Renderer = module.MustPortsOf[renderdom.Ports](rm).Renderer
	}
	return New(deps, overrides, modkit.WithPorts(d))
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "pipeline" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
