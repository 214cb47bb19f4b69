// Package service implements the batch runner over both analysis branches
package service

import (
	"context"
	"time"

	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/logger"
	export "surveylens/internal/services/export/domain"
	"surveylens/internal/services/pipeline/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
	survey "surveylens/internal/services/survey/domain"
	textstats "surveylens/internal/services/textstats/domain"

	"github.com/google/uuid"
)

// Runner implements domain.RunnerPort
type Runner struct {
	Deps   domain.Deps
	Branch domain.Branch
}

// newRunID mints the id that tags every log line and the report of one run
var newRunID = uuid.NewString

// New constructs a Runner
func New(deps domain.Deps, branch domain.Branch) *Runner {
	if branch == "" {
		branch = domain.BranchAll
	}
	return &Runner{Deps: deps, Branch: branch}
}

// Run loads responses once, runs the selected branches, then writes every artifact
// Nothing is written unless every selected branch succeeded
func (r *Runner) Run(ctx context.Context) (domain.Report, error) {
	rep := domain.Report{RunID: newRunID(), Branch: r.Branch}
	ctx = logger.WithRun(ctx, rep.RunID)
	log := logger.C(ctx)
	start := time.Now()
	log.Info().Str("branch", string(r.Branch)).Bool("render", r.Deps.Renderer != nil).Msg("run started")

	rs, err := r.Deps.Responses.Responses(logger.WithStage(ctx, "load"))
	if err != nil {
		return rep, perr.WithOp(err, "pipeline.load")
	}
	rep.Responses = len(rs)

	if r.Branch.Map() {
		mr, err := MapBranch(logger.WithStage(ctx, "map"), r.Deps, rs)
		if err != nil {
			return rep, err
		}
		rep.Map = &mr
	}
	if r.Branch.Keyness() {
		kr, err := KeynessBranch(logger.WithStage(ctx, "keyness"), r.Deps, rs)
		if err != nil {
			return rep, err
		}
		rep.Keyness = &kr
	}

	if rep.Artifacts, err = Write(logger.WithStage(ctx, "export"), r.Deps, rep); err != nil {
		return rep, err
	}
	log.Info().
		Int("responses", rep.Responses).
		Int("artifacts", len(rep.Artifacts)).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")
	return rep, nil
}

// MapBranch scores districts and joins them onto the boundaries
func MapBranch(ctx context.Context, d domain.Deps, rs []survey.Response) (domain.MapResult, error) {
	const op = "pipeline.MapBranch"
	ds, err := d.Sentiment.Compute(ctx, rs)
	if err != nil {
		return domain.MapResult{}, perr.WithOp(err, op)
	}
	bs, err := d.Boundaries.Load(ctx)
	if err != nil {
		return domain.MapResult{}, perr.WithOp(err, op)
	}
	joined := d.Joiner.Join(ds, bs)
	logger.C(ctx).Info().
		Int("scored", len(ds)).
		Int("boundaries", len(bs)).
		Int("joined", len(joined)).
		Msg("districts joined")
	return domain.MapResult{Sentiment: ds, Joined: joined}, nil
}

// KeynessBranch compares the target district's vocabulary against the rest
func KeynessBranch(ctx context.Context, d domain.Deps, rs []survey.Response) (textstats.Result, error) {
	res, err := d.Keyness.Keyness(ctx, rs)
	if err != nil {
		return textstats.Result{}, perr.WithOp(err, "pipeline.KeynessBranch")
	}
	return res, nil
}

// Write exports tables for every branch that ran, then the figures when a renderer is set
func Write(ctx context.Context, d domain.Deps, rep domain.Report) ([]string, error) {
	const op = "pipeline.Write"
	var paths []string
	add := func(p string, err error) error {
		if err != nil {
			return perr.WithOp(err, op)
		}
		paths = append(paths, p)
		logger.C(ctx).Debug().Str("path", p).Msg("artifact written")
		return nil
	}

	var mapRows *domain.MapResult
	if rep.Map != nil {
		mapRows = rep.Map
		if err := add(d.Exporter.Sentiment(mapRows.Sentiment)); err != nil {
			return paths, err
		}
		if err := add(d.Exporter.GeoJSON(mapRows.Joined)); err != nil {
			return paths, err
		}
	}
	if rep.Keyness != nil {
		if err := add(d.Exporter.Keyness(*rep.Keyness)); err != nil {
			return paths, err
		}
	}
	if mapRows != nil || rep.Keyness != nil {
		var rows []sentiment.DistrictSentiment
		if mapRows != nil {
			rows = mapRows.Sentiment
		}
		if err := add(d.Exporter.Workbook(rows, rep.Keyness)); err != nil {
			return paths, err
		}
	}

	if d.Renderer == nil {
		return paths, nil
	}
	if mapRows != nil {
		if len(mapRows.Joined) > 0 {
			wt, err := d.Renderer.Map(mapRows.Joined, "png")
			if err != nil {
				return paths, perr.WithOp(err, op)
			}
			if err := add(d.Exporter.Artifact(export.MapPNG, wt)); err != nil {
				return paths, err
			}
		} else {
			logger.C(ctx).Warn().Msg("no district joined a boundary; map skipped")
		}
		if len(mapRows.Sentiment) > 0 {
			wt, err := d.Renderer.Scatter(mapRows.Sentiment, "png")
			if err != nil {
				return paths, perr.WithOp(err, op)
			}
			if err := add(d.Exporter.Artifact(export.ScatterPNG, wt)); err != nil {
				return paths, err
			}
		}
	}
	if rep.Keyness != nil && len(rep.Keyness.Top) > 0 {
		wt, err := d.Renderer.Keyness(rep.Keyness.Top, rep.Keyness.Target, "png")
		if err != nil {
			return paths, perr.WithOp(err, op)
		}
		if err := add(d.Exporter.Artifact(export.KeynessPNG, wt)); err != nil {
			return paths, err
		}
	}
	return paths, nil
}
