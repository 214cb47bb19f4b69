// Package domain defines the core types and interfaces for the pipeline runner
package domain

import (
	"context"
	"strings"

	perr "surveylens/internal/platform/errors"
	boundary "surveylens/internal/services/boundary/domain"
	export "surveylens/internal/services/export/domain"
	render "surveylens/internal/services/render/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
	survey "surveylens/internal/services/survey/domain"
	textstats "surveylens/internal/services/textstats/domain"
)

// Branch selects which half of the pipeline runs
type Branch string

const (
	// BranchAll runs the map and keyness branches
	BranchAll Branch = "all"
	// BranchMap runs sentiment, join and the choropleth
	BranchMap Branch = "map"
	// BranchKeyness runs corpus, dfm and keyness
	BranchKeyness Branch = "keyness"
)

// ParseBranch maps a flag or env value to a Branch; empty means all
func ParseBranch(s string) (Branch, error) {
	switch b := Branch(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BranchAll, nil
	case BranchAll, BranchMap, BranchKeyness:
		return b, nil
	default:
		return "", perr.WithField(perr.InvalidArgf("unknown branch %q (all, map, keyness)", s), "branch")
	}
}

// Map reports whether the map branch runs
func (b Branch) Map() bool { return b == BranchAll || b == BranchMap }

// Keyness reports whether the keyness branch runs
func (b Branch) Keyness() bool { return b == BranchAll || b == BranchKeyness }

// MapResult is the output of the map branch
type MapResult struct {
	Sentiment []sentiment.DistrictSentiment
	Joined    []boundary.SpatialDistrictSentiment
}

// Report summarizes one run
// Map and Keyness are nil when their branch did not run
type Report struct {
	RunID     string
	Branch    Branch
	Responses int
	Map       *MapResult
	Keyness   *textstats.Result
	Artifacts []string
}

// Deps are the ports the runner drives, injected with modkit.WithPorts
// Renderer may be nil when figures are disabled
type Deps struct {
	Responses  survey.ResponsesPort
	Sentiment  sentiment.SentimentPort
	Boundaries boundary.LoaderPort
	Joiner     boundary.JoinerPort
	Keyness    textstats.KeynessPort
	Renderer   render.RendererPort
	Exporter   export.ExporterPort
}

// RunnerPort executes a whole run
type RunnerPort interface {
	Run(ctx context.Context) (Report, error)
}

// Ports exposed by the pipeline module
type Ports struct {
	Runner RunnerPort
}
