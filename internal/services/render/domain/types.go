// Package domain defines the core types and interfaces for the render service
package domain

import (
	"io"

	"surveylens/internal/core/keyness"
	boundary "surveylens/internal/services/boundary/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
)

// RendererPort draws the pipeline's figures into encoders the caller writes out
// format is a file extension without the dot (png, svg, pdf, jpg)
type RendererPort interface {
	Map(rows []boundary.SpatialDistrictSentiment, format string) (io.WriterTo, error)
	Scatter(rows []sentiment.DistrictSentiment, format string) (io.WriterTo, error)
	Keyness(terms []keyness.Term, target int, format string) (io.WriterTo, error)
}

// Ports exposed by the render module
type Ports struct {
	Renderer RendererPort
}
