// Package domain defines the core types and interfaces for the boundary service
package domain

import (
	"context"

	sentiment "surveylens/internal/services/sentiment/domain"

	"github.com/paulmach/orb"
)

// Boundary is one district polygon with its source attributes
type Boundary struct {
	District   int
	Geometry   orb.Geometry
	Properties map[string]any
}

// SpatialDistrictSentiment is a DistrictSentiment joined to its polygon
// Geometry is never nil
type SpatialDistrictSentiment struct {
	District   int
	Sentiment  float64
	Matched    int
	Geometry   orb.Geometry
	Properties map[string]any
}

// LoadStats counts features kept and dropped while loading
type LoadStats struct {
	Features   int
	Kept       int
	NoKey      int
	NoGeometry int
	Duplicate  int
}

// LoaderPort reads district boundaries
type LoaderPort interface {
	Load(ctx context.Context) ([]Boundary, error)
}

// JoinerPort merges sentiment rows onto boundaries
type JoinerPort interface {
	Join(ds []sentiment.DistrictSentiment, bs []Boundary) []SpatialDistrictSentiment
}

// Ports exposed by the boundary module
type Ports struct {
	Loader LoaderPort
	Joiner JoinerPort
}
