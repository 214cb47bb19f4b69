package service

import (
	"surveylens/internal/services/boundary/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
)

// Joiner implements domain.JoinerPort
type Joiner struct{}

// Join is an inner merge on district; rows keep the boundary properties plus sentiment and matched
// Output follows the boundary order
func (Joiner) Join(ds []sentiment.DistrictSentiment, bs []domain.Boundary) []domain.SpatialDistrictSentiment {
	by := make(map[int]sentiment.DistrictSentiment, len(ds))
	for _, d := range ds {
		by[d.District] = d
	}
	out := make([]domain.SpatialDistrictSentiment, 0, min(len(ds), len(bs)))
	for _, b := range bs {
		d, ok := by[b.District]
		if !ok || b.Geometry == nil {
			continue
		}
		props := make(map[string]any, len(b.Properties)+2)
		for k, v := range b.Properties {
			props[k] = v
		}
		props["sentiment"] = d.Sentiment
		props["matched"] = d.Matched
		out = append(out, domain.SpatialDistrictSentiment{
			District:   b.District,
			Sentiment:  d.Sentiment,
			Matched:    d.Matched,
			Geometry:   b.Geometry,
			Properties: props,
		})
	}
	return out
}
