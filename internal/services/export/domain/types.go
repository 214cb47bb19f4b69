// Package domain defines the core types and interfaces for the export service
package domain

import (
	"io"

	boundary "surveylens/internal/services/boundary/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
	textstats "surveylens/internal/services/textstats/domain"
)

// Artifact file names under the output directory
const (
	SentimentCSV     = "district_sentiment.csv"
	SentimentXLSX    = "district_sentiment.xlsx"
	SentimentGeoJSON = "district_sentiment.geojson"
	KeynessCSV       = "keyness.csv"
	ScatterPNG       = "sentiment_scatter.png"
	MapPNG           = "sentiment_map.png"
	KeynessPNG       = "keyness.png"
)

// Sheet names inside the workbook
const (
	SheetSentiment = "district_sentiment"
	SheetKeyness   = "keyness"
)

// ExporterPort writes run outputs; every method returns the written path
type ExporterPort interface {
	Sentiment(rows []sentiment.DistrictSentiment) (string, error)
	Keyness(res textstats.Result) (string, error)
	GeoJSON(rows []boundary.SpatialDistrictSentiment) (string, error)
	Workbook(rows []sentiment.DistrictSentiment, res *textstats.Result) (string, error)
	Artifact(name string, wt io.WriterTo) (string, error)
}

// Ports exposed by the export module
type Ports struct {
	Exporter ExporterPort
}
