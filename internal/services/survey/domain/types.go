// Package domain defines the core types and interfaces for the survey service
package domain

import (
	"context"

	"surveylens/internal/core/district"
)

// Source locates a survey export
// Location is a file path or http(s) URL. Member picks a file inside a ZIP,
// Sheet picks a worksheet inside an XLSX; both are optional
type Source struct {
	Location string
	Member   string
	Sheet    string
}

// Table is a loaded export with normalized column names
// Every row has exactly len(Columns) cells
type Table struct {
	Columns    []string
	RawColumns []string
	Rows       [][]string
}

// Index returns the position of a normalized column name or -1
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Columns names the fields the extractor reads, by normalized column name
type Columns struct {
	ID       string
	District string
	Text     []string
}

// Response is one non-empty open response in long format
// Ordinal is the 1-based data row the response came from
type Response struct {
	RespondentID string
	District     district.Code
	RawDistrict  string
	Topic        string
	Text         string
	Ordinal      int
}

// ExtractStats counts what Extract kept and dropped
type ExtractStats struct {
	Rows       int
	Responses  int
	EmptyText  int
	BlankRows  int
	Unknown    int
	Combined   int
	SingleRows int
}

// LoaderPort reads a survey export into a Table
type LoaderPort interface {
	Load(ctx context.Context, src Source) (Table, error)
}

// ExtractorPort reshapes a Table into responses
type ExtractorPort interface {
	Extract(t Table, cols Columns) ([]Response, ExtractStats, error)
}

// Ports exposed by the survey module
type Ports struct {
	Loader    LoaderPort
	Extractor ExtractorPort
	Responses ResponsesPort
}

// ResponsesPort loads and extracts the configured export in one step
type ResponsesPort interface {
	Responses(ctx context.Context) ([]Response, error)
}
