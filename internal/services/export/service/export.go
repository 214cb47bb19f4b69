package service

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	perr "surveylens/internal/platform/errors"
	boundary "surveylens/internal/services/boundary/domain"
	"surveylens/internal/services/export/domain"
	sentiment "surveylens/internal/services/sentiment/domain"
	textstats "surveylens/internal/services/textstats/domain"

	"github.com/paulmach/orb/geojson"
	"github.com/xuri/excelize/v2"
)

var (
	sentimentHeader = []string{"district", "sentiment", "matched"}
	keynessHeader   = []string{"rank", "feature", "score", "p", "target", "reference", "side"}
)

// Exporter implements domain.ExporterPort under Dir
type Exporter struct {
	Dir string
}

// New constructs an Exporter rooted at dir
func New(dir string) *Exporter { return &Exporter{Dir: dir} }

// Artifact writes any encoder (a rendered figure, usually) to Dir/name
func (e *Exporter) Artifact(name string, wt io.WriterTo) (string, error) {
	return writeAtomic(e.Dir, name, wt)
}

// Sentiment writes district_sentiment.csv
func (e *Exporter) Sentiment(rows []sentiment.DistrictSentiment) (string, error) {
	return writeAtomic(e.Dir, domain.SentimentCSV, writerFunc(func(w io.Writer) error {
		cw := csv.NewWriter(w)
		_ = cw.Write(sentimentHeader)
		for _, r := range rows {
			_ = cw.Write([]string{strconv.Itoa(r.District), formatFloat(r.Sentiment), strconv.Itoa(r.Matched)})
		}
		cw.Flush()
		return cw.Error()
	}))
}

// Keyness writes keyness.csv with every ranked feature
func (e *Exporter) Keyness(res textstats.Result) (string, error) {
	return writeAtomic(e.Dir, domain.KeynessCSV, writerFunc(func(w io.Writer) error {
		cw := csv.NewWriter(w)
		_ = cw.Write(keynessHeader)
		for i, t := range res.Ranked {
			_ = cw.Write([]string{
				strconv.Itoa(i + 1),
				t.Feature,
				formatFloat(t.Score),
				formatFloat(t.P),
				strconv.Itoa(t.Target),
				strconv.Itoa(t.Reference),
				string(t.Side),
			})
		}
		cw.Flush()
		return cw.Error()
	}))
}

// GeoJSON writes the joined rows as a FeatureCollection
// Properties are the boundary's plus district, sentiment and matched
func (e *Exporter) GeoJSON(rows []boundary.SpatialDistrictSentiment) (string, error) {
	fc := geojson.NewFeatureCollection()
	for _, r := range rows {
		f := geojson.NewFeature(r.Geometry)
		for k, v := range r.Properties {
			f.Properties[k] = v
		}
		f.Properties["district"] = r.District
		f.Properties["sentiment"] = r.Sentiment
		f.Properties["matched"] = r.Matched
		fc.Append(f)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "encode geojson"), "export.GeoJSON")
	}
	return writeAtomic(e.Dir, domain.SentimentGeoJSON, writerFunc(func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}))
}

// Workbook writes district_sentiment.xlsx; the keyness sheet is added when res is set
func (e *Exporter) Workbook(rows []sentiment.DistrictSentiment, res *textstats.Result) (string, error) {
	const op = "export.Workbook"
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), domain.SheetSentiment); err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "name sheet"), op)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "header style"), op)
	}

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{r.District, cellFloat(r.Sentiment), r.Matched})
	}
	if err := writeSheet(f, domain.SheetSentiment, sentimentHeader, data, bold); err != nil {
		return "", perr.WithOp(err, op)
	}

	if res != nil {
		if _, err := f.NewSheet(domain.SheetKeyness); err != nil {
			return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "add keyness sheet"), op)
		}
		data = data[:0]
		for i, t := range res.Ranked {
			data = append(data, []any{i + 1, t.Feature, cellFloat(t.Score), cellFloat(t.P), t.Target, t.Reference, string(t.Side)})
		}
		if err := writeSheet(f, domain.SheetKeyness, keynessHeader, data, bold); err != nil {
			return "", perr.WithOp(err, op)
		}
	}
	return writeAtomic(e.Dir, domain.SentimentXLSX, writerFunc(func(w io.Writer) error { return f.Write(w) }))
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, style int) error {
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s header", sheet)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "style %s header", sheet)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "cell for row %d", i+2)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s row %d", sheet, i+2)
		}
	}
	err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return perr.WrapIf(err, perr.ErrorCodeUnknown, "freeze header of "+sheet)
}

// formatFloat renders NaN as an empty field
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// cellFloat leaves NaN cells empty and spells out infinities
func cellFloat(v float64) any {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 0):
		return formatFloat(v)
	default:
		return v
	}
}
