package service

import (
	"strings"

	"surveylens/internal/core/district"
	"surveylens/internal/core/normalize"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/services/survey/domain"
)

// Extractor implements domain.ExtractorPort
type Extractor struct{}

// NewExtractor constructs an Extractor
func NewExtractor() *Extractor { return &Extractor{} }

// Extract reshapes t into one Response per (row, text column) with non-empty trimmed text
// Column names are matched after the same normalization the loader applies
// A missing column is a validation error; bad rows are only counted
func (Extractor) Extract(t domain.Table, cols domain.Columns) ([]domain.Response, domain.ExtractStats, error) {
	const op = "survey.Extract"
	var st domain.ExtractStats

	idIdx, err := column(t, cols.ID, "id_column")
	if err != nil {
		return nil, st, perr.WithOp(err, op)
	}
	dIdx, err := column(t, cols.District, "district_column")
	if err != nil {
		return nil, st, perr.WithOp(err, op)
	}
	if len(cols.Text) == 0 {
		return nil, st, perr.WithOp(perr.WithField(perr.Validationf("at least one text column is required"), "text_columns"), op)
	}
	type textCol struct {
		idx   int
		topic string
	}
	texts := make([]textCol, 0, len(cols.Text))
	for _, name := range cols.Text {
		i, err := column(t, name, "text_columns")
		if err != nil {
			return nil, st, perr.WithOp(err, op)
		}
		texts = append(texts, textCol{idx: i, topic: t.Columns[i]})
	}

	out := make([]domain.Response, 0, len(t.Rows)*len(texts))
	for r, row := range t.Rows {
		st.Rows++
		if blank(row) {
			st.BlankRows++
			continue
		}
		rawD := strings.TrimSpace(row[dIdx])
		code := district.Parse(rawD)
		for _, tc := range texts {
			text := strings.TrimSpace(row[tc.idx])
			if text == "" {
				st.EmptyText++
				continue
			}
			switch code.Kind() {
			case district.Single:
				st.SingleRows++
			case district.Combined:
				st.Combined++
			default:
				st.Unknown++
			}
			out = append(out, domain.Response{
				RespondentID: strings.TrimSpace(row[idIdx]),
				District:     code,
				RawDistrict:  rawD,
				Topic:        tc.topic,
				Text:         text,
				Ordinal:      r + 1,
			})
		}
	}
	st.Responses = len(out)
	return out, st, nil
}

func column(t domain.Table, name, field string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return -1, perr.WithField(perr.Validationf("%s is required", field), field)
	}
	want := normalize.ColumnName(name)
	if i := t.Index(want); i >= 0 {
		return i, nil
	}
	return -1, perr.WithField(perr.Validationf("column %q not found in survey export (have %s)", want, strings.Join(t.Columns, ", ")), field)
}
