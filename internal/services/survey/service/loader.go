// Package service implements the survey loader and extractor
package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"surveylens/internal/core/normalize"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"
	"surveylens/internal/services/survey/domain"

	"github.com/xuri/excelize/v2"
)

type format uint8

const (
	formatUnknown format = iota
	formatCSV
	formatXLSX
	formatZIP
)

// Loader implements domain.LoaderPort over a fetcher
type Loader struct {
	Fetch *fetch.Fetcher
}

// NewLoader constructs a Loader
func NewLoader(f *fetch.Fetcher) *Loader { return &Loader{Fetch: f} }

// Load resolves the source and decodes it by extension, falling back to content sniffing
func (l *Loader) Load(ctx context.Context, src domain.Source) (domain.Table, error) {
	const op = "survey.Load"
	b, err := l.Fetch.Bytes(ctx, src.Location)
	if err != nil {
		return domain.Table{}, perr.WithOp(err, op)
	}
	t, err := decode(b, formatOf(src.Location, b), src)
	if err != nil {
		return domain.Table{}, perr.WithOp(err, op)
	}
	logger.C(ctx).Info().
		Str("source", src.Location).
		Int("columns", len(t.Columns)).
		Int("rows", len(t.Rows)).
		Msg("survey loaded")
	return t, nil
}

func decode(b []byte, f format, src domain.Source) (domain.Table, error) {
	switch f {
	case formatCSV:
		return decodeCSV(b)
	case formatXLSX:
		return decodeXLSX(b, src.Sheet)
	case formatZIP:
		return decodeZIP(b, src)
	default:
		return domain.Table{}, perr.Parsef("unrecognized survey format for %s", src.Location)
	}
}

// formatOf prefers the extension; XLSX is itself a zip so sniffing checks for a workbook part
func formatOf(name string, b []byte) format {
	if u := strings.ToLower(name); strings.Contains(u, "://") {
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			name = u[:i]
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return formatCSV
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".zip":
		return formatZIP
	}
	if bytes.HasPrefix(b, []byte("PK\x03\x04")) {
		if bytes.Contains(b, []byte("xl/workbook.xml")) {
			return formatXLSX
		}
		return formatZIP
	}
	if len(bytes.TrimSpace(b)) > 0 {
		return formatCSV
	}
	return formatUnknown
}

func decodeCSV(b []byte) (domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, perr.Wrap(err, perr.ErrorCodeParse, "decode csv")
		}
		records = append(records, rec)
	}
	return buildTable(records)
}

func decodeXLSX(b []byte, sheet string) (domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return domain.Table{}, perr.Wrap(err, perr.ErrorCodeParse, "open xlsx")
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.Table{}, perr.Parsef("xlsx has no worksheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, perr.WithField(perr.Wrapf(err, perr.ErrorCodeNotFound, "read sheet %q", sheet), "sheet")
	}
	return buildTable(rows)
}

func decodeZIP(b []byte, src domain.Source) (domain.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return domain.Table{}, perr.Wrap(err, perr.ErrorCodeParse, "open zip")
	}
	zf := pickMember(zr.File, src.Member)
	if zf == nil {
		if src.Member != "" {
			return domain.Table{}, perr.WithField(perr.NotFoundf("zip member %q not found", src.Member), "member")
		}
		return domain.Table{}, perr.NotFoundf("zip has no .csv or .xlsx member")
	}
	rc, err := zf.Open()
	if err != nil {
		return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeParse, "open zip member %s", zf.Name)
	}
	defer func() { _ = rc.Close() }()
	inner, err := io.ReadAll(rc)
	if err != nil {
		return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeParse, "read zip member %s", zf.Name)
	}

	f := formatOf(zf.Name, inner)
	if f == formatZIP {
		return domain.Table{}, perr.Parsef("nested archive %s is not supported", zf.Name)
	}
	return decode(inner, f, domain.Source{Location: zf.Name, Sheet: src.Sheet})
}

// pickMember returns the named member (exact path or base name), else the first csv/xlsx
func pickMember(files []*zip.File, want string) *zip.File {
	if want != "" {
		for _, f := range files {
			if f.Name == want || path.Base(f.Name) == want {
				return f
			}
		}
		return nil
	}
	for _, f := range files {
		if f.FileInfo().IsDir() || strings.HasPrefix(path.Base(f.Name), ".") || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".csv", ".xlsx":
			return f
		}
	}
	return nil
}

// buildTable takes the first non-blank record as header and pads or truncates rows to it
func buildTable(records [][]string) (domain.Table, error) {
	h := -1
	for i, rec := range records {
		if !blank(rec) {
			h = i
			break
		}
	}
	if h < 0 {
		return domain.Table{}, perr.Parsef("survey export has no header row")
	}

	raw := append([]string(nil), records[h]...)
	for i := range raw {
		raw[i] = normalize.Sanitize(raw[i])
	}
	t := domain.Table{
		Columns:    normalize.CleanNames(raw),
		RawColumns: raw,
		Rows:       make([][]string, 0, len(records)-h-1),
	}
	n := len(t.Columns)
	for _, rec := range records[h+1:] {
		row := make([]string, n)
		for i := 0; i < n && i < len(rec); i++ {
			row[i] = normalize.Sanitize(rec[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
