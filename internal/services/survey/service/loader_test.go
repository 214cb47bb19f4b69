package service

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	kit "surveylens/internal/platform/testkit"
	"surveylens/internal/services/survey/domain"

	"github.com/xuri/excelize/v2"
)

const surveyCSV = "\xef\xbb\xbfResponse ID,Likely Council District,Open Response\n" +
	"r1,12,too much development near the horse farms\n" +
	"r2,12,\"love the farms\"\n" +
	"r3,\"5,7\",traffic is bad\n" +
	"r4,3\n"

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func xlsxBytes(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatal(err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipBytes(t *testing.T, files map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newLoader(t *testing.T) *Loader {
	return NewLoader(fetch.New(t.TempDir()))
}

func TestLoad_CSV(t *testing.T) {
	p := writeFile(t, "survey.csv", []byte(surveyCSV))
	tbl, err := newLoader(t).Load(context.Background(), domain.Source{Location: p})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"response_id", "likely_council_district", "open_response"}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Fatalf("columns %v", tbl.Columns)
		}
	}
	if tbl.RawColumns[0] != "Response ID" {
		t.Fatalf("BOM not stripped from raw header: %q", tbl.RawColumns[0])
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("rows %d", len(tbl.Rows))
	}
	if tbl.Rows[2][1] != "5,7" {
		t.Fatalf("quoted cell %q", tbl.Rows[2][1])
	}
	// short row padded
	if len(tbl.Rows[3]) != 3 || tbl.Rows[3][2] != "" {
		t.Fatalf("short row %#v", tbl.Rows[3])
	}
}

func TestLoad_XLSXNamedSheet(t *testing.T) {
	b := xlsxBytes(t, "Responses", [][]any{
		{"Response ID", "Likely Council District", "Open Response"},
		{"r1", 12, "love the farms"},
	})
	p := writeFile(t, "survey.xlsx", b)

	tbl, err := newLoader(t).Load(context.Background(), domain.Source{Location: p, Sheet: "Responses"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][1] != "12" || tbl.Rows[0][2] != "love the farms" {
		t.Fatalf("rows %#v", tbl.Rows)
	}

	// default is the first sheet
	if _, err := newLoader(t).Load(context.Background(), domain.Source{Location: p}); err != nil {
		t.Fatalf("default sheet: %v", err)
	}

	_, err = newLoader(t).Load(context.Background(), domain.Source{Location: p, Sheet: "Nope"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found for missing sheet, got %v", err)
	}
}

func TestLoad_ZIPMembers(t *testing.T) {
	files := map[string][]byte{
		"README.txt":         []byte("not a table"),
		"export/survey.csv":  []byte(surveyCSV),
		"export/survey.xlsx": xlsxBytes(t, "Sheet1", [][]any{{"Response ID"}, {"x1"}}),
	}
	p := writeFile(t, "export.zip", zipBytes(t, files, []string{"README.txt", "export/survey.csv", "export/survey.xlsx"}))
	l := newLoader(t)

	// first csv/xlsx member
	tbl, err := l.Load(context.Background(), domain.Source{Location: p})
	if err != nil || len(tbl.Rows) != 4 {
		t.Fatalf("first member: %v rows=%d", err, len(tbl.Rows))
	}

	// named by base name
	tbl, err = l.Load(context.Background(), domain.Source{Location: p, Member: "survey.xlsx"})
	if err != nil || len(tbl.Rows) != 1 || tbl.Rows[0][0] != "x1" {
		t.Fatalf("named member: %v %#v", err, tbl.Rows)
	}

	_, err = l.Load(context.Background(), domain.Source{Location: p, Member: "missing.csv"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestLoad_RemoteSniffsFormat(t *testing.T) {
	up := kit.NewUpstream(t, map[string][]byte{"/download": []byte(surveyCSV)})
	tbl, err := newLoader(t).Load(context.Background(), domain.Source{Location: up.URLFor("/download")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("rows %d", len(tbl.Rows))
	}
}

func TestLoad_Errors(t *testing.T) {
	l := newLoader(t)

	_, err := l.Load(context.Background(), domain.Source{Location: filepath.Join(t.TempDir(), "none.csv")})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	p := writeFile(t, "empty.csv", []byte("\n,,\n"))
	_, err = l.Load(context.Background(), domain.Source{Location: p})
	if !perr.IsCode(err, perr.ErrorCodeParse) {
		t.Fatalf("want parse error for headerless csv, got %v", err)
	}
}

func TestFormatOf(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		want format
	}{
		{"a.CSV", nil, formatCSV},
		{"https://host/a.xlsx?dl=1", nil, formatXLSX},
		{"a.zip", nil, formatZIP},
		{"blob", []byte("PK\x03\x04....xl/workbook.xml"), formatXLSX},
		{"blob", []byte("PK\x03\x04....data.csv"), formatZIP},
		{"blob", []byte("a,b\n1,2\n"), formatCSV},
		{"blob", []byte("  \n"), formatUnknown},
	}
	for _, c := range cases {
		if got := formatOf(c.name, c.b); got != c.want {
			t.Errorf("formatOf(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
