package module

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"surveylens/internal/modkit"
	"surveylens/internal/platform/config"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/services/survey/domain"
)

func TestFromConfig_Defaults(t *testing.T) {
	t.Setenv("CORE_SURVEY_SOURCE", "data/survey.zip")
	o := FromConfig(config.New())
	if o.Source != "data/survey.zip" || o.IDColumn != "response_id" ||
		o.DistrictColumn != "likely_council_district" || len(o.TextColumns) != 1 || o.TextColumns[0] != "open_response" {
		t.Fatalf("defaults %+v", o)
	}

	t.Setenv("CORE_SURVEY_TEXT_COLUMNS", "open_response, other_comments")
	if o = FromConfig(config.New()); len(o.TextColumns) != 2 || o.TextColumns[1] != "other_comments" {
		t.Fatalf("csv text columns %+v", o.TextColumns)
	}
}

func TestNew_ValidatesSource(t *testing.T) {
	t.Setenv("CORE_SURVEY_SOURCE", "")
	_, err := New(modkit.Deps{Cfg: config.New()}, Options{})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "CORE_SURVEY_SOURCE" {
		t.Fatalf("field %q", e.Field())
	}
}

func TestNew_OverridesAndResponses(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "s.csv")
	csv := "Response ID,Ward,Comment\nr1,12,love the farms\nr2,3,  \n"
	if err := os.WriteFile(p, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CORE_FETCH_CACHE_DIR", filepath.Join(dir, "cache"))

	m, err := New(modkit.Deps{Cfg: config.New()}, Options{
		Source:         p,
		DistrictColumn: "Ward",
		TextColumns:    []string{"comment", "comment"},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := m.Options().TextColumns; len(got) != 1 {
		t.Fatalf("text columns not deduped: %v", got)
	}
	ports := m.Ports().(domain.Ports)
	rs, err := ports.Responses.Responses(context.Background())
	if err != nil {
		t.Fatalf("responses: %v", err)
	}
	if len(rs) != 1 || rs[0].Text != "love the farms" || rs[0].Topic != "comment" {
		t.Fatalf("responses %+v", rs)
	}
	if m.Name() != "survey" {
		t.Fatalf("name %q", m.Name())
	}
}
