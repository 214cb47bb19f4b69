package module

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"surveylens/internal/modkit"
	"surveylens/internal/platform/config"
	perr "surveylens/internal/platform/errors"
	kit "surveylens/internal/platform/testkit"
	"surveylens/internal/services/pipeline/domain"
)

const surveyCSV = "Response ID,Likely Council District,Open Response\n" +
	"1,12,too much development near the horse farms\n" +
	"2,3,the roads are bad\n" +
	"3,12,love the farms\n" +
	"4,\"5,7\",love love love\n" +
	"5,3,   \n" +
	"6,NA,love\n" +
	"7,3,fix the roads\n"

const lexiconTSV = "love\t3\ndevelopment\t-1\nbad\t-3\n"

const boundariesJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"DISTRICT":3,"NAME":"Three"},"geometry":{"type":"Polygon","coordinates":[[[-84.6,38.0],[-84.5,38.0],[-84.5,38.1],[-84.6,38.1],[-84.6,38.0]]]}},
 {"type":"Feature","properties":{"DISTRICT":"12","NAME":"Twelve"},"geometry":{"type":"Polygon","coordinates":[[[-84.5,38.0],[-84.4,38.0],[-84.4,38.1],[-84.5,38.1],[-84.5,38.0]]]}},
 {"type":"Feature","properties":{"DISTRICT":5,"NAME":"Five"},"geometry":{"type":"Polygon","coordinates":[[[-84.4,38.0],[-84.3,38.0],[-84.3,38.1],[-84.4,38.1],[-84.4,38.0]]]}}
]}`

func fixture(t *testing.T) string {
	t.Helper()
	up := kit.NewUpstream(t, map[string][]byte{
		"/survey.csv":      []byte(surveyCSV),
		"/afinn.txt":       []byte(lexiconTSV),
		"/council.geojson": []byte(boundariesJSON),
	})
	out := filepath.Join(t.TempDir(), "out")
	t.Setenv("CORE_SURVEY_SOURCE", up.URLFor("/survey.csv"))
	t.Setenv("CORE_LEXICON_SOURCE", up.URLFor("/afinn.txt"))
	t.Setenv("CORE_BOUNDARY_SOURCE", up.URLFor("/council.geojson"))
	t.Setenv("CORE_KEYNESS_TARGET", "12")
	t.Setenv("CORE_KEYNESS_COMPOUNDS", "horse farms")
	t.Setenv("CORE_FETCH_CACHE_DIR", filepath.Join(t.TempDir(), "cache"))
	t.Setenv("CORE_OUTPUT_DIR", out)
	return out
}

func TestAssemble_RunAll(t *testing.T) {
	out := fixture(t)
	m, err := Assemble(modkit.Deps{Cfg: config.New()}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	rep, err := m.Ports().(domain.Ports).Runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Branch != domain.BranchAll || rep.RunID == "" {
		t.Fatalf("report %+v", rep)
	}
	// whitespace-only text is dropped by the extractor
	if rep.Responses != 6 {
		t.Fatalf("responses %d", rep.Responses)
	}
	if len(rep.Map.Joined) != 2 || rep.Keyness.Target != 12 {
		t.Fatalf("map %+v keyness %+v", rep.Map, rep.Keyness)
	}

	f, err := os.Open(filepath.Join(out, "district_sentiment.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"district", "sentiment", "matched"},
		{"3", "-3", "1"},
		{"12", "1", "2"},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("district_sentiment.csv = %v", recs)
	}
	for _, name := range []string{"district_sentiment.xlsx", "district_sentiment.geojson", "keyness.csv", "sentiment_map.png", "sentiment_scatter.png", "keyness.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	out := fixture(t)
	t.Setenv("CORE_RENDER_ENABLED", "false")
	read := func() (string, string) {
		m, err := Assemble(modkit.Deps{Cfg: config.New()}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Ports().(domain.Ports).Runner.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		a, _ := os.ReadFile(filepath.Join(out, "district_sentiment.geojson"))
		b, _ := os.ReadFile(filepath.Join(out, "keyness.csv"))
		return string(a), string(b)
	}
	g1, k1 := read()
	g2, k2 := read()
	if g1 != g2 || k1 != k2 {
		t.Fatalf("outputs differ between identical runs")
	}
	if _, err := os.Stat(filepath.Join(out, "sentiment_map.png")); !os.IsNotExist(err) {
		t.Fatalf("render disabled but map exists")
	}
}

func TestAssemble_KeynessNeedsTarget(t *testing.T) {
	fixture(t)
	t.Setenv("CORE_KEYNESS_TARGET", "")
	m, err := Assemble(modkit.Deps{Cfg: config.New()}, Options{Branch: "keyness"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Ports().(domain.Ports).Runner.Run(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) || perr.ExitCode(err) != 2 {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestNew_Wiring(t *testing.T) {
	if _, err := New(modkit.Deps{Cfg: config.New()}, Options{}); err == nil {
		t.Fatalf("expected error without ports")
	}
	if _, err := New(modkit.Deps{Cfg: config.New()}, Options{Branch: "map"}, modkit.WithPorts(domain.Deps{})); err == nil {
		t.Fatalf("expected error with empty deps")
	}
	t.Setenv("CORE_PIPELINE_BRANCH", "Map")
	if o := FromConfig(config.New()); o.Branch != "map" {
		t.Fatalf("branch %q", o.Branch)
	}
}
