package config

import (
	"path/filepath"
	"reflect"
	"testing"

	kit "surveylens/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.Key("SURVEY_SOURCE"); got != "CORE_SURVEY_SOURCE" {
		t.Fatalf("Key() = %q", got)
	}
	if got := core.Prefix("KEYNESS_").Key("TOP"); got != "CORE_KEYNESS_TOP" {
		t.Fatalf("nested Key() = %q", got)
	}
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_INT", "20")
	t.Setenv("M_BADINT", "twenty")
	t.Setenv("M_B", "true")
	t.Setenv("M_BADB", "maybe")

	if got := c.MayInt("INT", 1); got != 20 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BADINT", 1); got != 1 {
		t.Fatalf("MayInt(bad) = %d", got)
	}
	if !c.MayBool("B", false) || !c.MayBool("BADB", true) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayString("UNSET", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
}

func TestMayPath(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_OUT", "out/../out/maps/")
	if got := c.MayPath("OUT", "x"); got != filepath.Clean("out/maps") {
		t.Fatalf("MayPath = %q", got)
	}
	if got := c.MayPath("UNSET", ""); got != "" {
		t.Fatalf("MayPath(empty default) = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_COLS", " open_response , ,  growth_comments ")
	t.Setenv("CSV_BLANK", " , , ")

	want := []string{"open_response", "growth_comments"}
	if got := c.MayCSV("COLS", nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("MayCSV = %v, want %v", got, want)
	}
	def := []string{"x"}
	if got := c.MayCSV("BLANK", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("MayCSV(blank) = %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	t.Setenv("E_MEASURE", "LR")
	if got := c.MayEnum("MEASURE", "chi2", "chi2", "lr", "pmi"); got != "lr" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("UNSET", "chi2", "chi2", "lr"); got != "chi2" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_BAD", "tfidf")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "chi2", "chi2", "lr") })
}
