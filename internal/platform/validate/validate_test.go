package validate

import (
	"testing"

	perr "surveylens/internal/platform/errors"
	kit "surveylens/internal/platform/testkit"
)

type sample struct {
	Source  string `env:"CORE_X_SOURCE" validate:"source"`
	Top     int    `env:"CORE_X_TOP" validate:"min=1,max=100"`
	Measure string `env:"CORE_X_MEASURE" validate:"oneof=chi2 lr pmi"`
	Plain   string `validate:"required"`
}

func good() sample {
	return sample{Source: "data/survey.csv", Top: 20, Measure: "chi2", Plain: "x"}
}

func TestStruct_OK(t *testing.T) {
	if err := Struct("test", good()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := good()
	s.Source = "https://example.org/afinn.txt"
	if err := Struct("test", s); err != nil {
		t.Fatalf("url source rejected: %v", err)
	}
}

func TestStruct_FieldAndCode(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*sample)
		field string
		msg   string
	}{
		{"blank source", func(s *sample) { s.Source = "  " }, "CORE_X_SOURCE", "file path or an http(s) URL"},
		{"ftp source", func(s *sample) { s.Source = "ftp://host/x" }, "CORE_X_SOURCE", "http(s) URL"},
		{"top low", func(s *sample) { s.Top = 0 }, "CORE_X_TOP", "at least 1"},
		{"top high", func(s *sample) { s.Top = 101 }, "CORE_X_TOP", "at most 100"},
		{"measure", func(s *sample) { s.Measure = "tfidf" }, "CORE_X_MEASURE", "one of [chi2 lr pmi]"},
		{"no env tag", func(s *sample) { s.Plain = "" }, "Plain", "Plain"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := good()
			c.mut(&s)
			err := Struct("options", s)
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
			e, _ := perr.As(err)
			if e.Field() != c.field || e.Op() != "options" {
				t.Fatalf("field=%q op=%q", e.Field(), e.Op())
			}
			kit.MustContain(t, err.Error(), c.msg)
		})
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("got %q %q", f, m)
	}
}
