package normalize

import (
	"testing"
)

// Test table covers each stage and combined pipelines.
func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity ascii", "horse farms", "horse farms"},
		{"utf8 repair drops invalid bytes", string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), "foo bar"},
		{"case fold", "Horse FARMS", "horse farms"},
		{"remove zero-widths", "ho\u200Brse\u200D", "horse"},
		{"remove combining marks", "cafe\u0301", "cafe"},
		{"width fold fullwidth", "\uFF26\uFF21\uFF32\uFF2D land", "farm land"},
		{"nfkc ligature", "o\uFB03ce", "office"},
		{"digits kept", "district 12", "district 12"},
		{"collapse whitespace", "a\t\tb\nc   d", "a b c d"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if got2 := Fold(got); got2 != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, got2)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a b c"
	if got := CollapseSpaces(in); got != want {
		t.Fatalf("CollapseSpaces(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct{ in, out string }{
		{"clean text", "clean text"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"nul\x00del\x7f", "nuldel"},
		{"c1\u0085x", "c1x"},
		{string([]byte{'o', 'k', 0xfe}), "ok"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.out {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}

func TestColumnName(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Response ID", "response_id"},
		{"Likely Council District?", "likely_council_district"},
		{"  Open-Response (text) ", "open_response_text"},
		{"Cafe\u0301 Zone", "cafe_zone"},
		{"2nd Choice", "x2nd_choice"},
		{"%%%", "x"},
		{"", "x"},
		{"already_snake", "already_snake"},
	}
	for _, c := range cases {
		if got := ColumnName(c.in); got != c.out {
			t.Errorf("ColumnName(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}

func TestCleanNames_Dedupes(t *testing.T) {
	got := CleanNames([]string{"Name", "name", "NAME ", "name_2", ""})
	want := []string{"name", "name_2", "name_3", "name_2_2", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CleanNames = %#v, want %#v", got, want)
		}
	}
}
