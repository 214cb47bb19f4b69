package normalize

import (
	"strconv"
	"strings"
	"unicode"
)

// ColumnName maps a raw header to snake_case ascii-ish form
// "Likely Council District?" -> "likely_council_district"
// Leading digits get an x prefix, blank names become "x"
func ColumnName(raw string) string {
	f := Fold(raw)
	var b strings.Builder
	b.Grow(len(f))
	sep := false
	for _, r := range f {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	out := b.String()
	if out == "" {
		return "x"
	}
	if r := []rune(out)[0]; unicode.IsDigit(r) {
		out = "x" + out
	}
	return out
}

// CleanNames normalizes every header and makes the result unique
// The second "a" becomes "a_2", the third "a_3" and so on
func CleanNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]struct{}, len(raw))
	for i, h := range raw {
		base := ColumnName(h)
		name := base
		if _, dup := taken[name]; dup {
			n := seen[base]
			if n < 1 {
				n = 1
			}
			for {
				n++
				name = base + "_" + strconv.Itoa(n)
				if _, clash := taken[name]; !clash {
					break
				}
			}
			seen[base] = n
		} else {
			seen[base] = 1
		}
		taken[name] = struct{}{}
		out[i] = name
	}
	return out
}
