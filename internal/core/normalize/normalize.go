// Package normalize provides deterministic text folding used for column names,
// phrase matching and survey cell cleanup
// Pipeline order
// 1 Sanitize control characters and drop invalid UTF-8
// 2 Unicode NFKD decomposition so accents become separate marks
// 3 Case folding
// 4 Remove combining marks and format characters
// 5 Width fold fullwidth to ASCII
// 6 NFC recomposition
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,
			norm.NFC,
		)
	},
}

// Fold returns the folded form of s following the pipeline described above
// Fold is idempotent
func Fold(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(Sanitize(s), "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return CollapseSpaces(ns)
}

// CollapseSpaces converts every whitespace run to a single ASCII space and trims the ends
func CollapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
