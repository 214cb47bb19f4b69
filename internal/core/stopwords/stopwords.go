// Package stopwords provides the embedded English stopword list used by the corpus tokenizer
package stopwords

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
	"sync"
)

//go:embed english.txt
var englishRaw []byte

var (
	englishOnce sync.Once
	english     []string
)

// English returns a copy of the embedded list, in file order
func English() []string {
	englishOnce.Do(func() { english = parse(englishRaw) })
	return append([]string(nil), english...)
}

func parse(raw []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

// Set is a lookup over lowercase stopwords
type Set map[string]struct{}

// NewSet builds a Set from the English list plus extra words (lowercased, trimmed)
func NewSet(extra ...string) Set {
	s := Set{}
	for _, w := range English() {
		s[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether w is a stopword; w must already be lowercase
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}
