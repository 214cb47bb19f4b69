package service

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"surveylens/internal/core/normalize"
	"surveylens/internal/core/tokenize"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"

	"gopkg.in/yaml.v3"
)

// phraseFile is the mapping form of a phrase file; a bare YAML list is accepted too
type phraseFile struct {
	Phrases []string `yaml:"phrases"`
}

// ParsePhrases reads a YAML phrase list, either `- horse farm` items or `phrases: [...]`
func ParsePhrases(b []byte) ([]string, error) {
	const op = "textstats.ParsePhrases"
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeParse, "phrase file is not valid yaml"), op)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	doc := node.Content[0]

	var out []string
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&out); err != nil {
			return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeParse, "phrase list must be strings"), op)
		}
	case yaml.MappingNode:
		var pf phraseFile
		if err := doc.Decode(&pf); err != nil {
			return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeParse, "phrases must be a list of strings"), op)
		}
		out = pf.Phrases
	default:
		return nil, perr.WithOp(perr.Parsef("phrase file must be a list or a mapping with a phrases key"), op)
	}
	return out, nil
}

// LoadPhrases fetches a phrase file (path or URL) and parses it; an empty src yields nothing
func LoadPhrases(ctx context.Context, f *fetch.Fetcher, src string) ([]string, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	b, err := f.Bytes(ctx, src)
	if err != nil {
		return nil, perr.WithOp(err, "textstats.LoadPhrases")
	}
	return ParsePhrases(b)
}

// Compounder collapses configured multi-word phrases into single tokens joined by "_"
type Compounder struct {
	// longest first, ties by joined form
	phrases [][]string
}

// NewCompounder folds and tokenizes phrases; single-word and duplicate phrases are dropped
func NewCompounder(phrases []string) *Compounder {
	seen := map[string]bool{}
	c := &Compounder{}
	for _, p := range phrases {
		words := tokenize.Words(normalize.Fold(p), true)
		if len(words) < 2 {
			continue
		}
		key := strings.Join(words, "_")
		if seen[key] {
			continue
		}
		seen[key] = true
		c.phrases = append(c.phrases, words)
	}
	sort.SliceStable(c.phrases, func(i, j int) bool {
		if len(c.phrases[i]) != len(c.phrases[j]) {
			return len(c.phrases[i]) > len(c.phrases[j])
		}
		return strings.Join(c.phrases[i], "_") < strings.Join(c.phrases[j], "_")
	})
	return c
}

// Len is the number of usable phrases
func (c *Compounder) Len() int {
	if c == nil {
		return 0
	}
	return len(c.phrases)
}

// Apply scans words left to right and replaces the longest matching phrase at each
// position with its compound; comparison is on folded forms
func (c *Compounder) Apply(words []string) []string {
	if c.Len() == 0 || len(words) < 2 {
		return words
	}
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = normalize.Fold(w)
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if p := c.match(folded[i:]); p != nil {
			out = append(out, strings.Join(p, "_"))
			i += len(p)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func (c *Compounder) match(rest []string) []string {
	for _, p := range c.phrases {
		if len(p) > len(rest) {
			continue
		}
		ok := true
		for k, w := range p {
			if rest[k] != w {
				ok = false
				break
			}
		}
		if ok {
			return p
		}
	}
	return nil
}
