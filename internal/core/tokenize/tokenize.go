// Package tokenize splits free text into word tokens
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token is one word occurrence in a token stream
// Position counts from 1 across the whole stream, not per document
type Token struct {
	Position int
	District int
	Word     string
}

// Doc is one text tagged with its district
type Doc struct {
	District int
	Text     string
}

// isWord reports whether r belongs inside a word: letters, numbers and combining marks
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }

// Words returns the word tokens of s in order
// An apostrophe between two letters stays in the word and is written as '
// Everything else that is not a word rune separates tokens
func Words(s string, lower bool) []string {
	if s == "" {
		return nil
	}
	var (
		out []string
		b   strings.Builder
		prv rune
	)
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for i, r := range s {
		switch {
		case isWord(r):
			b.WriteRune(r)
		case isApostrophe(r) && unicode.IsLetter(prv) && b.Len() > 0 && letterAt(s, i+utf8.RuneLen(r)):
			b.WriteByte('\'')
		default:
			flush()
		}
		prv = r
	}
	flush()

	if lower {
		c := cases.Lower(language.Und)
		for i, w := range out {
			out[i] = c.String(w)
		}
	}
	return out
}

func letterAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

// Stream tokenizes docs in order into one token stream with monotonically increasing positions
func Stream(docs []Doc, lower bool) []Token {
	var out []Token
	pos := 0
	for _, d := range docs {
		for _, w := range Words(d.Text, lower) {
			pos++
			out = append(out, Token{Position: pos, District: d.District, Word: w})
		}
	}
	return out
}
