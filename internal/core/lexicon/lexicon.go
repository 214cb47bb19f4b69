// Package lexicon holds a read-only word -> integer valence table in AFINN form
package lexicon

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	perr "surveylens/internal/platform/errors"
)

// Score bounds for AFINN style lexicons
const (
	MinScore = -5
	MaxScore = 5
)

// Lexicon is immutable after Parse
type Lexicon struct {
	scores map[string]int
}

// Stats counts what Parse kept and skipped
type Stats struct {
	Lines   int
	Entries int
	Skipped int
}

// New builds a lexicon from a map; out of range scores are dropped
func New(m map[string]int, lower bool) *Lexicon {
	l := &Lexicon{scores: make(map[string]int, len(m))}
	for w, s := range m {
		l.add(w, s, lower)
	}
	return l
}

// Parse reads tab-separated "word<TAB>score" lines
// Words may contain spaces. Blank lines, # comments, lines without a tab,
// non-integer or out of range scores are skipped. The last duplicate wins
func Parse(r io.Reader, lower bool) (*Lexicon, Stats, error) {
	l := &Lexicon{scores: make(map[string]int, 2500)}
	var st Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		st.Lines++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		i := strings.LastIndexByte(line, '\t')
		if i <= 0 {
			st.Skipped++
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
		if err != nil || !l.add(line[:i], score, lower) {
			st.Skipped++
			continue
		}
	}
	if err := sc.Err(); err != nil {
		return nil, st, perr.WithOp(perr.Wrap(err, perr.ErrorCodeParse, "read lexicon"), "lexicon.Parse")
	}
	st.Entries = len(l.scores)
	if st.Entries == 0 {
		return nil, st, perr.WithOp(perr.Parsef("lexicon has no usable entries"), "lexicon.Parse")
	}
	return l, st, nil
}

func (l *Lexicon) add(word string, score int, lower bool) bool {
	w := strings.TrimSpace(word)
	if w == "" || score < MinScore || score > MaxScore {
		return false
	}
	if lower {
		w = strings.ToLower(w)
	}
	l.scores[w] = score
	return true
}

// Lookup returns the score for an exact word
func (l *Lexicon) Lookup(word string) (int, bool) {
	if l == nil {
		return 0, false
	}
	s, ok := l.scores[word]
	return s, ok
}

// Len is the number of entries
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.scores)
}
