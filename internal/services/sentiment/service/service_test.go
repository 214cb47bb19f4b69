package service

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"surveylens/internal/core/district"
	"surveylens/internal/core/lexicon"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	kit "surveylens/internal/platform/testkit"
	"surveylens/internal/services/sentiment/domain"
	survey "surveylens/internal/services/survey/domain"
)

func resp(d, text string) survey.Response {
	return survey.Response{District: district.Parse(d), RawDistrict: d, Text: text}
}

func responses() []survey.Response {
	return []survey.Response{
		resp("12", "too much development near the horse farms"),
		resp("5,7", "love love love"),
		resp("3", "the roads are bad"),
		resp("12", "love the farms"),
		resp("NA", "love"),
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregator{}.Aggregate(responses())
	want := []domain.DistrictDoc{
		{District: 3, Text: "the roads are bad", Responses: 1},
		{District: 12, Text: "too much development near the horse farms love the farms", Responses: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Aggregate = %#v", got)
	}
}

func TestAggregate_CombinedExcluded(t *testing.T) {
	got := Aggregator{}.Aggregate([]survey.Response{resp("5,7", "love")})
	if len(got) != 0 {
		t.Fatalf("combined district should be excluded, got %#v", got)
	}
}

func TestScore_MeanOfMatchedTokens(t *testing.T) {
	lex := lexicon.New(map[string]int{"love": 3, "development": -1}, true)
	docs := Aggregator{}.Aggregate(responses())

	got := Scorer{Lowercase: true, Policy: domain.PolicyExclude}.Score(docs, lex)
	// district 3 has no matched tokens and is absent
	if len(got) != 1 {
		t.Fatalf("got %#v", got)
	}
	if got[0].District != 12 || got[0].Sentiment != 1.0 || got[0].Matched != 2 {
		t.Fatalf("district 12 = %+v, want mean 1.0 over 2 tokens", got[0])
	}
}

func TestScore_ZeroPolicyDilutes(t *testing.T) {
	lex := lexicon.New(map[string]int{"love": 3, "development": -1}, true)
	docs := []domain.DistrictDoc{{District: 12, Text: "too much development near the horse farms love the farms"}}

	got := Scorer{Lowercase: true, Policy: domain.PolicyZero}.Score(docs, lex)
	if len(got) != 1 || got[0].Matched != 10 || math.Abs(got[0].Sentiment-0.2) > 1e-12 {
		t.Fatalf("got %+v", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	lex := lexicon.New(map[string]int{"love": 3, "bad": -3, "development": -1}, true)
	docs := Aggregator{}.Aggregate(responses())
	a := Scorer{Lowercase: true}.Score(docs, lex)
	b := Scorer{Lowercase: true}.Score(docs, lex)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("non-deterministic output")
	}
}

func TestService_ComputeWithRemoteLexicon(t *testing.T) {
	up := kit.NewUpstream(t, map[string][]byte{"/afinn.txt": []byte("love\t3\ndevelopment\t-1\n")})
	svc := New(fetch.New(t.TempDir()), Config{LexiconSource: up.URLFor("/afinn.txt"), Lowercase: true})

	got, err := svc.Compute(context.Background(), responses())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(got) != 1 || got[0].Sentiment != 1.0 {
		t.Fatalf("got %+v", got)
	}

	// lexicon fetched once per service
	if _, err := svc.Compute(context.Background(), responses()); err != nil {
		t.Fatal(err)
	}
	if up.Hits() != 1 {
		t.Fatalf("hits=%d", up.Hits())
	}
}

func TestLoadLexicon_Errors(t *testing.T) {
	f := fetch.New(t.TempDir())
	_, err := LoadLexicon(context.Background(), f, filepath.Join(t.TempDir(), "none.txt"), true)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	p := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(p, []byte("no tabs here\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = LoadLexicon(context.Background(), f, p, true)
	if !perr.IsCode(err, perr.ErrorCodeParse) {
		t.Fatalf("want parse error, got %v", err)
	}
}

func TestService_LexiconRetriedAfterCancelledLoad(t *testing.T) {
	up := kit.NewUpstream(t, map[string][]byte{"/afinn.txt": []byte("love\t3\n")})
	svc := New(fetch.New(t.TempDir()), Config{LexiconSource: up.URLFor("/afinn.txt"), Lowercase: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Lexicon(ctx); err == nil {
		t.Fatalf("want error from cancelled load")
	}

	lex, err := svc.Lexicon(context.Background())
	if err != nil {
		t.Fatalf("load after cancel: %v", err)
	}
	if v, ok := lex.Lookup("love"); !ok || v != 3 {
		t.Fatalf("lookup love = %v %v", v, ok)
	}
}
