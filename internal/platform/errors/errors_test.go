package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{InvalidArgf("bad target"), 2},
		{Validationf("bad options"), 2},
		{Unavailablef("fetch failed"), 1},
		{Parsef("bad csv"), 1},
		{stderrs.New("foreign"), 1},
		{fmt.Errorf("wrapped: %w", Validationf("deep")), 2},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	if ErrorCodeUnavailable.String() != "unavailable" || ErrorCode(999).String() != "unknown" {
		t.Fatalf("ErrorCode.String mismatch")
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	if got := Newf(ErrorCodeParse, "bad row %d", 12).Error(); got != "bad row 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "write failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeUnavailable, "fetch %s", "lexicon")
	if want := "fetch lexicon: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeUnavailable || got.Message() != "fetch lexicon" {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}
}

func TestMutatorsCopyOnWrite(t *testing.T) {
	base := Wrap(stderrs.New("x"), ErrorCodeInvalidArgument, "oops")
	withField := WithField(base, "target")
	withOp := WithOp(withField, "keyness.Analyze")

	if fe, ok := As(withField); !ok || fe.Field() != "target" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(withOp); !ok || oe.Op() != "keyness.Analyze" {
		t.Fatalf("WithOp failed")
	}
	if b, _ := As(base); b.Field() != "" || b.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if want := "keyness.Analyze: oops: x"; withOp.Error() != want {
		t.Fatalf("op render = %q, want %q", withOp.Error(), want)
	}

	// an existing op is kept (innermost label wins)
	if oe, _ := As(WithOp(withOp, "outer")); oe.Op() != "keyness.Analyze" {
		t.Fatalf("WithOp overwrote an existing op")
	}

	foreign := WithOp(stderrs.New("disk full"), "export")
	if fe, ok := As(foreign); !ok || fe.Op() != "export" || fe.Code() != ErrorCodeUnknown {
		t.Fatalf("WithOp on foreign error: %+v", fe)
	}
	if WithOp(nil, "x") != nil {
		t.Fatalf("WithOp(nil) should be nil")
	}
	if WithField(stderrs.New("f"), "x").Error() != "f" {
		t.Fatalf("WithField on foreign error should be a no-op")
	}
}

func TestSugarAndHelpers(t *testing.T) {
	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Validationf("x"), ErrorCodeValidation) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(Parsef("x"), ErrorCodeParse) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeIO, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if !IsCode(WrapIf(stderrs.New("x"), ErrorCodeIO, "io"), ErrorCodeIO) {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	src := stderrs.New("root")
	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if !Is(deep, src) {
		t.Fatalf("Is() should see wrapped sentinel")
	}
}
