package validator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type lookup struct {
	scope     Scope
	field     string
	value     string
	excludeID int
}

type fakeChecker struct {
	taken  map[string]bool
	err    error
	lookups []lookup
}

func (f *fakeChecker) IsUniqueWithin(_ context.Context, scope Scope, field, value string, excludeID int) (bool, error) {
	f.lookups = append(f.lookups, lookup{scope: scope, field: field, value: value, excludeID: excludeID})
	if f.err != nil {
		return false, f.err
	}
	return !f.taken[value], nil
}

type quizForm struct {
	Fields `json:"-"`

	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      Text   `json:"status" validate:"required"`
}

var titleUnique = Unique{Field: "title", Scope: Scope{Table: "quizzes"}}

func TestCheckReportsFirstMissingField(t *testing.T) {
	v := New(&fakeChecker{})

	err := v.Check(context.Background(), &quizForm{Title: "T1"}, titleUnique)

	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ve.Field != "description" {
		t.Fatalf("expected description to fail first, got %q", ve.Field)
	}
	if ve.Message != "The description field is required." {
		t.Fatalf("unexpected message %q", ve.Message)
	}
}

func TestCheckUniqueRuleRunsBeforeLaterFields(t *testing.T) {
	checker := &fakeChecker{taken: map[string]bool{"T1": true}}
	v := New(checker)

	// Description is missing too, but title is declared first.
	err := v.Check(context.Background(), &quizForm{Title: "T1"}, titleUnique)

	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.Contains(ve.Message, "already taken") {
		t.Fatalf("expected uniqueness message, got %q", ve.Message)
	}
}

func TestCheckSkipsUniqueLookupWhenFieldInvalid(t *testing.T) {
	checker := &fakeChecker{}
	v := New(checker)

	err := v.Check(context.Background(), &quizForm{}, titleUnique)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(checker.lookups) != 0 {
		t.Fatalf("expected no lookups, got %d", len(checker.lookups))
	}
}

func TestCheckPassesScopeAndExclusion(t *testing.T) {
	checker := &fakeChecker{}
	v := New(checker)
	u := Unique{
		Field:     "title",
		Scope:     Scope{Table: "answers", Column: "quiz_id", Value: 7},
		ExcludeID: 3,
		Message:   "Title is already taken against Question id: 7",
	}

	if err := v.Check(context.Background(), &quizForm{Title: "A", Description: "D", Status: "s"}, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(checker.lookups) != 1 {
		t.Fatalf("expected one lookup, got %d", len(checker.lookups))
	}
	p := checker.lookups[0]
	if p.scope.Column != "quiz_id" || p.scope.Value != 7 || p.excludeID != 3 || p.value != "A" {
		t.Fatalf("unexpected lookup %+v", p)
	}

	checker.taken = map[string]bool{"A": true}
	err := v.Check(context.Background(), &quizForm{Title: "A", Description: "D", Status: "s"}, u)
	if err == nil || err.Error() != "Title is already taken against Question id: 7" {
		t.Fatalf("expected custom message, got %v", err)
	}
}

func TestCheckWrapsCheckerFailure(t *testing.T) {
	boom := errors.New("connection reset")
	v := New(&fakeChecker{err: boom})

	err := v.Check(context.Background(), &quizForm{Title: "A", Description: "D", Status: "s"}, titleUnique)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped checker error, got %v", err)
	}
	var ve *Error
	if errors.As(err, &ve) {
		t.Fatal("storage failure must not look like a rule failure")
	}
}

func TestDecodeDefersTypeErrorsToFieldOrder(t *testing.T) {
	v := New(&fakeChecker{})

	var form quizForm
	if err := Decode([]byte(`{"description":5}`), &form); err != nil {
		t.Fatalf("decode: %v", err)
	}
	err := v.Check(context.Background(), &form, titleUnique)
	if err == nil || err.Error() != "The title field is required." {
		t.Fatalf("expected missing title first, got %v", err)
	}

	form = quizForm{}
	if err := Decode([]byte(`{"title":12,"description":"D","status":"s"}`), &form); err != nil {
		t.Fatalf("decode: %v", err)
	}
	err = v.Check(context.Background(), &form, titleUnique)
	if err == nil || err.Error() != "The title must be a string." {
		t.Fatalf("expected type message, got %v", err)
	}
}

func TestDecodeTrimsAndKeepsScalarText(t *testing.T) {
	var form quizForm
	if err := Decode([]byte(`{"title":"  T1 ","description":"\tD\n","status":1.50}`), &form); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if form.Title != "T1" || form.Description != "D" || form.Status != "1.50" {
		t.Fatalf("unexpected form %+v", form)
	}

	form = quizForm{}
	if err := Decode([]byte(`{"title":"   ","description":"D","status":true}`), &form); err != nil {
		t.Fatalf("decode: %v", err)
	}
	err := New(&fakeChecker{}).Check(context.Background(), &form, titleUnique)
	if err == nil || err.Error() != "The title field is required." {
		t.Fatalf("expected blank title to be required, got %v", err)
	}
	if form.Status != "true" {
		t.Fatalf("expected status true, got %q", form.Status)
	}
}

func TestDecodeWithoutFieldsReturnsTypeError(t *testing.T) {
	var req struct {
		Answers []any `json:"answers"`
	}
	err := Decode([]byte(`{"answers":"1"}`), &req)
	var ve *Error
	if !errors.As(err, &ve) || ve.Message != "The answers must be an array." {
		t.Fatalf("expected array message, got %v", err)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`{"title": `, `[1]`, `"x"`} {
		var form quizForm
		if err := Decode([]byte(body), &form); !errors.Is(err, ErrMalformedBody) {
			t.Errorf("%s: expected ErrMalformedBody, got %v", body, err)
		}
	}
	var form quizForm
	if err := Decode([]byte("  "), &form); err != nil {
		t.Fatalf("empty body should decode to nothing, got %v", err)
	}
}
