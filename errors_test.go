package modelity_test

import (
	"fmt"
	"strings"
	"testing"

	modelity "github.com/modelity/modelity-go"
)

func TestParsingErrorRendersGroupedByLocation(t *testing.T) {
	errs := []modelity.Error{
		{Loc: modelity.NewLoc("x"), Code: modelity.CodeParseError, Msg: "could not parse value as int"},
		{Loc: modelity.NewLoc("x"), Code: "p.CUSTOM", Msg: "custom"},
		{Loc: nil, Code: modelity.CodeUserError, Msg: "root level"},
	}
	msg := modelity.NewParsingError("Pair", errs).Error()
	if !strings.Contains(msg, `found 3 parsing error(s) for "Pair"`) {
		t.Fatalf("header missing: %q", msg)
	}
	if !strings.Contains(msg, "(root)") {
		t.Fatalf("root label missing: %q", msg)
	}
	// x appears once as a group label even with two errors
	if strings.Count(msg, "\n  x:") != 1 {
		t.Fatalf("x group rendered %d times: %q", strings.Count(msg, "\n  x:"), msg)
	}
	if !strings.Contains(msg, "[code=p.CUSTOM]") {
		t.Fatalf("code suffix missing: %q", msg)
	}
}

func TestValidationErrorRendering(t *testing.T) {
	errs := []modelity.Error{
		{Loc: modelity.NewLoc("y"), Code: modelity.CodeRequiredMissing, Msg: "this field is required"},
	}
	msg := modelity.NewValidationError("Pair", errs).Error()
	if !strings.Contains(msg, `found 1 validation error(s) for "Pair"`) {
		t.Fatalf("header missing: %q", msg)
	}
	if !strings.Contains(msg, "y:") {
		t.Fatalf("location missing: %q", msg)
	}
}

func TestErrorSinkPrune(t *testing.T) {
	sink := modelity.NewErrorSink()
	sink.Append(
		modelity.Error{Loc: modelity.NewLoc("a"), Code: "c1"},
		modelity.Error{Loc: modelity.NewLoc("b"), Code: "c2"},
		modelity.Error{Loc: modelity.NewLoc("items", 0, "b"), Code: "c3"},
	)
	sink.PruneAt(modelity.ParseLoc("b"))
	if sink.Len() != 1 {
		t.Fatalf("Len = %d after PruneAt, want 1", sink.Len())
	}
	if sink.Errors()[0].Code != "c1" {
		t.Fatalf("remaining = %+v", sink.Errors()[0])
	}
	sink.Prune(func(e modelity.Error) bool { return false })
	if sink.Len() != 0 {
		t.Fatalf("Len = %d after full prune, want 0", sink.Len())
	}
}

func TestErrorValueType(t *testing.T) {
	e := modelity.Error{Value: "x"}
	if got := e.ValueType(); got != "string" {
		t.Fatalf("ValueType = %q, want string", got)
	}
	e = modelity.Error{Value: modelity.Unset}
	if got := e.ValueType(); got != "Unset" {
		t.Fatalf("ValueType = %q, want Unset", got)
	}
}

func TestWrapDecodeError(t *testing.T) {
	perr := modelity.WrapDecodeError("Pair", fmt.Errorf("unexpected EOF"))
	if perr.Count() != 1 {
		t.Fatalf("Count = %d, want 1", perr.Count())
	}
	if e := perr.Errors()[0]; e.Code != modelity.CodeDecodeError || len(e.Loc) != 0 {
		t.Fatalf("unexpected record: %+v", e)
	}
}

func TestUserErrorOverrides(t *testing.T) {
	ue := &modelity.UserError{Msg: "nope"}
	if ue.Error() != "nope" {
		t.Fatalf("Error() = %q", ue.Error())
	}
}
