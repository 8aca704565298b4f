package modelity_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	modelity "github.com/modelity/modelity-go"
	"github.com/modelity/modelity-go/dsl"
)

func singleField(t *testing.T, typ modelity.Type) *modelity.Schema {
	t.Helper()
	return dsl.Schema("S").Field("v", typ).MustBuild()
}

func parseOne(t *testing.T, s *modelity.Schema, raw any) (any, error) {
	t.Helper()
	m, err := s.New(map[string]any{"v": raw})
	if err != nil {
		return nil, err
	}
	return m.Get("v"), nil
}

func TestIntCoercion(t *testing.T) {
	s := singleField(t, modelity.Int())
	for _, tc := range []struct {
		raw  any
		want int64
	}{
		{raw: 7, want: 7},
		{raw: int32(7), want: 7},
		{raw: uint8(7), want: 7},
		{raw: 7.0, want: 7},
		{raw: "7", want: 7},
		{raw: "-13", want: -13},
		{raw: json.Number("7"), want: 7},
	} {
		got, err := parseOne(t, s, tc.raw)
		if err != nil {
			t.Fatalf("parse %v (%T): %v", tc.raw, tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse %v (%T) = %v, want %d", tc.raw, tc.raw, got, tc.want)
		}
	}
	for _, raw := range []any{"a", "7.5", 7.5, nil, true} {
		if _, err := parseOne(t, s, raw); err == nil {
			t.Fatalf("parse %v (%T): want error", raw, raw)
		}
	}
}

func TestStringIsStrict(t *testing.T) {
	s := singleField(t, modelity.String())
	if got, err := parseOne(t, s, "hi"); err != nil || got != "hi" {
		t.Fatalf("parse hi = %v, %v", got, err)
	}
	_, err := parseOne(t, s, 7)
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Code != modelity.CodeInvalidType {
		t.Fatalf("code = %s, want %s", e.Code, modelity.CodeInvalidType)
	}
}

func TestBoolIsStrictByDefault(t *testing.T) {
	s := singleField(t, modelity.Bool())
	if got, err := parseOne(t, s, true); err != nil || got != true {
		t.Fatalf("parse true = %v, %v", got, err)
	}
	for _, raw := range []any{1, "true", "yes"} {
		if _, err := parseOne(t, s, raw); err == nil {
			t.Fatalf("parse %v: want error", raw)
		}
	}
}

func TestBoolLiterals(t *testing.T) {
	s := singleField(t, modelity.BoolLiterals([]any{"on", 1}, []any{"off", 0}))
	for raw, want := range map[any]bool{"on": true, 1: true, "off": false, 0: false, true: true} {
		got, err := parseOne(t, s, raw)
		if err != nil {
			t.Fatalf("parse %v: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %v = %v, want %v", raw, got, want)
		}
	}
	if _, err := parseOne(t, s, "yes"); err == nil {
		t.Fatal("parse yes: want error")
	}
}

func TestFloatCoercion(t *testing.T) {
	s := singleField(t, modelity.Float())
	for _, tc := range []struct {
		raw  any
		want float64
	}{
		{raw: 1.5, want: 1.5},
		{raw: 3, want: 3},
		{raw: "2.25", want: 2.25},
		{raw: json.Number("0.5"), want: 0.5},
	} {
		got, err := parseOne(t, s, tc.raw)
		if err != nil {
			t.Fatalf("parse %v: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse %v = %v, want %v", tc.raw, got, tc.want)
		}
	}
	if _, err := parseOne(t, s, "x"); err == nil {
		t.Fatal("parse x: want error")
	}
}

func TestEnumAcceptsOnlyMembers(t *testing.T) {
	s := singleField(t, modelity.Enum("draft", "published"))
	if got, err := parseOne(t, s, "draft"); err != nil || got != "draft" {
		t.Fatalf("parse draft = %v, %v", got, err)
	}
	_, err := parseOne(t, s, "deleted")
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Code != modelity.CodeInvalidEnumValue {
		t.Fatalf("code = %s, want %s", e.Code, modelity.CodeInvalidEnumValue)
	}
}

func TestEnumMatchesNumericWireForms(t *testing.T) {
	s := singleField(t, modelity.Enum(1, 2, 3))
	got, err := parseOne(t, s, json.Number("2"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 2 {
		t.Fatalf("parse json.Number(2) = %v (%T), want member 2", got, got)
	}
	if _, err := parseOne(t, s, "2"); err == nil {
		t.Fatal("string \"2\" must not match int member 2")
	}
}

func TestTimeParsing(t *testing.T) {
	s := singleField(t, modelity.Time())
	got, err := parseOne(t, s, "2026-08-27T10:30:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ts := got.(time.Time)
	if ts.Year() != 2026 || ts.Month() != time.August {
		t.Fatalf("ts = %v", ts)
	}
	if _, err := parseOne(t, s, "yesterday"); err == nil {
		t.Fatal("parse yesterday: want error")
	}

	custom := singleField(t, modelity.Time("02.01.2006"))
	if _, err := parseOne(t, custom, "27.08.2026"); err != nil {
		t.Fatalf("custom layout: %v", err)
	}
	if _, err := parseOne(t, custom, "2026-08-27"); err == nil {
		t.Fatal("custom layout must replace defaults")
	}
}

func TestUUIDParsing(t *testing.T) {
	s := singleField(t, modelity.UUID())
	id := uuid.New()
	got, err := parseOne(t, s, id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("parse = %v, want %v", got, id)
	}
	if _, err := parseOne(t, s, "not-a-uuid"); err == nil {
		t.Fatal("parse not-a-uuid: want error")
	}
}

func TestIPAddrParsing(t *testing.T) {
	s := singleField(t, modelity.IPAddr())
	if _, err := parseOne(t, s, "192.168.0.1"); err != nil {
		t.Fatalf("parse v4: %v", err)
	}
	if _, err := parseOne(t, s, "::1"); err != nil {
		t.Fatalf("parse v6: %v", err)
	}
	if _, err := parseOne(t, s, "999.0.0.1"); err == nil {
		t.Fatal("parse 999.0.0.1: want error")
	}
}

func TestAnyPassesThrough(t *testing.T) {
	s := singleField(t, modelity.Any())
	val := map[string]any{"free": "form"}
	got, err := parseOne(t, s, val)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.(map[string]any)["free"] != "form" {
		t.Fatalf("parse = %v", got)
	}
}

func TestParseIdempotentOnParsedValues(t *testing.T) {
	// values already stored on a model re-parse unchanged
	s := dsl.Schema("P").
		Field("n", modelity.Int()).
		Field("ts", modelity.Time()).
		MustBuild()
	m := s.MustNew(map[string]any{"n": "42", "ts": "2026-08-27T00:00:00Z"})
	if err := m.Set("n", m.Get("n")); err != nil {
		t.Fatalf("re-Set n: %v", err)
	}
	if err := m.Set("ts", m.Get("ts")); err != nil {
		t.Fatalf("re-Set ts: %v", err)
	}
	if got := m.Get("n"); got != int64(42) {
		t.Fatalf("n = %v, want 42", got)
	}
}
