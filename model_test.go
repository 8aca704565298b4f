package modelity_test

import (
	"errors"
	"testing"

	modelity "github.com/modelity/modelity-go"
	"github.com/modelity/modelity-go/dsl"
)

func pairSchema(t *testing.T) *modelity.Schema {
	t.Helper()
	s, err := dsl.Schema("Pair").
		Field("x", modelity.Int()).
		Field("y", modelity.Int()).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func TestConstructCoercesNumericStrings(t *testing.T) {
	pair := pairSchema(t)
	m, err := pair.New(map[string]any{"x": "1", "y": "2"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Get("x"); got != int64(1) {
		t.Fatalf("x = %v (%T), want 1", got, got)
	}
	if got := m.Get("y"); got != int64(2) {
		t.Fatalf("y = %v (%T), want 2", got, got)
	}
}

func TestConstructThenValidateStaysTwoStage(t *testing.T) {
	pair := pairSchema(t)

	m, err := pair.New(map[string]any{"x": "a"})
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("New: want *ParsingError, got %v", err)
	}
	if perr.Count() != 1 {
		t.Fatalf("parse errors = %d, want 1: %v", perr.Count(), perr)
	}
	if e := perr.Errors()[0]; e.Loc.String() != "x" || e.Code != modelity.CodeParseError {
		t.Fatalf("unexpected parse error: %+v", e)
	}

	err = modelity.Validate(m)
	var verr *modelity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate: want *ValidationError, got %v", err)
	}
	if verr.Count() != 1 {
		t.Fatalf("validation errors = %d, want 1: %v", verr.Count(), verr)
	}
	if e := verr.Errors()[0]; e.Loc.String() != "y" || e.Code != modelity.CodeRequiredMissing {
		t.Fatalf("unexpected validation error: %+v", e)
	}

	// setting y to a valid value clears the finding
	if err := m.Set("y", 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := modelity.Validate(m); err != nil {
		t.Fatalf("Validate after Set: %v", err)
	}
}

func TestAssignFailureKeepsPreviousValue(t *testing.T) {
	pair := pairSchema(t)
	m, err := pair.New(map[string]any{"x": 1, "y": 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = m.Set("x", "not a number")
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("Set: want *ParsingError, got %v", err)
	}
	if got := m.Get("x"); got != int64(1) {
		t.Fatalf("x = %v after failed Set, want 1", got)
	}
}

func TestUnassignAndHas(t *testing.T) {
	pair := pairSchema(t)
	m := pair.MustNew(map[string]any{"x": 1, "y": 2})
	if !m.Has("x") {
		t.Fatal("Has(x) = false, want true")
	}
	m.Unset("x")
	if m.Has("x") {
		t.Fatal("Has(x) = true after Unset")
	}
	if !modelity.IsUnset(m.Get("x")) {
		t.Fatalf("Get(x) = %v, want Unset", m.Get("x"))
	}
	if got := m.SetNames(); len(got) != 1 || got[0] != "y" {
		t.Fatalf("SetNames = %v, want [y]", got)
	}
}

func TestGetPanicsOnUnknownField(t *testing.T) {
	pair := pairSchema(t)
	m := pair.MustNew(map[string]any{"x": 1, "y": 2})
	defer func() {
		if recover() == nil {
			t.Fatal("Get on unknown field did not panic")
		}
	}()
	m.Get("z")
}

func TestUnionPicksFirstMemberInDeclaredOrder(t *testing.T) {
	s := dsl.Schema("V").
		Field("v", modelity.Union(modelity.Int(), modelity.String())).
		MustBuild()
	m := s.MustNew(nil)
	if err := m.Set("v", "123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := m.Get("v"); got != int64(123) {
		t.Fatalf("v = %v (%T), want int64 123", got, got)
	}
	if err := m.Set("v", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := m.Get("v"); got != "abc" {
		t.Fatalf("v = %v, want \"abc\"", got)
	}
}

func TestUnionRejectsNonMembers(t *testing.T) {
	s := dsl.Schema("V").
		Field("v", modelity.Union(modelity.Int(), modelity.Bool())).
		MustBuild()
	m := s.MustNew(nil)
	err := m.Set("v", "abc")
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("Set: want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Code != modelity.CodeUnionParseError {
		t.Fatalf("code = %s, want %s", e.Code, modelity.CodeUnionParseError)
	}
}

func TestDefaultsRunThroughParsePipeline(t *testing.T) {
	s := dsl.Schema("Conf").
		Field("port", modelity.Int()).Default("8080").
		Field("tags", modelity.ListOf(modelity.String())).DefaultFactory(func() any { return []any{} }).
		MustBuild()
	m, err := s.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Get("port"); got != int64(8080) {
		t.Fatalf("port = %v, want 8080 as int64", got)
	}
	tags, ok := m.Get("tags").(*modelity.List)
	if !ok || tags.Len() != 0 {
		t.Fatalf("tags = %v, want empty *List", m.Get("tags"))
	}
	if err := modelity.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDefaultFactoryValuesDoNotAlias(t *testing.T) {
	s := dsl.Schema("Conf").
		Field("tags", modelity.ListOf(modelity.String())).DefaultFactory(func() any { return []any{} }).
		MustBuild()
	a := s.MustNew(nil)
	b := s.MustNew(nil)
	if err := a.Get("tags").(*modelity.List).Append("x"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n := b.Get("tags").(*modelity.List).Len(); n != 0 {
		t.Fatalf("second instance sees %d elements, want 0", n)
	}
}

func TestOptionalAdmitsNil(t *testing.T) {
	s := dsl.Schema("P").
		Field("note", modelity.Optional(modelity.String())).
		MustBuild()
	m, err := s.New(map[string]any{"note": nil})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Get("note"); got != nil {
		t.Fatalf("note = %v, want nil", got)
	}
	if !m.Has("note") {
		t.Fatal("nil-holding field must count as set")
	}
	if err := modelity.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestStrictOptionalRejectsNil(t *testing.T) {
	s := dsl.Schema("P").
		Field("note", modelity.StrictOptional(modelity.String())).
		MustBuild()
	_, err := s.New(map[string]any{"note": nil})
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("New: want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Code != modelity.CodeNilNotAllowed {
		t.Fatalf("code = %s, want %s", e.Code, modelity.CodeNilNotAllowed)
	}

	// staying Unset is fine
	m := s.MustNew(nil)
	if err := modelity.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestModelEqualAndString(t *testing.T) {
	pair := pairSchema(t)
	a := pair.MustNew(map[string]any{"x": 1, "y": 2})
	b := pair.MustNew(map[string]any{"x": 1, "y": 2})
	c := pair.MustNew(map[string]any{"x": 1})
	if !a.Equal(b) {
		t.Fatal("equal models reported unequal")
	}
	if a.Equal(c) {
		t.Fatal("unequal models reported equal")
	}
	if got, want := c.String(), "Pair(x=1, y=Unset)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestNestedModelParsesInPlace(t *testing.T) {
	addr := dsl.Schema("Addr").
		Field("city", modelity.String()).
		MustBuild()
	user := dsl.Schema("User").
		Field("name", modelity.String()).
		Field("addr", modelity.ModelOf(addr)).
		MustBuild()

	m, err := user.New(map[string]any{
		"name": "bob",
		"addr": map[string]any{"city": "gdansk"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nested := m.Get("addr").(*modelity.Model)
	if got, _ := nested.GetString("city"); got != "gdansk" {
		t.Fatalf("city = %q, want gdansk", got)
	}

	// nested parse errors carry the full path
	_, err = user.New(map[string]any{
		"name": "bob",
		"addr": map[string]any{"city": 7},
	})
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("New: want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Loc.String() != "addr.city" {
		t.Fatalf("loc = %q, want addr.city", e.Loc)
	}
}

func TestNestedModelDescriptorsResolvePerSchema(t *testing.T) {
	// two distinct schemas sharing a name must not share a descriptor
	a := dsl.Schema("Dup").
		Field("x", modelity.Int()).
		MustBuild()
	b := dsl.Schema("Dup").
		Field("name", modelity.String()).
		MustBuild()
	outerA := dsl.Schema("OuterA").Field("p", modelity.ModelOf(a)).MustBuild()
	outerB := dsl.Schema("OuterB").Field("p", modelity.ModelOf(b)).MustBuild()

	ma, err := outerA.New(map[string]any{"p": map[string]any{"x": 1}})
	if err != nil {
		t.Fatalf("outerA.New: %v", err)
	}
	if got := ma.Get("p").(*modelity.Model).Schema(); got != a {
		t.Fatalf("nested model bound to schema %p, want a (%p)", got, a)
	}

	mb, err := outerB.New(map[string]any{"p": map[string]any{"name": "bob"}})
	if err != nil {
		t.Fatalf("outerB.New: %v", err)
	}
	nested := mb.Get("p").(*modelity.Model)
	if got := nested.Schema(); got != b {
		t.Fatalf("nested model bound to schema %p, want b (%p)", got, b)
	}
	if got, _ := nested.GetString("name"); got != "bob" {
		t.Fatalf("name = %q, want bob", got)
	}
}

func TestPreAndPostprocessorsWrapDescriptorParse(t *testing.T) {
	s := dsl.Schema("Doc").
		Field("title", modelity.String()).
		Preprocess(func(m *modelity.Model, loc modelity.Loc, v any) (any, error) {
			if b, ok := v.([]byte); ok {
				return string(b), nil
			}
			return v, nil
		}, "title").
		Postprocess(func(m *modelity.Model, loc modelity.Loc, v any) (any, error) {
			return v.(string) + "!", nil
		}, "title").
		MustBuild()
	m, err := s.New(map[string]any{"title": []byte("hi")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Get("title"); got != "hi!" {
		t.Fatalf("title = %v, want hi!", got)
	}
}

func TestHookErrorBecomesParsingError(t *testing.T) {
	s := dsl.Schema("Doc").
		Field("title", modelity.String()).
		Postprocess(func(m *modelity.Model, loc modelity.Loc, v any) (any, error) {
			return nil, &modelity.UserError{Msg: "title rejected", Code: "doc.BAD_TITLE"}
		}, "title").
		MustBuild()
	_, err := s.New(map[string]any{"title": "x"})
	var perr *modelity.ParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("New: want *ParsingError, got %v", err)
	}
	if e := perr.Errors()[0]; e.Code != "doc.BAD_TITLE" || e.Loc.String() != "title" {
		t.Fatalf("unexpected error: %+v", e)
	}
}
