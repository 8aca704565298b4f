package dsl_test

import (
	"errors"
	"testing"

	modelity "github.com/modelity/modelity-go"
	"github.com/modelity/modelity-go/dsl"
)

func TestBuilderDeclaresFieldsInOrder(t *testing.T) {
	s, err := dsl.Schema("User").
		Field("name", modelity.String()).Title("Name").Description("display name").
		Field("age", modelity.Int()).Default(0).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0].Name != "name" || fields[1].Name != "age" {
		t.Fatalf("fields = %+v", fields)
	}
	if fields[0].Title != "Name" || fields[0].Description != "display name" {
		t.Fatalf("metadata lost: %+v", fields[0])
	}
	if fields[0].Optional {
		t.Fatal("name must be required")
	}
	if !fields[1].Optional || !fields[1].HasDefault {
		t.Fatal("defaulted field must be optional")
	}
}

func TestBuilderModifierBeforeFieldFails(t *testing.T) {
	_, err := dsl.Schema("P").Default(1).Build()
	if err == nil {
		t.Fatal("Default before Field: want error")
	}
}

func TestBuilderDuplicateFieldFails(t *testing.T) {
	_, err := dsl.Schema("P").
		Field("x", modelity.Int()).
		Field("x", modelity.Int()).
		Build()
	if err == nil {
		t.Fatal("duplicate field: want error")
	}
}

func TestExtendInheritsFieldsAndHooks(t *testing.T) {
	base := dsl.Schema("Base").
		Field("id", modelity.Int()).
		ValidateField(func(m *modelity.Model, rc *modelity.RunContext, loc modelity.Loc, v any) error {
			if v.(int64) < 0 {
				return &modelity.UserError{Msg: "negative id", Code: "base.NEGATIVE_ID"}
			}
			return nil
		}, "id").
		MustBuild()

	child := dsl.Schema("Child").
		Extend(base).
		Field("name", modelity.String()).
		MustBuild()

	if got := child.FieldNames(); len(got) != 2 || got[0] != "id" || got[1] != "name" {
		t.Fatalf("FieldNames = %v", got)
	}

	m := child.MustNew(map[string]any{"id": -1, "name": "x"})
	err := modelity.Validate(m)
	var verr *modelity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if verr.Errors()[0].Code != "base.NEGATIVE_ID" {
		t.Fatalf("inherited validator did not run: %v", verr)
	}
}

func TestIncludeMergesHookBundleOnce(t *testing.T) {
	var calls int
	audited := modelity.Hooks{
		Postvalidators: []modelity.PostvalidatorHook{
			modelity.NewPostvalidator(func(m *modelity.Model, rc *modelity.RunContext, loc modelity.Loc) error {
				calls++
				return nil
			}),
		},
	}

	s := dsl.Schema("P").
		Field("x", modelity.Int()).
		Include(audited).
		Include(audited). // second include is a no-op
		MustBuild()

	m := s.MustNew(map[string]any{"x": 1})
	if err := modelity.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if calls != 1 {
		t.Fatalf("postvalidator ran %d times, want 1", calls)
	}
}

func TestHookBundleReusableAcrossSchemas(t *testing.T) {
	trim := modelity.Hooks{
		Preprocessors: []modelity.ProcessorHook{
			modelity.NewProcessor(func(m *modelity.Model, loc modelity.Loc, v any) (any, error) {
				if s, ok := v.(string); ok && s == "" {
					return modelity.Unset, nil
				}
				return v, nil
			}),
		},
	}

	a := dsl.Schema("A").Field("v", modelity.Optional(modelity.String())).Include(trim).MustBuild()
	b := dsl.Schema("B").Field("w", modelity.Optional(modelity.String())).Include(trim).MustBuild()

	ma := a.MustNew(map[string]any{"v": ""})
	if ma.Has("v") {
		t.Fatal("empty string should have been dropped to Unset in A")
	}
	mb := b.MustNew(map[string]any{"w": ""})
	if mb.Has("w") {
		t.Fatal("empty string should have been dropped to Unset in B")
	}
}

func TestBuildFailsOnUnresolvableFieldType(t *testing.T) {
	_, err := dsl.Schema("P").
		Field("m", modelity.Named("money")).
		WithRegistry(modelity.NewRegistry()).
		Build()
	var uerr *modelity.UnsupportedTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("want *UnsupportedTypeError, got %v", err)
	}
}
