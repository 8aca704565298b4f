// Package dsl provides the fluent schema builder. A schema declaration reads
// top to bottom like the record it describes:
//
//	pair := dsl.Schema("Pair").
//		Field("x", modelity.Int()).
//		Field("y", modelity.Int()).
//		MustBuild()
package dsl

import (
	"fmt"

	modelity "github.com/modelity/modelity-go"
)

// Builder accumulates field declarations and hook registrations and compiles
// them into an immutable *modelity.Schema. Field modifiers (Default, Title,
// ...) apply to the most recently declared field. Builders are single-use
// and not safe for concurrent use.
type Builder struct {
	name     string
	registry *modelity.Registry
	fields   []modelity.FieldDef
	hooks    modelity.Hooks
	err      error
}

// Schema starts a builder for a record with the given name.
func Schema(name string) *Builder {
	return &Builder{name: name}
}

// WithRegistry resolves field types against r instead of the default
// registry.
func (b *Builder) WithRegistry(r *modelity.Registry) *Builder {
	b.registry = r
	return b
}

// Extend copies base's fields and hooks into the builder. Fields declared
// afterwards are appended; hooks registered afterwards run after the base's.
func (b *Builder) Extend(base *modelity.Schema) *Builder {
	b.fields = append(b.fields, base.FieldDefs()...)
	b.hooks.Merge(base.Hooks())
	return b
}

// Include merges a reusable hook bundle. Including the same bundle twice is
// a no-op for the hooks it already contributed.
func (b *Builder) Include(hs modelity.Hooks) *Builder {
	b.hooks.Merge(hs)
	return b
}

// Field declares a field with the given type.
func (b *Builder) Field(name string, t modelity.Type) *Builder {
	b.fields = append(b.fields, modelity.FieldDef{Name: name, Type: t})
	return b
}

// Default sets the default value of the last declared field. Defaults run
// through the full parse pipeline at construction time.
func (b *Builder) Default(v any) *Builder {
	if f := b.lastField("Default"); f != nil {
		f.Default = v
		f.HasDefault = true
	}
	return b
}

// DefaultFactory sets a per-construction default factory on the last
// declared field; it wins over Default.
func (b *Builder) DefaultFactory(fn func() any) *Builder {
	if f := b.lastField("DefaultFactory"); f != nil {
		f.DefaultFactory = fn
	}
	return b
}

// Title sets the title metadata of the last declared field.
func (b *Builder) Title(s string) *Builder {
	if f := b.lastField("Title"); f != nil {
		f.Title = s
	}
	return b
}

// Description sets the description metadata of the last declared field.
func (b *Builder) Description(s string) *Builder {
	if f := b.lastField("Description"); f != nil {
		f.Description = s
	}
	return b
}

// Examples sets example values on the last declared field.
func (b *Builder) Examples(vs ...any) *Builder {
	if f := b.lastField("Examples"); f != nil {
		f.Examples = vs
	}
	return b
}

// Preprocess registers a preprocessor for the named fields, or all fields
// when none are named.
func (b *Builder) Preprocess(fn modelity.Processor, fields ...string) *Builder {
	b.hooks.Preprocessors = append(b.hooks.Preprocessors, modelity.NewProcessor(fn, fields...))
	return b
}

// Postprocess registers a postprocessor for the named fields, or all fields
// when none are named.
func (b *Builder) Postprocess(fn modelity.Processor, fields ...string) *Builder {
	b.hooks.Postprocessors = append(b.hooks.Postprocessors, modelity.NewProcessor(fn, fields...))
	return b
}

// Prevalidate registers a model prevalidator.
func (b *Builder) Prevalidate(fn modelity.Prevalidator) *Builder {
	b.hooks.Prevalidators = append(b.hooks.Prevalidators, modelity.NewPrevalidator(fn))
	return b
}

// Postvalidate registers a model postvalidator.
func (b *Builder) Postvalidate(fn modelity.Postvalidator) *Builder {
	b.hooks.Postvalidators = append(b.hooks.Postvalidators, modelity.NewPostvalidator(fn))
	return b
}

// ValidateField registers a field validator for the named fields, or all
// fields when none are named.
func (b *Builder) ValidateField(fn modelity.FieldValidator, fields ...string) *Builder {
	b.hooks.FieldValidators = append(b.hooks.FieldValidators, modelity.NewFieldValidator(fn, fields...))
	return b
}

// ValidateAt registers a location validator for every validated location
// matching the dotted pattern, e.g. "items.*" or "items.*.name".
func (b *Builder) ValidateAt(pattern string, fn modelity.LocValidator) *Builder {
	b.hooks.LocValidators = append(b.hooks.LocValidators, modelity.NewLocValidator(pattern, fn))
	return b
}

// Build compiles the accumulated declarations. Descriptor resolution happens
// here; an unresolvable field type fails the build.
func (b *Builder) Build() (*modelity.Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	return modelity.BuildSchema(modelity.SchemaConfig{
		Name:     b.name,
		Registry: b.registry,
		Fields:   b.fields,
		Hooks:    b.hooks,
	})
}

// MustBuild is Build, panicking on error. Intended for package-level schema
// variables.
func (b *Builder) MustBuild() *modelity.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Builder) lastField(modifier string) *modelity.FieldDef {
	if len(b.fields) == 0 {
		if b.err == nil {
			b.err = fmt.Errorf("dsl: schema %q: %s before any Field", b.name, modifier)
		}
		return nil
	}
	return &b.fields[len(b.fields)-1]
}
