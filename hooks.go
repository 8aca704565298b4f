package modelity

import (
	"errors"
	"sync/atomic"
)

// Processor transforms a field value during parsing. Preprocessors see the
// raw input before type coercion; postprocessors see the typed value after
// it. Returning an error aborts the field's pipeline.
type Processor func(m *Model, loc Loc, v any) (any, error)

// Prevalidator runs once per model before any other validator. Returning
// true skips every remaining validator for that model.
type Prevalidator func(m *Model, rc *RunContext, loc Loc) (bool, error)

// Postvalidator runs once per model after all other validators, including
// nested ones. It may prune rc.Sink to suppress earlier errors.
type Postvalidator func(m *Model, rc *RunContext, loc Loc) error

// FieldValidator runs for a set field during validation.
type FieldValidator func(m *Model, rc *RunContext, loc Loc, v any) error

// LocValidator runs for every validated value whose location matches its
// pattern, including container elements and nested model fields.
type LocValidator func(m *Model, rc *RunContext, loc Loc, v any) error

var hookIDCounter atomic.Uint64

func nextHookID() uint64 { return hookIDCounter.Add(1) }

// ProcessorHook is a registered pre- or postprocessor. With no field names it
// applies to every field.
type ProcessorHook struct {
	id     uint64
	fields []string
	fn     Processor
}

// NewProcessor registers fn for the named fields, or all fields when none
// are named.
func NewProcessor(fn Processor, fields ...string) ProcessorHook {
	return ProcessorHook{id: nextHookID(), fields: fields, fn: fn}
}

func (h ProcessorHook) appliesTo(field string) bool {
	if len(h.fields) == 0 {
		return true
	}
	for _, f := range h.fields {
		if f == field {
			return true
		}
	}
	return false
}

// PrevalidatorHook is a registered model prevalidator.
type PrevalidatorHook struct {
	id uint64
	fn Prevalidator
}

// NewPrevalidator wraps fn as a registrable hook.
func NewPrevalidator(fn Prevalidator) PrevalidatorHook {
	return PrevalidatorHook{id: nextHookID(), fn: fn}
}

// PostvalidatorHook is a registered model postvalidator.
type PostvalidatorHook struct {
	id uint64
	fn Postvalidator
}

// NewPostvalidator wraps fn as a registrable hook.
func NewPostvalidator(fn Postvalidator) PostvalidatorHook {
	return PostvalidatorHook{id: nextHookID(), fn: fn}
}

// FieldValidatorHook is a registered field validator. With no field names it
// applies to every field.
type FieldValidatorHook struct {
	id     uint64
	fields []string
	fn     FieldValidator
}

// NewFieldValidator registers fn for the named fields, or all fields when
// none are named.
func NewFieldValidator(fn FieldValidator, fields ...string) FieldValidatorHook {
	return FieldValidatorHook{id: nextHookID(), fields: fields, fn: fn}
}

func (h FieldValidatorHook) appliesTo(field string) bool {
	if len(h.fields) == 0 {
		return true
	}
	for _, f := range h.fields {
		if f == field {
			return true
		}
	}
	return false
}

// LocValidatorHook is a registered location validator with its location
// pattern.
type LocValidatorHook struct {
	id      uint64
	pattern Loc
	fn      LocValidator
}

// NewLocValidator registers fn for every validated location matching
// pattern, given in dotted form ("items.*.name").
func NewLocValidator(pattern string, fn LocValidator) LocValidatorHook {
	return LocValidatorHook{id: nextHookID(), pattern: ParseLoc(pattern), fn: fn}
}

// Hooks bundles every hook kind attached to a schema. A Hooks value is
// reusable: merging the same bundle into several schemas attaches each hook
// once per schema, and repeated merges deduplicate by hook identity.
type Hooks struct {
	Preprocessors   []ProcessorHook
	Postprocessors  []ProcessorHook
	Prevalidators   []PrevalidatorHook
	Postvalidators  []PostvalidatorHook
	FieldValidators []FieldValidatorHook
	LocValidators   []LocValidatorHook
}

// Merge appends other's hooks in order, skipping hooks already present.
func (h *Hooks) Merge(other Hooks) {
	seen := map[uint64]bool{}
	for _, p := range h.Preprocessors {
		seen[p.id] = true
	}
	for _, p := range h.Postprocessors {
		seen[p.id] = true
	}
	for _, p := range h.Prevalidators {
		seen[p.id] = true
	}
	for _, p := range h.Postvalidators {
		seen[p.id] = true
	}
	for _, p := range h.FieldValidators {
		seen[p.id] = true
	}
	for _, p := range h.LocValidators {
		seen[p.id] = true
	}
	for _, p := range other.Preprocessors {
		if !seen[p.id] {
			h.Preprocessors = append(h.Preprocessors, p)
		}
	}
	for _, p := range other.Postprocessors {
		if !seen[p.id] {
			h.Postprocessors = append(h.Postprocessors, p)
		}
	}
	for _, p := range other.Prevalidators {
		if !seen[p.id] {
			h.Prevalidators = append(h.Prevalidators, p)
		}
	}
	for _, p := range other.Postvalidators {
		if !seen[p.id] {
			h.Postvalidators = append(h.Postvalidators, p)
		}
	}
	for _, p := range other.FieldValidators {
		if !seen[p.id] {
			h.FieldValidators = append(h.FieldValidators, p)
		}
	}
	for _, p := range other.LocValidators {
		if !seen[p.id] {
			h.LocValidators = append(h.LocValidators, p)
		}
	}
}

// appendHookError records a hook failure in the sink. A *UserError keeps its
// code, data and overrides; any other error becomes an EXCEPTION record. The
// returned flag reports a requested validator skip.
func appendHookError(sink *ErrorSink, loc Loc, value any, err error) bool {
	var ue *UserError
	if errors.As(err, &ue) {
		sink.Append(ue.asError(loc, value))
		return ue.Skip
	}
	sink.Append(errException(loc, value, err))
	return false
}
