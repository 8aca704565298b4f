package modelity

// DumpFilter transforms and optionally drops values while dumping. It
// receives each value's location and the value itself and returns the value
// to emit plus true, or anything plus false to skip the value entirely.
type DumpFilter func(loc Loc, v any) (any, bool)

// KeepAll is the identity DumpFilter.
func KeepAll(loc Loc, v any) (any, bool) { return v, true }

// RunContext carries the cross-cutting state of one validation run: the root
// model, the user-supplied opaque context and the shared error sink. It is
// passed unmodified to every validator invocation for the whole run.
type RunContext struct {
	// Root is the top-level model Validate was invoked on.
	Root *Model
	// Ctx is the user-supplied validation context; the framework attaches no
	// semantics to it.
	Ctx any
	// Sink collects validation errors for the whole run.
	Sink *ErrorSink

	locFrames []locFrame
}

// Descriptor bundles the three capabilities resolved once per declared type:
// coercing raw input, dumping to a plain tree and re-checking semantic rules.
// Descriptors are stateless with respect to model instances; composite
// descriptors close over their sub-descriptors.
type Descriptor interface {
	// Parse coerces a raw value into the descriptor's type, appending errors
	// to the sink at loc. It returns Unset when parsing failed.
	Parse(sink *ErrorSink, loc Loc, v any) any
	// Dump converts an already-parsed value into a plain tree of primitives,
	// sequences and maps, applying filter to nested values.
	Dump(loc Loc, v any, filter DumpFilter) any
	// Validate re-checks semantic rules on an already-parsed value and
	// recurses into nested models and containers.
	Validate(rc *RunContext, loc Loc, v any)
}

// Type is a declared type expression: the key under which a Descriptor is
// resolved and memoized. Keys include generic parameterization, so
// "list[int]" and "list[str]" are distinct.
type Type interface {
	Key() string
}

// DescriptorProvider is the static-factory resolution path: a Type that
// knows how to build its own Descriptor. The registry consults it after
// explicit overrides and before built-ins.
type DescriptorProvider interface {
	Type
	ModelityDescriptor(r *Registry) (Descriptor, error)
}

// Constraint is a reusable value check attached to a field type via
// Constrained. Constraints run at parse time and are re-checked during
// validation; they are NOT re-checked on container proxy mutation.
type Constraint interface {
	// Name identifies the constraint in error data.
	Name() string
	// Check appends errors to the sink when v violates the constraint and
	// returns false; it returns true when v passes.
	Check(sink *ErrorSink, loc Loc, v any) bool
}
