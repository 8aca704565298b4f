// Package modelity is a runtime data-modeling engine: schemas declare typed
// fields, raw input is coerced through per-type descriptors into model
// instances, and a separate validation pipeline checks semantic rules.
//
// The two pipelines stay disjoint. Parsing turns raw values into typed ones
// and fails with *ParsingError; validation checks already-typed models and
// fails with *ValidationError. Both carry ordered Error records pinned to
// structural locations ("items.2.price").
//
// A minimal schema:
//
//	pair := dsl.Schema("Pair").
//		Field("x", modelity.Int()).
//		Field("y", modelity.Int()).
//		MustBuild()
//
//	m, err := pair.New(map[string]any{"x": "1", "y": "2"})
//	// m.Get("x") == int64(1)
//
// Fields hold the Unset sentinel until assigned. Construction reports only
// parse failures; whether a required field is still missing is a validation
// concern:
//
//	m, _ = pair.New(map[string]any{"x": "1"})
//	err = modelity.Validate(m) // REQUIRED_MISSING at "y"
//
// Container fields parse into mutable proxies (*List, *Set, *Map) that
// re-run element descriptors on every mutation, so a model never holds a
// value that did not pass its field's parse.
package modelity
