package modelity

import (
	"fmt"
	"strings"
)

// ParsingError reports that raw input could not become a typed value. It is
// raised only by Construct, Assign and container mutation; validation never
// produces it.
type ParsingError struct {
	model string
	errs  []Error
}

// NewParsingError wraps errors produced while parsing values for the named
// model (or container element type).
func NewParsingError(model string, errs []Error) *ParsingError {
	return &ParsingError{model: model, errs: errs}
}

// Errors returns the individual error records in insertion order.
func (e *ParsingError) Errors() []Error { return e.errs }

// Count returns the total number of errors.
func (e *ParsingError) Count() int { return len(e.errs) }

func (e *ParsingError) Error() string {
	return renderGrouped(fmt.Sprintf("found %d parsing error(s) for %q", len(e.errs), e.model), e.errs)
}

// ValidationError reports that a fully-typed model violates a semantic rule.
// It is raised only by Validate (and the validation phase of Load).
type ValidationError struct {
	model string
	errs  []Error
}

// NewValidationError wraps errors produced while validating the named model.
func NewValidationError(model string, errs []Error) *ValidationError {
	return &ValidationError{model: model, errs: errs}
}

// Errors returns the individual error records in insertion order.
func (e *ValidationError) Errors() []Error { return e.errs }

// Count returns the total number of errors.
func (e *ValidationError) Count() int { return len(e.errs) }

func (e *ValidationError) Error() string {
	return renderGrouped(fmt.Sprintf("found %d validation error(s) for %q", len(e.errs), e.model), e.errs)
}

// renderGrouped renders errors grouped by location, locations in first-seen
// order, so output is deterministic for a given error sequence.
func renderGrouped(header string, errs []Error) string {
	b := &strings.Builder{}
	b.WriteString(header)
	b.WriteByte(':')
	var order []string
	grouped := map[string][]Error{}
	for _, e := range errs {
		key := e.Loc.String()
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}
	for _, key := range order {
		label := key
		if label == "" {
			label = "(root)"
		}
		fmt.Fprintf(b, "\n  %s:", label)
		for _, e := range grouped[key] {
			fmt.Fprintf(b, "\n    %s [code=%s]", e.Msg, e.Code)
		}
	}
	return b.String()
}

// UnsupportedTypeError is raised at schema-build time when a declared field
// type cannot be resolved to a descriptor.
type UnsupportedTypeError struct {
	// Key is the cache key of the offending type.
	Key string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type used: %s", e.Key)
}

// UserError lets a hook report a single error with an explicit
// machine-readable code and structured data, without manual sink
// manipulation. Returning any other error from a hook is sugar for a single
// EXCEPTION-coded error at the hook's location.
type UserError struct {
	// Msg is the error message.
	Msg string
	// Code defaults to CodeUserError when empty.
	Code string
	// Loc overrides the hook's current location when non-nil.
	Loc Loc
	// Value overrides the hook's current value when set.
	Value any
	// Data carries optional structured context.
	Data map[string]any
	// Skip requests skipping the remaining validators for the current model.
	// Honored only when returned from a model prevalidator.
	Skip bool
}

func (e *UserError) Error() string { return e.Msg }

// asError converts a UserError into an Error record, filling location and
// value from the hook context where the UserError leaves them unset.
func (e *UserError) asError(loc Loc, value any) Error {
	code := e.Code
	if code == "" {
		code = CodeUserError
	}
	out := Error{Loc: loc, Code: code, Msg: e.Msg, Value: value, Data: e.Data}
	if e.Loc != nil {
		out.Loc = e.Loc
	}
	if e.Value != nil {
		out.Value = e.Value
	}
	return out
}
