package modelity

import (
	"fmt"

	"github.com/modelity/modelity-go/i18n"
	"github.com/modelity/modelity-go/internal/textutil"
)

// Error codes (exported consts for IDE completion and type safety by
// convention). Codes are stable machine-readable identifiers, independent of
// message wording.
const (
	CodeParseError         = "modelity.PARSE_ERROR"
	CodeInvalidType        = "modelity.INVALID_TYPE"
	CodeInvalidValue       = "modelity.INVALID_VALUE"
	CodeInvalidEnumValue   = "modelity.INVALID_ENUM_VALUE"
	CodeInvalidTupleLength = "modelity.INVALID_TUPLE_LENGTH"
	CodeUnionParseError    = "modelity.UNION_PARSE_ERROR"
	CodeRequiredMissing    = "modelity.REQUIRED_MISSING"
	CodeNilNotAllowed      = "modelity.NIL_NOT_ALLOWED"
	CodeConstraintFailed   = "modelity.CONSTRAINT_FAILED"
	CodeDecodeError        = "modelity.DECODE_ERROR"
	CodeException          = "modelity.EXCEPTION"
	CodeUserError          = "modelity.USER_ERROR"
)

// Error is a single parsing or validation failure pinned to one location.
type Error struct {
	// Loc is the error location in the model.
	Loc Loc
	// Code is one of the Code* constants, or a user-defined code.
	Code string
	// Msg is the formatted, human-readable message.
	Msg string
	// Value is the offending input value, or Unset when not applicable.
	Value any
	// Data carries structured parameters (e.g. {"min": 1, "max": 10}) for
	// custom rendering and observability. Same code, same structure.
	Data map[string]any
}

// ValueType returns the Go type name of the offending value, or "Unset".
func (e Error) ValueType() string {
	if IsUnset(e.Value) {
		return "Unset"
	}
	return textutil.TypeName(e.Value)
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s [code=%s]", e.Loc, e.Msg, e.Code)
}

// ---- factory helpers (built-in error shapes) ----

func errParse(loc Loc, value any, target string) Error {
	return Error{
		Loc:   loc,
		Code:  CodeParseError,
		Msg:   i18n.T(CodeParseError, map[string]any{"target": target}),
		Value: value,
		Data:  map[string]any{"target": target},
	}
}

func errInvalidType(loc Loc, value any, expected ...string) Error {
	return Error{
		Loc:   loc,
		Code:  CodeInvalidType,
		Msg:   i18n.T(CodeInvalidType, map[string]any{"expected": expected}),
		Value: value,
		Data:  map[string]any{"expected": expected},
	}
}

func errInvalidEnumValue(loc Loc, value any, allowed []any) Error {
	return Error{
		Loc:   loc,
		Code:  CodeInvalidEnumValue,
		Msg:   i18n.T(CodeInvalidEnumValue, map[string]any{"allowed": allowed}),
		Value: value,
		Data:  map[string]any{"allowed": allowed},
	}
}

func errInvalidTupleLength(loc Loc, value any, want int) Error {
	return Error{
		Loc:   loc,
		Code:  CodeInvalidTupleLength,
		Msg:   i18n.T(CodeInvalidTupleLength, map[string]any{"expected": want}),
		Value: value,
		Data:  map[string]any{"expected": want},
	}
}

func errUnionParse(loc Loc, value any, members []string) Error {
	return Error{
		Loc:   loc,
		Code:  CodeUnionParseError,
		Msg:   i18n.T(CodeUnionParseError, map[string]any{"types": members}),
		Value: value,
		Data:  map[string]any{"types": members},
	}
}

func errRequiredMissing(loc Loc) Error {
	return Error{
		Loc:   loc,
		Code:  CodeRequiredMissing,
		Msg:   i18n.T(CodeRequiredMissing, nil),
		Value: Unset,
	}
}

func errNilNotAllowed(loc Loc, typeKey string) Error {
	return Error{
		Loc:  loc,
		Code: CodeNilNotAllowed,
		Msg:  i18n.T(CodeNilNotAllowed, map[string]any{"type": typeKey}),
		Data: map[string]any{"type": typeKey},
	}
}

func errDecode(loc Loc, value any, cause error) Error {
	return Error{
		Loc:   loc,
		Code:  CodeDecodeError,
		Msg:   i18n.T(CodeDecodeError, map[string]any{"cause": cause.Error()}),
		Value: value,
		Data:  map[string]any{"cause": cause.Error()},
	}
}

func errException(loc Loc, value any, cause error) Error {
	return Error{
		Loc:   loc,
		Code:  CodeException,
		Msg:   cause.Error(),
		Value: value,
		Data:  map[string]any{"error_type": fmt.Sprintf("%T", cause)},
	}
}

// ConstraintError builds a CONSTRAINT_FAILED error for a named constraint.
// It is exported for use by constraint implementations (see the rules
// package).
func ConstraintError(loc Loc, value any, constraint string, data map[string]any) Error {
	d := map[string]any{"constraint": constraint}
	for k, v := range data {
		d[k] = v
	}
	return Error{
		Loc:   loc,
		Code:  CodeConstraintFailed,
		Msg:   i18n.T(CodeConstraintFailed, map[string]any{"constraint": constraint}),
		Value: value,
		Data:  d,
	}
}

// WrapDecodeError builds a *ParsingError carrying a single DECODE_ERROR
// record at the root location. Codecs use it when the encoded payload cannot
// even be decoded into a raw tree.
func WrapDecodeError(model string, cause error) *ParsingError {
	return NewParsingError(model, []Error{errDecode(nil, Unset, cause)})
}

// ---- error sink ----

// ErrorSink is the ordered, insertion-order-preserving error accumulator
// shared by reference through a whole parsing or validation run. Hooks may
// both append to it and prune it; pruning is the sanctioned mechanism for a
// postvalidator to suppress errors raised by earlier steps.
type ErrorSink struct {
	errs []Error
}

// NewErrorSink returns an empty sink.
func NewErrorSink() *ErrorSink { return &ErrorSink{} }

// Append adds errors to the sink, preserving order.
func (s *ErrorSink) Append(errs ...Error) { s.errs = append(s.errs, errs...) }

// Len returns the number of accumulated errors.
func (s *ErrorSink) Len() int { return len(s.errs) }

// Errors returns the accumulated errors in insertion order. The returned
// slice is the sink's backing storage; callers that need a stable copy must
// copy it themselves.
func (s *ErrorSink) Errors() []Error { return s.errs }

// Prune keeps only the errors for which keep returns true.
func (s *ErrorSink) Prune(keep func(Error) bool) {
	out := s.errs[:0]
	for _, e := range s.errs {
		if keep(e) {
			out = append(out, e)
		}
	}
	s.errs = out
}

// PruneAt drops every error whose location matches the given pattern
// (suffix match with wildcards, see Loc.Matches).
func (s *ErrorSink) PruneAt(pattern Loc) {
	s.Prune(func(e Error) bool { return !e.Loc.Matches(pattern) })
}
