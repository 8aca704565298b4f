// Package rules provides the built-in constraints attached to field types
// via modelity.Constrained:
//
//	dsl.Schema("Product").
//		Field("price", modelity.Constrained(modelity.Float(), rules.Min(0))).
//		Field("name", modelity.Constrained(modelity.String(), rules.MinLen(1)))
//
// Constraints run after the inner type's parse and are re-checked during
// validation.
package rules

import (
	"regexp"

	modelity "github.com/modelity/modelity-go"
)

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func length(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []byte:
		return len(t), true
	case []any:
		return len(t), true
	case *modelity.List:
		return t.Len(), true
	case *modelity.Set:
		return t.Len(), true
	case *modelity.Map:
		return t.Len(), true
	}
	return 0, false
}

type minRule struct{ min float64 }

// Min requires a numeric value >= min.
func Min(min float64) modelity.Constraint { return minRule{min: min} }

func (r minRule) Name() string { return "min" }

func (r minRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if f, ok := asNumber(v); ok && f >= r.min {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"min": r.min}))
	return false
}

type maxRule struct{ max float64 }

// Max requires a numeric value <= max.
func Max(max float64) modelity.Constraint { return maxRule{max: max} }

func (r maxRule) Name() string { return "max" }

func (r maxRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if f, ok := asNumber(v); ok && f <= r.max {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"max": r.max}))
	return false
}

type rangeRule struct{ min, max float64 }

// Range requires min <= value <= max.
func Range(min, max float64) modelity.Constraint { return rangeRule{min: min, max: max} }

func (r rangeRule) Name() string { return "range" }

func (r rangeRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if f, ok := asNumber(v); ok && f >= r.min && f <= r.max {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"min": r.min, "max": r.max}))
	return false
}

type minLenRule struct{ n int }

// MinLen requires a string or container of at least n elements. String
// length counts runes.
func MinLen(n int) modelity.Constraint { return minLenRule{n: n} }

func (r minLenRule) Name() string { return "min_len" }

func (r minLenRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if l, ok := length(v); ok && l >= r.n {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"min_len": r.n}))
	return false
}

type maxLenRule struct{ n int }

// MaxLen requires a string or container of at most n elements.
func MaxLen(n int) modelity.Constraint { return maxLenRule{n: n} }

func (r maxLenRule) Name() string { return "max_len" }

func (r maxLenRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if l, ok := length(v); ok && l <= r.n {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"max_len": r.n}))
	return false
}

type regexRule struct{ re *regexp.Regexp }

// Regex requires a string matching the pattern. It panics on an invalid
// pattern, like regexp.MustCompile.
func Regex(pattern string) modelity.Constraint {
	return regexRule{re: regexp.MustCompile(pattern)}
}

func (r regexRule) Name() string { return "regex" }

func (r regexRule) Check(sink *modelity.ErrorSink, loc modelity.Loc, v any) bool {
	if s, ok := v.(string); ok && r.re.MatchString(s) {
		return true
	}
	sink.Append(modelity.ConstraintError(loc, v, r.Name(), map[string]any{"pattern": r.re.String()}))
	return false
}
