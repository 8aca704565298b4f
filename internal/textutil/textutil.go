// Package textutil holds small text helpers shared by error rendering and
// model reprs.
package textutil

import (
	"fmt"
	"strconv"
)

// Repr renders a value for human-readable output. Strings are quoted so
// "1" and 1 stay distinguishable in messages.
func Repr(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%v", v)
}

// TypeName returns the Go type name of v, "nil" for a nil interface.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
