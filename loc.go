package modelity

import (
	"fmt"
	"strconv"
	"strings"
)

// Wildcard is the pattern segment that matches any single Loc segment.
// It is only meaningful inside patterns passed to location validators.
const Wildcard = "*"

// Loc is a structural path pointing at exactly one value inside a nested
// model: a sequence of field names (string), container indices (int) and map
// keys. The zero value is the root location.
type Loc []any

// NewLoc builds a location from the given segments.
func NewLoc(segs ...any) Loc { return Loc(segs) }

// Push returns a new location with seg appended. The receiver is not
// modified; the result never aliases the receiver's backing array.
func (l Loc) Push(seg any) Loc {
	out := make(Loc, len(l)+1)
	copy(out, l)
	out[len(l)] = seg
	return out
}

// Join concatenates two locations.
func (l Loc) Join(other Loc) Loc {
	if len(other) == 0 {
		return l
	}
	out := make(Loc, 0, len(l)+len(other))
	out = append(out, l...)
	out = append(out, other...)
	return out
}

// String renders the location in dotted form, e.g. "items.2.price". The root
// location renders as an empty string.
func (l Loc) String() string {
	if len(l) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, seg := range l {
		if i > 0 {
			b.WriteByte('.')
		}
		switch s := seg.(type) {
		case string:
			b.WriteString(s)
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprintf(b, "%v", s)
		}
	}
	return b.String()
}

// Matches reports whether pattern is a suffix of l, with Wildcard segments
// matching any single segment. An empty pattern matches nothing.
func (l Loc) Matches(pattern Loc) bool {
	if len(pattern) == 0 || len(pattern) > len(l) {
		return false
	}
	off := len(l) - len(pattern)
	for i, p := range pattern {
		if p == Wildcard {
			continue
		}
		if !segEqual(l[off+i], p) {
			return false
		}
	}
	return true
}

func segEqual(a, b any) bool {
	if a == b {
		return true
	}
	// pattern segments parsed from strings carry indices as ints already, but
	// be lenient about int-vs-string index notation
	if ai, ok := a.(int); ok {
		if bs, ok := b.(string); ok {
			return strconv.Itoa(ai) == bs
		}
	}
	if as, ok := a.(string); ok {
		if bi, ok := b.(int); ok {
			return as == strconv.Itoa(bi)
		}
	}
	return false
}

// ParseLoc parses a dotted pattern like "items.*.name" into a Loc. Segments
// consisting solely of digits become int indices; "*" becomes Wildcard.
func ParseLoc(s string) Loc {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	out := make(Loc, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, p)
	}
	return out
}
