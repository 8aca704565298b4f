package modelity

// UnsetType is the type of the Unset sentinel. It has exactly one value and
// is never equal to any domain value, including nil.
type UnsetType struct{}

func (UnsetType) String() string { return "Unset" }

// Unset marks a field slot that holds no value. It is distinct from nil: a
// field may legitimately hold nil (for Optional types) while still counting
// as set.
var Unset = UnsetType{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(UnsetType)
	return ok
}
