package modelity

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ---- simple types ----

type simpleType struct{ key string }

func (t simpleType) Key() string { return t.key }

// Bool declares a strict boolean type. Extra accepted literals can be
// configured with BoolLiterals.
func Bool() Type { return simpleType{key: "bool"} }

// Int declares an integer type with permissive coercion: integral floats,
// json.Number and numeric strings all parse; values are stored as int64.
func Int() Type { return simpleType{key: "int"} }

// Float declares a float64 type with permissive coercion from ints,
// json.Number and numeric strings.
func Float() Type { return simpleType{key: "float"} }

// String declares a strict string type.
func String() Type { return simpleType{key: "str"} }

// Bytes declares a byte-slice type; string input is decoded per the default
// encoding (utf-8 passthrough).
func Bytes() Type { return simpleType{key: "bytes"} }

// Any declares a passthrough type accepting arbitrary values.
func Any() Type { return simpleType{key: "any"} }

// UUID declares a uuid.UUID type parsed from canonical string form or raw
// 16-byte slices.
func UUID() Type { return simpleType{key: "uuid"} }

// IPAddr declares a netip.Addr type parsed from string form.
func IPAddr() Type { return simpleType{key: "ipaddr"} }

type boolLiteralsType struct {
	trueLiterals  []any
	falseLiterals []any
	id            uint64
}

func (t *boolLiteralsType) Key() string { return fmt.Sprintf("bool#%d", t.id) }

// BoolLiterals declares a boolean type that additionally maps the given
// literal values to true and false respectively.
func BoolLiterals(trueLiterals, falseLiterals []any) Type {
	return &boolLiteralsType{trueLiterals: trueLiterals, falseLiterals: falseLiterals, id: nextTypeID()}
}

type timeType struct{ formats []string }

func (t timeType) Key() string {
	if len(t.formats) == 0 {
		return "time"
	}
	return "time[" + strings.Join(t.formats, "|") + "]"
}

// Time declares a time.Time type. Input strings are tried against the given
// layouts in order; with no layouts, RFC 3339 (with and without sub-second
// precision) is used. Dump always emits RFC 3339.
func Time(formats ...string) Type { return timeType{formats: formats} }

// ---- literal value sets ----

type enumType struct {
	values []any
	id     uint64
}

func (t *enumType) Key() string { return fmt.Sprintf("enum#%d", t.id) }

// Enum declares a literal-value set: parsing succeeds only for values equal
// to one of the allowed values, which are stored unchanged.
func Enum(values ...any) Type { return &enumType{values: values, id: nextTypeID()} }

// ---- optionality and unions ----

type optionalType struct {
	elem   Type
	strict bool
}

func (t optionalType) Key() string {
	if t.strict {
		return "strictoptional[" + t.elem.Key() + "]"
	}
	return "optional[" + t.elem.Key() + "]"
}

// Optional declares a type that additionally admits nil. Fields declared
// Optional are never required.
func Optional(elem Type) Type { return optionalType{elem: elem} }

// StrictOptional declares a type whose field may stay Unset but rejects nil.
// Fields declared StrictOptional are never required.
func StrictOptional(elem Type) Type { return optionalType{elem: elem, strict: true} }

type unionType struct{ members []Type }

func (t unionType) Key() string {
	keys := make([]string, len(t.members))
	for i, m := range t.members {
		keys[i] = m.Key()
	}
	return "union[" + strings.Join(keys, ",") + "]"
}

// Union declares a union of member types. Parsing tries each member in
// declaration order and succeeds on the first member that parses cleanly.
func Union(members ...Type) Type { return unionType{members: members} }

// ---- containers ----

type listType struct{ elem Type }

func (t listType) Key() string {
	if t.elem == nil {
		return "list"
	}
	return "list[" + t.elem.Key() + "]"
}

// ListOf declares an ordered sequence with typed elements. Parsed values are
// *List proxies that re-parse elements on every mutation.
func ListOf(elem Type) Type { return listType{elem: elem} }

// RawList declares an untyped ordered sequence accepting arbitrary elements.
func RawList() Type { return listType{} }

type setType struct{ elem Type }

func (t setType) Key() string {
	if t.elem == nil {
		return "set"
	}
	return "set[" + t.elem.Key() + "]"
}

// SetOf declares a set with typed elements. Parsed values are *Set proxies.
func SetOf(elem Type) Type { return setType{elem: elem} }

// RawSet declares an untyped set.
func RawSet() Type { return setType{} }

type mapType struct{ key, value Type }

func (t mapType) Key() string {
	if t.key == nil {
		return "map"
	}
	return "map[" + t.key.Key() + "," + t.value.Key() + "]"
}

// MapOf declares a key-ordered mapping with typed keys and values. Parsed
// values are *Map proxies preserving insertion order.
func MapOf(key, value Type) Type { return mapType{key: key, value: value} }

// RawMap declares an untyped mapping.
func RawMap() Type { return mapType{} }

type tupleType struct{ elems []Type }

func (t tupleType) Key() string {
	keys := make([]string, len(t.elems))
	for i, e := range t.elems {
		keys[i] = e.Key()
	}
	return "tuple[" + strings.Join(keys, ",") + "]"
}

// Tuple declares a fixed-length heterogeneous sequence with one type per
// slot. Parsed values are plain []any of exactly that length.
func Tuple(elems ...Type) Type { return tupleType{elems: elems} }

// ---- nested models ----

type modelType struct{ schema *Schema }

// The key carries the schema's build id: distinct schemas may share a name,
// and each must resolve to its own descriptor.
func (t modelType) Key() string {
	return fmt.Sprintf("model[%s#%d]", t.schema.name, t.schema.id)
}

// ModelOf declares a nested record field backed by the given schema.
func ModelOf(s *Schema) Type { return modelType{schema: s} }

// ---- constraints ----

type constrainedType struct {
	elem        Type
	constraints []Constraint
	id          uint64
}

func (t *constrainedType) Key() string {
	return fmt.Sprintf("constrained[%s#%d]", t.elem.Key(), t.id)
}

// Constrained attaches constraints to a type. Constraints run after the
// inner type's parse and are re-checked at validation time; they are not
// re-checked on container proxy mutation.
func Constrained(elem Type, cs ...Constraint) Type {
	return &constrainedType{elem: elem, constraints: cs, id: nextTypeID()}
}

// ---- third-party registration keys ----

type namedType struct{ name string }

func (t namedType) Key() string { return t.name }

// Named declares a type identified only by name; a descriptor factory for it
// must be registered explicitly before any schema referencing it is built.
func Named(name string) Type { return namedType{name: name} }

var typeIDCounter atomic.Uint64

func nextTypeID() uint64 { return typeIDCounter.Add(1) }
