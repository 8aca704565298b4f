package modelity

import (
	"fmt"
	"reflect"
	"strings"
)

// Invalid marks a field that was supplied during construction but failed to
// parse. It keeps the raw input for diagnostics. Validation treats Invalid
// fields as supplied (no REQUIRED_MISSING) but runs no further checks on
// them; the parse errors were already reported.
type Invalid struct {
	Raw any
}

func (i Invalid) String() string { return fmt.Sprintf("Invalid(%v)", i.Raw) }

// Model is a record instance: one value slot per schema field, each holding
// Unset, an Invalid wrapper or a value that already passed the field's parse.
// Models are not safe for concurrent mutation.
type Model struct {
	schema *Schema
	values []any
}

// Schema returns the schema the model was built from.
func (m *Model) Schema() *Schema { return m.schema }

// Get returns the current value of the named field, Unset included. It
// panics when the schema does not declare the field.
func (m *Model) Get(name string) any {
	return m.values[m.mustField(name).index]
}

// GetInt returns the named field as int64; ok is false when the field holds
// anything else.
func (m *Model) GetInt(name string) (int64, bool) {
	n, ok := m.Get(name).(int64)
	return n, ok
}

// GetString returns the named field as string; ok is false when the field
// holds anything else.
func (m *Model) GetString(name string) (string, bool) {
	s, ok := m.Get(name).(string)
	return s, ok
}

// Set parses v through the field's pipeline and stores the result. On parse
// failure the field keeps its previous value and Set returns *ParsingError.
// It panics when the schema does not declare the field.
func (m *Model) Set(name string, v any) error {
	f := m.mustField(name)
	prev := m.values[f.index]
	sink := NewErrorSink()
	m.schema.parseField(sink, nil, m, f, v)
	if sink.Len() > 0 {
		m.values[f.index] = prev
		return NewParsingError(m.schema.name, sink.Errors())
	}
	return nil
}

// Unset clears the named field back to the Unset sentinel.
func (m *Model) Unset(name string) {
	m.values[m.mustField(name).index] = Unset
}

// Has reports whether the named field currently holds a value (anything but
// Unset). It returns false for undeclared fields.
func (m *Model) Has(name string) bool {
	f, ok := m.schema.byName[name]
	if !ok {
		return false
	}
	return !IsUnset(m.values[f.index])
}

// Names returns the field names in declaration order.
func (m *Model) Names() []string { return m.schema.FieldNames() }

// SetNames returns the names of fields currently holding a value, in
// declaration order.
func (m *Model) SetNames() []string {
	var out []string
	for _, f := range m.schema.fields {
		if !IsUnset(m.values[f.index]) {
			out = append(out, f.info.Name)
		}
	}
	return out
}

// HasFieldsSet reports whether any field holds a value.
func (m *Model) HasFieldsSet() bool {
	for _, v := range m.values {
		if !IsUnset(v) {
			return true
		}
	}
	return false
}

// Equal reports whether other shares the schema and every field compares
// deeply equal.
func (m *Model) Equal(other *Model) bool {
	if other == nil || m.schema != other.schema {
		return false
	}
	return reflect.DeepEqual(m.values, other.values)
}

func (m *Model) String() string {
	b := &strings.Builder{}
	b.WriteString(m.schema.name)
	b.WriteByte('(')
	for i, f := range m.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=%s", f.info.Name, reprValue(m.values[i]))
	}
	b.WriteByte(')')
	return b.String()
}

func (m *Model) mustField(name string) *field {
	f, ok := m.schema.byName[name]
	if !ok {
		panic(fmt.Sprintf("modelity: model %q has no field %q", m.schema.name, name))
	}
	return f
}
