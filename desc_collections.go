package modelity

import (
	"fmt"
	"reflect"
	"sort"
)

// asSequence converts a raw value into a []any when the value is sequence
// shaped. Strings and byte slices are not sequences here.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case *List:
		return t.Items(), true
	case *Set:
		return t.Items(), true
	case string, []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

type rawPair struct{ key, value any }

// asMapping converts a raw value into ordered key/value pairs. Unordered Go
// maps are sorted by key rendering so parse results are deterministic.
func asMapping(v any) ([]rawPair, bool) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]rawPair, 0, len(keys))
		for _, k := range keys {
			out = append(out, rawPair{key: k, value: t[k]})
		}
		return out, true
	case *Map:
		out := make([]rawPair, 0, t.Len())
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			out = append(out, rawPair{key: k, value: val})
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make([]rawPair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, rawPair{key: iter.Key().Interface(), value: iter.Value().Interface()})
	}
	sort.Slice(out, func(i, j int) bool { return reprValue(out[i].key) < reprValue(out[j].key) })
	return out, true
}

// valueKey renders an identity key for set membership and map key lookup.
// Parsed values are normalized (int64, float64, string...) so the type tag
// keeps distinct types from colliding.
func valueKey(v any) string {
	return fmt.Sprintf("%T\x00%v", v, v)
}

// ---- list ----

// listDescriptor parses sequences into *List proxies. With a nil elem the
// list is untyped and elements pass through unparsed.
type listDescriptor struct {
	elem    Descriptor
	elemKey string
}

func (d *listDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	seq, ok := asSequence(v)
	if !ok {
		sink.Append(errInvalidType(loc, v, "list"))
		return Unset
	}
	items := make([]any, 0, len(seq))
	before := sink.Len()
	for i, el := range seq {
		if d.elem == nil {
			items = append(items, el)
			continue
		}
		parsed := d.elem.Parse(sink, loc.Push(i), el)
		if !IsUnset(parsed) {
			items = append(items, parsed)
		}
	}
	if sink.Len() > before {
		return Unset
	}
	return &List{elem: d.elem, elemKey: d.elemKey, loc: loc, items: items}
}

func (d *listDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	l, ok := v.(*List)
	if !ok {
		return v
	}
	return l.dump(loc, filter)
}

func (d *listDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	l, ok := v.(*List)
	if !ok {
		return
	}
	for i, el := range l.items {
		elLoc := loc.Push(i)
		rc.applyLocValidators(elLoc, el)
		if d.elem != nil {
			d.elem.Validate(rc, elLoc, el)
		}
	}
}

// List is the mutable proxy stored for list-typed fields. Every mutation
// runs new elements through the element descriptor; a failed parse leaves
// the list unchanged and surfaces as *ParsingError.
type List struct {
	elem    Descriptor
	elemKey string
	loc     Loc
	items   []any
}

// NewList builds a detached typed list proxy, parsing the given items.
func NewList(t Type, items ...any) (*List, error) {
	d, err := DefaultRegistry().Resolve(ListOf(t))
	if err != nil {
		return nil, err
	}
	sink := NewErrorSink()
	parsed := d.Parse(sink, nil, items)
	if sink.Len() > 0 {
		return nil, NewParsingError(t.Key(), sink.Errors())
	}
	return parsed.(*List), nil
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at index i. It panics when i is out of range.
func (l *List) Get(i int) any { return l.items[i] }

// Items returns a copy of the elements in order.
func (l *List) Items() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Append parses v and appends it. The list is unchanged on parse failure.
func (l *List) Append(v any) error {
	parsed, err := l.parseElem(len(l.items), v)
	if err != nil {
		return err
	}
	l.items = append(l.items, parsed)
	return nil
}

// Insert parses v and inserts it at index i, shifting later elements.
func (l *List) Insert(i int, v any) error {
	parsed, err := l.parseElem(i, v)
	if err != nil {
		return err
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = parsed
	return nil
}

// Set parses v and replaces the element at index i.
func (l *List) Set(i int, v any) error {
	parsed, err := l.parseElem(i, v)
	if err != nil {
		return err
	}
	l.items[i] = parsed
	return nil
}

// Delete removes the element at index i.
func (l *List) Delete(i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
}

func (l *List) parseElem(i int, v any) (any, error) {
	if l.elem == nil {
		return v, nil
	}
	sink := NewErrorSink()
	parsed := l.elem.Parse(sink, l.loc.Push(i), v)
	if sink.Len() > 0 {
		return nil, NewParsingError(l.elemKey, sink.Errors())
	}
	return parsed, nil
}

func (l *List) dump(loc Loc, filter DumpFilter) any {
	out := make([]any, 0, len(l.items))
	for i, el := range l.items {
		elLoc := loc.Push(i)
		var dumped any
		if l.elem != nil {
			dumped = l.elem.Dump(elLoc, el, filter)
		} else {
			dumped = dumpAny(elLoc, el, filter)
		}
		if fv, ok := filter(elLoc, dumped); ok {
			out = append(out, fv)
		}
	}
	return out
}

func (l *List) String() string { return fmt.Sprintf("%v", l.items) }

// ---- set ----

// setDescriptor parses sequences into *Set proxies, deduplicating while
// preserving first-occurrence order.
type setDescriptor struct {
	elem    Descriptor
	elemKey string
}

func (d *setDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	seq, ok := asSequence(v)
	if !ok {
		sink.Append(errInvalidType(loc, v, "set"))
		return Unset
	}
	s := &Set{elem: d.elem, elemKey: d.elemKey, loc: loc, index: map[string]int{}}
	before := sink.Len()
	for i, el := range seq {
		parsed := el
		if d.elem != nil {
			parsed = d.elem.Parse(sink, loc.Push(i), el)
			if IsUnset(parsed) {
				continue
			}
		}
		s.add(parsed)
	}
	if sink.Len() > before {
		return Unset
	}
	return s
}

func (d *setDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	s, ok := v.(*Set)
	if !ok {
		return v
	}
	return s.dump(loc, filter)
}

func (d *setDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	s, ok := v.(*Set)
	if !ok {
		return
	}
	for i, el := range s.items {
		elLoc := loc.Push(i)
		rc.applyLocValidators(elLoc, el)
		if d.elem != nil {
			d.elem.Validate(rc, elLoc, el)
		}
	}
}

// Set is the mutable proxy stored for set-typed fields. Membership is by
// parsed-value identity; insertion order is preserved for deterministic
// iteration and dump.
type Set struct {
	elem    Descriptor
	elemKey string
	loc     Loc
	items   []any
	index   map[string]int
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.items) }

// Has reports whether v (parsed through the element type) is a member.
func (s *Set) Has(v any) bool {
	parsed, err := s.parseElem(v)
	if err != nil {
		return false
	}
	_, ok := s.index[valueKey(parsed)]
	return ok
}

// Items returns a copy of the elements in insertion order.
func (s *Set) Items() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Add parses v and inserts it. Adding an existing member is a no-op.
func (s *Set) Add(v any) error {
	parsed, err := s.parseElem(v)
	if err != nil {
		return err
	}
	s.add(parsed)
	return nil
}

// Discard removes v (parsed through the element type) and reports whether
// the set contained it.
func (s *Set) Discard(v any) bool {
	parsed, err := s.parseElem(v)
	if err != nil {
		return false
	}
	key := valueKey(parsed)
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, key)
	for k, j := range s.index {
		if j > i {
			s.index[k] = j - 1
		}
	}
	return true
}

func (s *Set) add(parsed any) {
	key := valueKey(parsed)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, parsed)
}

func (s *Set) parseElem(v any) (any, error) {
	if s.elem == nil {
		return v, nil
	}
	sink := NewErrorSink()
	parsed := s.elem.Parse(sink, s.loc.Push(len(s.items)), v)
	if sink.Len() > 0 {
		return nil, NewParsingError(s.elemKey, sink.Errors())
	}
	return parsed, nil
}

func (s *Set) dump(loc Loc, filter DumpFilter) any {
	out := make([]any, 0, len(s.items))
	for i, el := range s.items {
		elLoc := loc.Push(i)
		var dumped any
		if s.elem != nil {
			dumped = s.elem.Dump(elLoc, el, filter)
		} else {
			dumped = dumpAny(elLoc, el, filter)
		}
		if fv, ok := filter(elLoc, dumped); ok {
			out = append(out, fv)
		}
	}
	return out
}

func (s *Set) String() string { return fmt.Sprintf("%v", s.items) }

// ---- map ----

// mapDescriptor parses mappings into *Map proxies. With a nil key the map is
// untyped and entries pass through unparsed.
type mapDescriptor struct {
	key      Descriptor
	value    Descriptor
	keyKey   string
	valueKey string
}

func (d *mapDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	pairs, ok := asMapping(v)
	if !ok {
		sink.Append(errInvalidType(loc, v, "map"))
		return Unset
	}
	m := &Map{key: d.key, value: d.value, keyTypeKey: d.keyKey, valueTypeKey: d.valueKey, loc: loc, index: map[string]int{}}
	before := sink.Len()
	for _, p := range pairs {
		k, val := p.key, p.value
		if d.key != nil {
			entryLoc := loc.Push(k)
			k = d.key.Parse(sink, entryLoc, k)
			if IsUnset(k) {
				continue
			}
			val = d.value.Parse(sink, loc.Push(k), val)
			if IsUnset(val) {
				continue
			}
		}
		m.set(k, val)
	}
	if sink.Len() > before {
		return Unset
	}
	return m
}

func (d *mapDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	m, ok := v.(*Map)
	if !ok {
		return v
	}
	return m.dump(loc, filter)
}

func (d *mapDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	m, ok := v.(*Map)
	if !ok {
		return
	}
	for i, k := range m.keys {
		entryLoc := loc.Push(k)
		rc.applyLocValidators(entryLoc, m.values[i])
		if d.value != nil {
			d.value.Validate(rc, entryLoc, m.values[i])
		}
	}
}

// Map is the mutable proxy stored for map-typed fields. Keys and values run
// through their descriptors on every mutation; insertion order is preserved.
type Map struct {
	key          Descriptor
	value        Descriptor
	keyTypeKey   string
	valueTypeKey string
	loc          Loc
	keys         []any
	values       []any
	index        map[string]int
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value for k (parsed through the key type).
func (m *Map) Get(k any) (any, bool) {
	parsed, err := m.parseKey(k)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[valueKey(parsed)]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	out := make([]any, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns a copy of the values in key insertion order.
func (m *Map) Values() []any {
	out := make([]any, len(m.values))
	copy(out, m.values)
	return out
}

// Set parses k and v and stores the entry, overwriting an existing key in
// place. The map is unchanged on parse failure.
func (m *Map) Set(k, v any) error {
	parsedKey, err := m.parseKey(k)
	if err != nil {
		return err
	}
	parsedVal := v
	if m.value != nil {
		sink := NewErrorSink()
		parsedVal = m.value.Parse(sink, m.loc.Push(parsedKey), v)
		if sink.Len() > 0 {
			return NewParsingError(m.valueTypeKey, sink.Errors())
		}
	}
	m.set(parsedKey, parsedVal)
	return nil
}

// Delete removes the entry for k and reports whether it existed.
func (m *Map) Delete(k any) bool {
	parsed, err := m.parseKey(k)
	if err != nil {
		return false
	}
	key := valueKey(parsed)
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	delete(m.index, key)
	for kk, j := range m.index {
		if j > i {
			m.index[kk] = j - 1
		}
	}
	return true
}

func (m *Map) set(k, v any) {
	key := valueKey(k)
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

func (m *Map) parseKey(k any) (any, error) {
	if m.key == nil {
		return k, nil
	}
	sink := NewErrorSink()
	parsed := m.key.Parse(sink, m.loc.Push(k), k)
	if sink.Len() > 0 {
		return nil, NewParsingError(m.keyTypeKey, sink.Errors())
	}
	return parsed, nil
}

func (m *Map) dump(loc Loc, filter DumpFilter) any {
	out := make(map[string]any, len(m.keys))
	for i, k := range m.keys {
		entryLoc := loc.Push(k)
		var dumped any
		if m.value != nil {
			dumped = m.value.Dump(entryLoc, m.values[i], filter)
		} else {
			dumped = dumpAny(entryLoc, m.values[i], filter)
		}
		if fv, ok := filter(entryLoc, dumped); ok {
			out[dumpKeyString(k)] = fv
		}
	}
	return out
}

// dumpKeyString renders a parsed map key as the string key of the dumped
// tree, so dumps stay encodable as JSON objects.
func dumpKeyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}

func (m *Map) String() string {
	return fmt.Sprintf("map[keys=%v]", m.keys)
}

// ---- tuple ----

// tupleDescriptor parses fixed-length heterogeneous sequences into plain
// []any values, one descriptor per slot.
type tupleDescriptor struct {
	elems []Descriptor
}

func (d *tupleDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	seq, ok := asSequence(v)
	if !ok {
		sink.Append(errInvalidType(loc, v, "tuple"))
		return Unset
	}
	if len(seq) != len(d.elems) {
		sink.Append(errInvalidTupleLength(loc, v, len(d.elems)))
		return Unset
	}
	out := make([]any, len(seq))
	before := sink.Len()
	for i, el := range seq {
		out[i] = d.elems[i].Parse(sink, loc.Push(i), el)
	}
	if sink.Len() > before {
		return Unset
	}
	return out
}

func (d *tupleDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	seq, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, 0, len(seq))
	for i, el := range seq {
		elLoc := loc.Push(i)
		dumped := d.elems[i].Dump(elLoc, el, filter)
		if fv, ok := filter(elLoc, dumped); ok {
			out = append(out, fv)
		}
	}
	return out
}

func (d *tupleDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	seq, ok := v.([]any)
	if !ok || len(seq) != len(d.elems) {
		return
	}
	for i, el := range seq {
		elLoc := loc.Push(i)
		rc.applyLocValidators(elLoc, el)
		d.elems[i].Validate(rc, elLoc, el)
	}
}
