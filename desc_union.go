package modelity

// optionalDescriptor wraps an element descriptor to admit absent values.
// Non-strict optionals accept nil as a stored value; strict optionals reject
// nil but let the field stay Unset.
type optionalDescriptor struct {
	elem    Descriptor
	strict  bool
	elemKey string
}

func (d *optionalDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	if v == nil {
		if d.strict {
			sink.Append(errNilNotAllowed(loc, d.elemKey))
			return Unset
		}
		return nil
	}
	return d.elem.Parse(sink, loc, v)
}

func (d *optionalDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	if v == nil {
		return nil
	}
	return d.elem.Dump(loc, v, filter)
}

func (d *optionalDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	if v == nil {
		return
	}
	d.elem.Validate(rc, loc, v)
}

// unionDescriptor tries each member in declaration order against a scratch
// sink; the first member that parses without errors wins. Member order is
// therefore semantic: int|str parses "123" as 123.
type unionDescriptor struct {
	members []Descriptor
	keys    []string
}

func (d *unionDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	for _, m := range d.members {
		scratch := NewErrorSink()
		parsed := m.Parse(scratch, loc, v)
		if scratch.Len() == 0 && !IsUnset(parsed) {
			return parsed
		}
	}
	sink.Append(errUnionParse(loc, v, d.keys))
	return Unset
}

func (d *unionDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	// The stored value already committed to one member; re-running the
	// member match against the parsed value picks the same one.
	for _, m := range d.members {
		scratch := NewErrorSink()
		if parsed := m.Parse(scratch, loc, v); scratch.Len() == 0 && !IsUnset(parsed) {
			return m.Dump(loc, v, filter)
		}
	}
	return v
}

func (d *unionDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	for _, m := range d.members {
		scratch := NewErrorSink()
		if parsed := m.Parse(scratch, loc, v); scratch.Len() == 0 && !IsUnset(parsed) {
			m.Validate(rc, loc, v)
			return
		}
	}
}

// constrainedDescriptor runs the attached constraints after the inner parse
// and again during validation, so constraint state stays honest after proxy
// mutations.
type constrainedDescriptor struct {
	elem        Descriptor
	constraints []Constraint
}

func (d *constrainedDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	parsed := d.elem.Parse(sink, loc, v)
	if IsUnset(parsed) {
		return parsed
	}
	ok := true
	for _, c := range d.constraints {
		if !c.Check(sink, loc, parsed) {
			ok = false
		}
	}
	if !ok {
		return Unset
	}
	return parsed
}

func (d *constrainedDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	return d.elem.Dump(loc, v, filter)
}

func (d *constrainedDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	d.elem.Validate(rc, loc, v)
	for _, c := range d.constraints {
		c.Check(rc.Sink, loc, v)
	}
}
