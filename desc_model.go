package modelity

// modelDescriptor handles nested record fields. Raw mappings are constructed
// in place against the nested schema; already-constructed models of the same
// schema pass through.
type modelDescriptor struct {
	schema *Schema
}

func (d *modelDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	switch t := v.(type) {
	case *Model:
		if t.schema == d.schema {
			return t
		}
		sink.Append(errInvalidType(loc, v, d.schema.name))
		return Unset
	case map[string]any:
		before := sink.Len()
		m := d.schema.construct(sink, loc, t)
		if sink.Len() > before {
			return Unset
		}
		return m
	}
	sink.Append(errInvalidType(loc, v, d.schema.name, "map"))
	return Unset
}

func (d *modelDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	m, ok := v.(*Model)
	if !ok {
		return v
	}
	return dumpModel(m, loc, filter)
}

func (d *modelDescriptor) Validate(rc *RunContext, loc Loc, v any) {
	m, ok := v.(*Model)
	if !ok {
		return
	}
	validateModel(rc, m, loc)
}
