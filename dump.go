package modelity

// DumpOption configures Dump's filter chain.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	filters []DumpFilter
}

// ExcludeUnset drops fields that hold the Unset sentinel. Without it, unset
// fields appear in the dumped tree as the sentinel itself.
func ExcludeUnset() DumpOption {
	return ExcludeIf(func(loc Loc, v any) bool { return IsUnset(v) })
}

// ExcludeNil drops nil values from the dumped tree.
func ExcludeNil() DumpOption {
	return ExcludeIf(func(loc Loc, v any) bool { return v == nil })
}

// ExcludeIf drops every value for which pred returns true.
func ExcludeIf(pred func(loc Loc, v any) bool) DumpOption {
	return func(c *dumpConfig) {
		c.filters = append(c.filters, func(loc Loc, v any) (any, bool) {
			return v, !pred(loc, v)
		})
	}
}

// RewriteWith applies an arbitrary filter; it may both transform values and
// drop them.
func RewriteWith(f DumpFilter) DumpOption {
	return func(c *dumpConfig) { c.filters = append(c.filters, f) }
}

func (c *dumpConfig) filter() DumpFilter {
	if len(c.filters) == 0 {
		return KeepAll
	}
	filters := c.filters
	return func(loc Loc, v any) (any, bool) {
		for _, f := range filters {
			nv, keep := f(loc, v)
			if !keep {
				return nil, false
			}
			v = nv
		}
		return v, true
	}
}

// Dump converts a model into a plain tree of primitives, []any sequences and
// map[string]any mappings, applying the configured filters to every value,
// nested ones included. Invalid fields dump their raw input.
func Dump(m *Model, opts ...DumpOption) map[string]any {
	c := &dumpConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return dumpModel(m, nil, c.filter())
}

func dumpModel(m *Model, base Loc, filter DumpFilter) map[string]any {
	out := make(map[string]any, len(m.schema.fields))
	for _, f := range m.schema.fields {
		v := m.values[f.index]
		floc := base.Push(f.info.Name)
		var dumped any
		switch t := v.(type) {
		case UnsetType:
			dumped = Unset
		case Invalid:
			dumped = t.Raw
		default:
			dumped = f.desc.Dump(floc, v, filter)
		}
		if fv, ok := filter(floc, dumped); ok {
			out[f.info.Name] = fv
		}
	}
	return out
}
