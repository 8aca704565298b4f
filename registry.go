package modelity

import "sync"

// DescriptorFactory builds a Descriptor for a declared type. A factory may
// itself request sub-descriptors from the registry; such calls are
// synchronous and reentrant.
type DescriptorFactory func(r *Registry, t Type) (Descriptor, error)

// Registry resolves declared types to descriptors, memoizing the result per
// type key so each type is resolved at most once per process lifetime.
//
// Registration must happen during a single-threaded startup phase, before
// any schema referencing the type is built; the registry does not retrofit
// already-built schemas and does not lock reads against late registration.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]DescriptorFactory
	cache     map[string]Descriptor
}

// NewRegistry returns an empty registry with only built-in resolution.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]DescriptorFactory{},
		cache:     map[string]Descriptor{},
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by schema builders
// unless an explicit registry is wired in.
func DefaultRegistry() *Registry { return defaultRegistry }

// RegisterFactory registers a descriptor factory for the exact type key of
// t on the default registry. It must run before the first schema referencing
// t is built.
func RegisterFactory(t Type, f DescriptorFactory) { defaultRegistry.RegisterFactory(t, f) }

// RegisterFactory registers a descriptor factory for the exact type key of t.
func (r *Registry) RegisterFactory(t Type, f DescriptorFactory) {
	r.mu.Lock()
	r.factories[t.Key()] = f
	r.mu.Unlock()
	logger.Debug().Str("type", t.Key()).Msg("modelity: descriptor factory registered")
}

// Resolve returns the descriptor for t, building and memoizing it on first
// use. Resolution order: explicit factory override, static factory on the
// type itself (DescriptorProvider), built-ins, recursive container
// composition. Fails with *UnsupportedTypeError when nothing matches.
func (r *Registry) Resolve(t Type) (Descriptor, error) {
	key := t.Key()
	r.mu.RLock()
	if d, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return d, nil
	}
	factory := r.factories[key]
	r.mu.RUnlock()

	var (
		d   Descriptor
		err error
	)
	switch {
	case factory != nil:
		d, err = factory(r, t)
	default:
		if provider, ok := t.(DescriptorProvider); ok {
			d, err = provider.ModelityDescriptor(r)
			break
		}
		d, err = r.resolveBuiltin(t)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		// another resolution won the race; keep the first descriptor
		d = cached
	} else {
		r.cache[key] = d
	}
	r.mu.Unlock()
	logger.Debug().Str("type", key).Msg("modelity: descriptor resolved")
	return d, nil
}

// resolveBuiltin composes descriptors for the built-in type expressions,
// resolving element, key and value descriptors first.
func (r *Registry) resolveBuiltin(t Type) (Descriptor, error) {
	switch tt := t.(type) {
	case simpleType:
		return newSimpleDescriptor(tt.key)
	case *boolLiteralsType:
		return &boolDescriptor{trueLiterals: tt.trueLiterals, falseLiterals: tt.falseLiterals}, nil
	case timeType:
		return newTimeDescriptor(tt.formats), nil
	case *enumType:
		return &enumDescriptor{values: tt.values}, nil
	case optionalType:
		elem, err := r.Resolve(tt.elem)
		if err != nil {
			return nil, err
		}
		return &optionalDescriptor{elem: elem, strict: tt.strict, elemKey: tt.elem.Key()}, nil
	case unionType:
		members := make([]Descriptor, len(tt.members))
		keys := make([]string, len(tt.members))
		for i, m := range tt.members {
			d, err := r.Resolve(m)
			if err != nil {
				return nil, err
			}
			members[i] = d
			keys[i] = m.Key()
		}
		return &unionDescriptor{members: members, keys: keys}, nil
	case listType:
		if tt.elem == nil {
			return &listDescriptor{}, nil
		}
		elem, err := r.Resolve(tt.elem)
		if err != nil {
			return nil, err
		}
		return &listDescriptor{elem: elem, elemKey: tt.elem.Key()}, nil
	case setType:
		if tt.elem == nil {
			return &setDescriptor{}, nil
		}
		elem, err := r.Resolve(tt.elem)
		if err != nil {
			return nil, err
		}
		return &setDescriptor{elem: elem, elemKey: tt.elem.Key()}, nil
	case mapType:
		if tt.key == nil {
			return &mapDescriptor{}, nil
		}
		key, err := r.Resolve(tt.key)
		if err != nil {
			return nil, err
		}
		value, err := r.Resolve(tt.value)
		if err != nil {
			return nil, err
		}
		return &mapDescriptor{key: key, value: value, keyKey: tt.key.Key(), valueKey: tt.value.Key()}, nil
	case tupleType:
		elems := make([]Descriptor, len(tt.elems))
		for i, e := range tt.elems {
			d, err := r.Resolve(e)
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return &tupleDescriptor{elems: elems}, nil
	case modelType:
		return &modelDescriptor{schema: tt.schema}, nil
	case *constrainedType:
		elem, err := r.Resolve(tt.elem)
		if err != nil {
			return nil, err
		}
		return &constrainedDescriptor{elem: elem, constraints: tt.constraints}, nil
	}
	return nil, &UnsupportedTypeError{Key: t.Key()}
}
