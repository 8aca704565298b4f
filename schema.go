package modelity

import (
	"fmt"
)

// FieldDef declares one field of a schema under construction.
type FieldDef struct {
	Name string
	Type Type
	// Default is the value parsed into the field when construction input
	// omits it. HasDefault distinguishes an explicit nil default from none.
	Default    any
	HasDefault bool
	// DefaultFactory builds a fresh default per construction; it wins over
	// Default when both are set.
	DefaultFactory func() any
	Title          string
	Description    string
	Examples       []any
}

// FieldInfo is the read-only view of a built field.
type FieldInfo struct {
	Name        string
	Type        Type
	Optional    bool
	HasDefault  bool
	Title       string
	Description string
	Examples    []any
}

type field struct {
	info  FieldInfo
	def   FieldDef
	desc  Descriptor
	index int
	// hook pipelines filtered for this field at build time
	pre        []ProcessorHook
	post       []ProcessorHook
	validators []FieldValidatorHook
}

// SchemaConfig is the input to BuildSchema.
type SchemaConfig struct {
	Name string
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	Fields   []FieldDef
	Hooks    Hooks
}

// Schema is the immutable, fully-resolved shape of a record type: fields in
// declaration order, each bound to its descriptor, plus the hook index.
// Schemas are safe for concurrent use once built.
type Schema struct {
	name     string
	id       uint64
	registry *Registry
	fields   []*field
	byName   map[string]*field
	hooks    Hooks
}

// BuildSchema resolves every field type against the registry and indexes the
// hooks. It fails on duplicate field names and on types the registry cannot
// resolve.
func BuildSchema(cfg SchemaConfig) (*Schema, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := &Schema{
		name:     cfg.Name,
		id:       nextTypeID(),
		registry: reg,
		byName:   make(map[string]*field, len(cfg.Fields)),
		hooks:    cfg.Hooks,
	}
	for i, def := range cfg.Fields {
		if def.Name == "" {
			return nil, fmt.Errorf("modelity: schema %q: field %d has no name", cfg.Name, i)
		}
		if _, dup := s.byName[def.Name]; dup {
			return nil, fmt.Errorf("modelity: schema %q: duplicate field %q", cfg.Name, def.Name)
		}
		if def.Type == nil {
			return nil, fmt.Errorf("modelity: schema %q: field %q has no type", cfg.Name, def.Name)
		}
		desc, err := reg.Resolve(def.Type)
		if err != nil {
			return nil, fmt.Errorf("modelity: schema %q: field %q: %w", cfg.Name, def.Name, err)
		}
		f := &field{
			info: FieldInfo{
				Name:        def.Name,
				Type:        def.Type,
				Optional:    isOptionalDecl(def),
				HasDefault:  def.HasDefault || def.DefaultFactory != nil,
				Title:       def.Title,
				Description: def.Description,
				Examples:    def.Examples,
			},
			def:   def,
			desc:  desc,
			index: i,
		}
		for _, h := range cfg.Hooks.Preprocessors {
			if h.appliesTo(def.Name) {
				f.pre = append(f.pre, h)
			}
		}
		for _, h := range cfg.Hooks.Postprocessors {
			if h.appliesTo(def.Name) {
				f.post = append(f.post, h)
			}
		}
		for _, h := range cfg.Hooks.FieldValidators {
			if h.appliesTo(def.Name) {
				f.validators = append(f.validators, h)
			}
		}
		s.fields = append(s.fields, f)
		s.byName[def.Name] = f
	}
	logger.Debug().Str("schema", cfg.Name).Int("fields", len(s.fields)).Msg("modelity: schema built")
	return s, nil
}

// MustBuildSchema is BuildSchema, panicking on error. Intended for
// package-level schema variables.
func MustBuildSchema(cfg SchemaConfig) *Schema {
	s, err := BuildSchema(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// isOptionalDecl reports whether a declared field may stay Unset after
// validation: Optional and StrictOptional types, and any field carrying a
// default.
func isOptionalDecl(def FieldDef) bool {
	if def.HasDefault || def.DefaultFactory != nil {
		return true
	}
	_, ok := def.Type.(optionalType)
	return ok
}

// Name returns the schema's record name as used in error headers.
func (s *Schema) Name() string { return s.name }

// Registry returns the registry the schema's descriptors were resolved from.
func (s *Schema) Registry() *Registry { return s.registry }

// Fields returns the field metadata in declaration order.
func (s *Schema) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.info
	}
	return out
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.info.Name
	}
	return out
}

// FieldDefs returns copies of the original field declarations, defaults
// included. Used by builders extending an existing schema.
func (s *Schema) FieldDefs() []FieldDef {
	out := make([]FieldDef, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.def
	}
	return out
}

// Hooks returns a shallow copy of the schema's hook index.
func (s *Schema) Hooks() Hooks { return s.hooks }

// HasField reports whether the schema declares the named field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// New constructs a model from raw input. Missing fields fall back to their
// defaults (run through the same parse pipeline) or stay Unset; unknown keys
// are ignored. On parse errors New returns the partially constructed model
// together with a *ParsingError; fields that failed hold Invalid values.
func (s *Schema) New(values map[string]any) (*Model, error) {
	sink := NewErrorSink()
	m := s.construct(sink, nil, values)
	if sink.Len() > 0 {
		return m, NewParsingError(s.name, sink.Errors())
	}
	return m, nil
}

// MustNew is New, panicking on parse errors.
func (s *Schema) MustNew(values map[string]any) *Model {
	m, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return m
}

// construct builds a model writing errors into an exterior sink, with field
// locations rooted at base. Nested model descriptors call this to construct
// sub-models in place.
func (s *Schema) construct(sink *ErrorSink, base Loc, values map[string]any) *Model {
	m := &Model{schema: s, values: make([]any, len(s.fields))}
	for i := range m.values {
		m.values[i] = Unset
	}
	for _, f := range s.fields {
		raw, ok := values[f.info.Name]
		if !ok {
			switch {
			case f.def.DefaultFactory != nil:
				s.parseField(sink, base, m, f, f.def.DefaultFactory())
			case f.def.HasDefault:
				s.parseField(sink, base, m, f, f.def.Default)
			}
			continue
		}
		s.parseField(sink, base, m, f, raw)
	}
	return m
}

// parseField runs one field through the full pipeline: preprocessors, the
// type descriptor, postprocessors. Any error aborts the pipeline and stores
// an Invalid wrapper so validation can tell "failed to parse" from "never
// supplied".
func (s *Schema) parseField(sink *ErrorSink, base Loc, m *Model, f *field, raw any) {
	loc := base.Push(f.info.Name)
	v := raw
	for _, h := range f.pre {
		nv, err := h.fn(m, loc, v)
		if err != nil {
			appendHookError(sink, loc, v, err)
			m.values[f.index] = Invalid{Raw: raw}
			return
		}
		v = nv
	}
	// a preprocessor may return Unset to leave the field unassigned
	if IsUnset(v) {
		m.values[f.index] = Unset
		return
	}
	v = f.desc.Parse(sink, loc, v)
	if IsUnset(v) {
		m.values[f.index] = Invalid{Raw: raw}
		return
	}
	for _, h := range f.post {
		nv, err := h.fn(m, loc, v)
		if err != nil {
			appendHookError(sink, loc, v, err)
			m.values[f.index] = Invalid{Raw: raw}
			return
		}
		v = nv
	}
	m.values[f.index] = v
}
