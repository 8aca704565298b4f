package modelity

// Load constructs a model from raw input and validates it in one step. The
// two stages stay disjoint: parse failures surface as *ParsingError,
// semantic failures as *ValidationError. On validation failure the
// constructed model is still returned.
func Load(s *Schema, values map[string]any) (*Model, error) {
	return LoadCtx(s, values, nil)
}

// LoadCtx is Load with a user validation context.
func LoadCtx(s *Schema, values map[string]any, ctx any) (*Model, error) {
	m, err := s.New(values)
	if err != nil {
		return m, err
	}
	if err := ValidateCtx(m, ctx); err != nil {
		return m, err
	}
	return m, nil
}
