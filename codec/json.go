package codec

import (
	"bytes"

	json "github.com/goccy/go-json"

	modelity "github.com/modelity/modelity-go"
)

// MarshalJSON dumps a model and encodes the tree as JSON. Unset fields are
// always excluded; extra dump options apply on top.
func MarshalJSON(m *modelity.Model, opts ...modelity.DumpOption) ([]byte, error) {
	tree := modelity.Dump(m, withExcludeUnset(opts)...)
	return json.Marshal(tree)
}

// UnmarshalJSON decodes a JSON object and loads it through the schema's
// construct-then-validate pipeline. Numbers decode as json.Number so large
// integers survive coercion.
func UnmarshalJSON(s *modelity.Schema, data []byte) (*modelity.Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, modelity.WrapDecodeError(s.Name(), err)
	}
	return modelity.Load(s, raw)
}

func withExcludeUnset(opts []modelity.DumpOption) []modelity.DumpOption {
	out := make([]modelity.DumpOption, 0, len(opts)+1)
	out = append(out, modelity.ExcludeUnset())
	return append(out, opts...)
}
