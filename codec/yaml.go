package codec

import (
	"gopkg.in/yaml.v3"

	modelity "github.com/modelity/modelity-go"
)

// MarshalYAML dumps a model and encodes the tree as YAML, excluding Unset
// fields.
func MarshalYAML(m *modelity.Model, opts ...modelity.DumpOption) ([]byte, error) {
	tree := modelity.Dump(m, withExcludeUnset(opts)...)
	return yaml.Marshal(tree)
}

// UnmarshalYAML decodes a YAML mapping and loads it through the schema's
// construct-then-validate pipeline.
func UnmarshalYAML(s *modelity.Schema, data []byte) (*modelity.Model, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, modelity.WrapDecodeError(s.Name(), err)
	}
	return modelity.Load(s, raw)
}
