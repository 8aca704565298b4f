package codec

import (
	"github.com/fxamacker/cbor/v2"

	modelity "github.com/modelity/modelity-go"
)

// MarshalCBOR dumps a model and encodes the tree as CBOR, excluding Unset
// fields.
func MarshalCBOR(m *modelity.Model, opts ...modelity.DumpOption) ([]byte, error) {
	tree := modelity.Dump(m, withExcludeUnset(opts)...)
	return cbor.Marshal(tree)
}

// UnmarshalCBOR decodes a CBOR map and loads it through the schema's
// construct-then-validate pipeline.
func UnmarshalCBOR(s *modelity.Schema, data []byte) (*modelity.Model, error) {
	var raw map[string]any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, modelity.WrapDecodeError(s.Name(), err)
	}
	return modelity.Load(s, raw)
}
