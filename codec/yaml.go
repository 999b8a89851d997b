package codec

import (
	"fmt"

	"github.com/zero-day-ai/metadata"
	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes m as a YAML mapping with keys in ascending order.
func MarshalYAML(m metadata.Metadata) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("codec: marshal yaml: %w", metadata.ErrNilArgument)
	}
	data, err := yaml.Marshal(toPlain(m))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal yaml: %w", err)
	}
	return data, nil
}

// UnmarshalYAML decodes a YAML mapping into a snapshot. Nested mappings
// become nested snapshots; non-string mapping keys are formatted with
// fmt.Sprint. An empty document decodes to metadata.Empty().
func UnmarshalYAML(data []byte) (metadata.Metadata, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("codec: unmarshal yaml: %w", err)
	}
	if raw == nil {
		return metadata.Empty(), nil
	}

	switch raw.(type) {
	case map[string]any, map[any]any:
	default:
		return nil, fmt.Errorf("codec: unmarshal yaml: %w", ErrNotObject)
	}

	v, err := fromPlain(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: unmarshal yaml: %w", err)
	}
	return v.(metadata.Metadata), nil
}
