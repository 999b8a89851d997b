package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zero-day-ai/metadata"
)

// MarshalJSON encodes m as a JSON object with keys in ascending order.
// Nested snapshots become nested objects.
func MarshalJSON(m metadata.Metadata) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("codec: marshal json: %w", metadata.ErrNilArgument)
	}
	data, err := json.Marshal(toPlain(m))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal json: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a JSON object into a snapshot. Nested objects become
// nested snapshots, whole numbers become int64 and other numbers float64.
// JSON null decodes to metadata.Empty(). Anything but whitespace after the
// first value yields ErrTrailingData.
func UnmarshalJSON(data []byte) (metadata.Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("codec: unmarshal json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("codec: unmarshal json: %w", ErrTrailingData)
	}
	if raw == nil {
		return metadata.Empty(), nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("codec: unmarshal json: %w", ErrNotObject)
	}

	m, err := fromObject(normalizeNumbers(obj).(map[string]any))
	if err != nil {
		return nil, fmt.Errorf("codec: unmarshal json: %w", err)
	}
	return m, nil
}

// normalizeNumbers replaces json.Number values with int64 when they are
// integers and float64 otherwise.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}
