package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/zero-day-ai/metadata"
)

// ErrNotObject is returned when encoded data does not hold an object at the
// top level.
var ErrNotObject = errors.New("codec: top-level value is not an object")

// ErrTrailingData is returned when encoded data continues after the
// top-level value.
var ErrTrailingData = errors.New("codec: trailing data after top-level value")

// maxExactFloat is the largest magnitude at which every integer is exactly
// representable as a float64.
const maxExactFloat = 1 << 53

// toPlain converts snapshots, including nested ones, into map[string]any so
// that generic encoders can handle them. Encoders sort map keys, which keeps
// the output deterministic.
func toPlain(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case metadata.Metadata:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for k, item := range t.All() {
			out[k] = toPlain(item)
		}
		return out
	case []metadata.Metadata:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = toPlain(item)
		}
		return out
	default:
		return v
	}
}

// fromPlain converts decoded values into snapshot values: objects become
// snapshots and int becomes int64. Floats are kept as decoded, so a literal
// such as 2.0 stays a float64. Keys are validated so that
// malformed input yields an error instead of a panic.
func fromPlain(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		return fromObject(t)
	case map[any]any:
		obj := make(map[string]any, len(t))
		for k, item := range t {
			obj[fmt.Sprint(k)] = item
		}
		return fromObject(obj)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			converted, err := fromPlain(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = converted
		}
		return out, nil
	case int:
		return int64(t), nil
	default:
		return v, nil
	}
}

func fromObject(obj map[string]any) (metadata.Metadata, error) {
	b := metadata.NewBuilder()
	for k, item := range obj {
		if err := metadata.ValidateKey(k); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		converted, err := fromPlain(item)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		b.Set(k, converted)
	}
	return b.Build(), nil
}

// number returns whole floats within the exactly representable range as
// int64 and everything else unchanged.
func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactFloat {
		return int64(f)
	}
	return f
}
