package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zero-day-ai/metadata/coerce"
)

var (
	metadataType = reflect.TypeFor[Metadata]()
	plainMapType = reflect.TypeFor[map[string]any]()
)

// TryGet returns the value stored under key converted to T.
//
// The second result is false when the key is absent or the stored value
// cannot be converted; conversion failures never panic. See package coerce
// for the conversion rules. In addition, a stored map[string]any converts to
// Metadata and a stored Metadata converts to map[string]any.
//
// Example:
//
//	port, ok := metadata.TryGet[int](m, "port") // "8080" -> 8080, true
func TryGet[T any](m Metadata, key string) (T, bool) {
	mustNotNil("TryGet", m)
	raw, ok := m.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return convert[T](raw)
}

// GetOrDefault returns the value stored under key converted to T, or def
// when the key is absent or the value cannot be converted.
func GetOrDefault[T any](m Metadata, key string, def T) T {
	if v, ok := TryGet[T](m, key); ok {
		return v
	}
	return def
}

func convert[T any](raw any) (T, bool) {
	switch reflect.TypeFor[T]() {
	case metadataType:
		if nested, ok := raw.(map[string]any); ok {
			var zero T
			if !validKeys(nested) {
				return zero, false
			}
			v, _ := any(FromMap(nested)).(T)
			return v, true
		}
	case plainMapType:
		if nested, ok := raw.(Metadata); ok && nested != nil {
			v, _ := any(ToMap(nested)).(T)
			return v, true
		}
	}
	return coerce.TryConvert[T](raw)
}

// FromMap builds a snapshot from a plain map using default settings. Nested
// map[string]any values, including those inside []any, become nested
// snapshots. A nil or empty map yields Empty().
func FromMap(src map[string]any) Metadata {
	if len(src) == 0 {
		return empty
	}
	b := &Builder{entries: make(map[string]any, len(src)), cfg: defaults}
	for k, v := range src {
		mustKey("FromMap", k)
		b.entries[k] = fromPlain(v)
	}
	return b.Build()
}

// validKeys reports whether every key of src, including keys of nested maps
// inside maps and []any, passes ValidateKey.
func validKeys(src map[string]any) bool {
	for k, v := range src {
		if ValidateKey(k) != nil || !validNested(v) {
			return false
		}
	}
	return true
}

func validNested(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return validKeys(t)
	case []any:
		for _, item := range t {
			if !validNested(item) {
				return false
			}
		}
	}
	return true
}

func fromPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = fromPlain(item)
		}
		return out
	default:
		return v
	}
}

// ToMap returns a plain map holding the entries of m. Nested snapshots,
// including those inside []any, become nested maps.
func ToMap(m Metadata) map[string]any {
	mustNotNil("ToMap", m)
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = toPlain(v)
	}
	return out
}

func toPlain(v any) any {
	switch t := v.(type) {
	case Metadata:
		if t == nil {
			return nil
		}
		return ToMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b hold the same keys with equal values,
// regardless of their internal representation. Nested snapshots are compared
// with Equal; other values with reflect.DeepEqual.
func Equal(a, b Metadata) bool {
	mustNotNil("Equal", a)
	mustNotNil("Equal", b)

	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for k, av := range a.All() {
		bv, ok := b.Get(k)
		if !ok || !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	am, aok := a.(Metadata)
	bm, bok := b.(Metadata)
	if aok && bok && am != nil && bm != nil {
		return Equal(am, bm)
	}
	return reflect.DeepEqual(a, b)
}

func format(m Metadata) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k)
		sb.WriteByte('=')
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte('}')
	return sb.String()
}
