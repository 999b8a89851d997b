package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/zero-day-ai/metadata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts m into a protobuf Struct.
//
// Values are normalized by reflection: pointers are dereferenced, numbers
// become doubles, slices and arrays become lists ([]byte becomes a base64
// string, as in structpb.NewValue), maps become structs with formatted keys,
// TextMarshalers become their text, and other values fall back to their JSON
// encoding stored as a string.
func ToStruct(m metadata.Metadata) (*structpb.Struct, error) {
	if m == nil {
		return nil, fmt.Errorf("codec: to struct: %w", metadata.ErrNilArgument)
	}
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, m.Len())}
	for k, v := range m.All() {
		pv, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("codec: to struct: key %q: %w", k, err)
		}
		s.Fields[k] = pv
	}
	return s, nil
}

// FromStruct converts a protobuf Struct into a snapshot. Nested structs
// become nested snapshots, whole numbers within ±2^53 become int64 and other
// numbers float64. A nil Struct yields metadata.Empty().
func FromStruct(s *structpb.Struct) (metadata.Metadata, error) {
	if s == nil {
		return metadata.Empty(), nil
	}
	m, err := fromStructFields(s.GetFields())
	if err != nil {
		return nil, fmt.Errorf("codec: from struct: %w", err)
	}
	return m, nil
}

// MarshalProto encodes m as a protobuf Struct in deterministic wire form.
func MarshalProto(m metadata.Metadata) ([]byte, error) {
	s, err := ToStruct(m)
	if err != nil {
		return nil, err
	}
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal proto: %w", err)
	}
	return data, nil
}

// UnmarshalProto decodes a protobuf Struct written by MarshalProto.
func UnmarshalProto(data []byte) (metadata.Metadata, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("codec: unmarshal proto: %w", err)
	}
	return FromStruct(&s)
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

func toValue(v any) (*structpb.Value, error) {
	if v == nil {
		return structpb.NewNullValue(), nil
	}

	if m, ok := v.(metadata.Metadata); ok {
		s, err := ToStruct(m)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return structpb.NewNullValue(), nil
		}
		val = val.Elem()
	}

	if val.Type().Implements(textMarshalerType) {
		text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return structpb.NewStringValue(sanitizeUTF8(string(text))), nil
	}

	switch val.Kind() {
	case reflect.String:
		// protobuf string fields require valid UTF-8
		return structpb.NewStringValue(sanitizeUTF8(val.String())), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return structpb.NewNumberValue(float64(val.Int())), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return structpb.NewNumberValue(float64(val.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return structpb.NewNumberValue(val.Float()), nil

	case reflect.Bool:
		return structpb.NewBoolValue(val.Bool()), nil

	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			return structpb.NewValue(val.Bytes())
		}
		items := make([]*structpb.Value, val.Len())
		for i := 0; i < val.Len(); i++ {
			item, err := toValue(val.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = item
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil

	case reflect.Map:
		fields := make(map[string]*structpb.Value, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			item, err := toValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			fields[key] = item
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil

	default:
		// Structs and other complex types are stored as their JSON text
		jsonBytes, err := json.Marshal(val.Interface())
		if err != nil {
			return structpb.NewStringValue(sanitizeUTF8(fmt.Sprintf("%v", v))), nil
		}
		return structpb.NewStringValue(string(jsonBytes)), nil
	}
}

func fromStructFields(fields map[string]*structpb.Value) (metadata.Metadata, error) {
	b := metadata.NewBuilder()
	for k, pv := range fields {
		if err := metadata.ValidateKey(k); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		v, err := fromValue(pv)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		b.Set(k, v)
	}
	return b.Build(), nil
}

func fromValue(pv *structpb.Value) (any, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		return number(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_BoolValue:
		return k.BoolValue, nil
	case *structpb.Value_StructValue:
		return fromStructFields(k.StructValue.GetFields())
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]any, len(values))
		for i, item := range values {
			v, err := fromValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %T", k)
	}
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
