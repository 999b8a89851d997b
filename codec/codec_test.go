package codec

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/metadata"
)

func sample() metadata.Metadata {
	return metadata.New(
		metadata.Pair{Key: "owner", Value: "platform"},
		metadata.Pair{Key: "replicas", Value: 3},
		metadata.Pair{Key: "ratio", Value: 0.25},
		metadata.Pair{Key: "enabled", Value: true},
		metadata.Pair{Key: "tags", Value: []any{"a", "b"}},
		metadata.Pair{Key: "limits", Value: metadata.New(
			metadata.Pair{Key: "cpu", Value: 2},
			metadata.Pair{Key: "memory", Value: "4Gi"},
		)},
	)
}

// wide returns a snapshot large enough to use the hashed representation.
func wide(n int) metadata.Metadata {
	b := metadata.NewBuilder()
	for i := n - 1; i >= 0; i-- {
		b.Set(fmt.Sprintf("k%02d", i), i)
	}
	return b.Build()
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(sample())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"enabled": true,
		"limits": {"cpu": 2, "memory": "4Gi"},
		"owner": "platform",
		"ratio": 0.25,
		"replicas": 3,
		"tags": ["a", "b"]
	}`, string(data))

	empty, err := MarshalJSON(metadata.Empty())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestMarshalJSONKeyOrder(t *testing.T) {
	m := metadata.New(
		metadata.Pair{Key: "zeta", Value: 1},
		metadata.Pair{Key: "alpha", Value: 2},
		metadata.Pair{Key: "mid", Value: 3},
	)
	data, err := MarshalJSON(m)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`, string(data))

	first, err := MarshalJSON(wide(32))
	require.NoError(t, err)
	second, err := MarshalJSON(wide(32))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUnmarshalJSON(t *testing.T) {
	m, err := UnmarshalJSON([]byte(`{
		"count": 42,
		"ratio": 1.5,
		"whole": 2.0,
		"name": "svc",
		"items": [1, {"id": "x"}],
		"nested": {"deep": {"flag": false}}
	}`))
	require.NoError(t, err)

	count, _ := m.Get("count")
	assert.Equal(t, int64(42), count)

	ratio, _ := m.Get("ratio")
	assert.Equal(t, 1.5, ratio)

	whole, _ := m.Get("whole")
	assert.Equal(t, 2.0, whole, "2.0 is not an integer literal")

	items, _ := m.Get("items")
	list, ok := items.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0])
	item, ok := list[1].(metadata.Metadata)
	require.True(t, ok)
	assert.Equal(t, "x", metadata.GetOrDefault(item, "id", ""))

	nested, ok := metadata.TryGet[metadata.Metadata](m, "nested")
	require.True(t, ok)
	deep, ok := metadata.TryGet[metadata.Metadata](nested, "deep")
	require.True(t, ok)
	flag, ok := metadata.TryGet[bool](deep, "flag")
	assert.True(t, ok)
	assert.False(t, flag)
}

func TestUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "array", input: `[1, 2]`, wantErr: ErrNotObject},
		{name: "string", input: `"text"`, wantErr: ErrNotObject},
		{name: "blank key", input: `{" ": 1}`, wantErr: metadata.ErrInvalidKey},
		{name: "nested blank key", input: `{"a": {"": 1}}`, wantErr: metadata.ErrInvalidKey},
		{name: "blank key in list", input: `{"a": [{"\t": 1}]}`, wantErr: metadata.ErrInvalidKey},
		{name: "malformed", input: `{"a":`},
		{name: "second object", input: `{"a":1} {"b":2}`, wantErr: ErrTrailingData},
		{name: "trailing garbage", input: `{"a":1} garbage`, wantErr: ErrTrailingData},
		{name: "trailing after null", input: `null 1`, wantErr: ErrTrailingData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := UnmarshalJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, m)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestUnmarshalJSONNull(t *testing.T) {
	m, err := UnmarshalJSON([]byte(`null`))
	require.NoError(t, err)
	assert.Same(t, metadata.Empty(), m)

	m, err = UnmarshalJSON([]byte("{\"a\": 1}\n\t "))
	require.NoError(t, err, "trailing whitespace is allowed")
	assert.Equal(t, 1, m.Len())
}

func TestUnmarshalFloatLiterals(t *testing.T) {
	m, err := UnmarshalJSON([]byte(`{"whole": 2.0, "exp": 1e2, "int": 2, "list": [3.0, 3]}`))
	require.NoError(t, err)

	tests := []struct {
		key  string
		want any
	}{
		{key: "whole", want: 2.0},
		{key: "exp", want: 100.0},
		{key: "int", want: int64(2)},
		{key: "list", want: []any{3.0, int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := m.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	y, err := UnmarshalYAML([]byte("whole: 2.0\nint: 2\n"))
	require.NoError(t, err)
	whole, _ := y.Get("whole")
	assert.Equal(t, 2.0, whole)
	n, _ := y.Get("int")
	assert.Equal(t, int64(2), n)
}

func TestJSONRoundTrip(t *testing.T) {
	for _, m := range []metadata.Metadata{metadata.Empty(), sample(), wide(40)} {
		data, err := MarshalJSON(m)
		require.NoError(t, err)
		back, err := UnmarshalJSON(data)
		require.NoError(t, err)
		assert.Equal(t, m.Len(), back.Len())
		assert.Equal(t, m.Keys(), back.Keys())
	}

	back, err := UnmarshalJSON(mustJSON(t, sample()))
	require.NoError(t, err)
	assert.Equal(t, 3, metadata.GetOrDefault(back, "replicas", 0))
	assert.Equal(t, []string{"a", "b"}, metadata.GetOrDefault[[]string](back, "tags", nil))
}

func mustJSON(t *testing.T, m metadata.Metadata) []byte {
	t.Helper()
	data, err := MarshalJSON(m)
	require.NoError(t, err)
	return data
}

func TestMarshalNil(t *testing.T) {
	_, err := MarshalJSON(nil)
	assert.ErrorIs(t, err, metadata.ErrNilArgument)

	_, err = MarshalYAML(nil)
	assert.ErrorIs(t, err, metadata.ErrNilArgument)

	_, err = ToStruct(nil)
	assert.ErrorIs(t, err, metadata.ErrNilArgument)
}

func TestYAML(t *testing.T) {
	m := metadata.New(
		metadata.Pair{Key: "b", Value: 2},
		metadata.Pair{Key: "a", Value: "x"},
		metadata.Pair{Key: "n", Value: metadata.New(metadata.Pair{Key: "flag", Value: true})},
	)

	data, err := MarshalYAML(m)
	require.NoError(t, err)
	// yaml.v3 quotes keys that YAML 1.1 reads as booleans.
	assert.Equal(t, "a: x\nb: 2\n\"n\":\n    flag: true\n", string(data))

	back, err := UnmarshalYAML(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "n"}, back.Keys())

	b, _ := back.Get("b")
	assert.Equal(t, int64(2), b)

	nested, ok := metadata.TryGet[metadata.Metadata](back, "n")
	require.True(t, ok)
	assert.True(t, metadata.GetOrDefault(nested, "flag", false))
}

func TestUnmarshalYAML(t *testing.T) {
	m, err := UnmarshalYAML([]byte("port: 8080\nweight: 0.5\n1: one\nlabels:\n  2: two\n"))
	require.NoError(t, err)

	port, _ := m.Get("port")
	assert.Equal(t, int64(8080), port)

	one, ok := m.Get("1")
	assert.True(t, ok, "non-string keys are formatted")
	assert.Equal(t, "one", one)

	labels, ok := metadata.TryGet[metadata.Metadata](m, "labels")
	require.True(t, ok)
	assert.Equal(t, "two", metadata.GetOrDefault(labels, "2", ""))

	empty, err := UnmarshalYAML(nil)
	require.NoError(t, err)
	assert.Same(t, metadata.Empty(), empty)

	_, err = UnmarshalYAML([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = UnmarshalYAML([]byte("\" \": 1\n"))
	assert.ErrorIs(t, err, metadata.ErrInvalidKey)

	_, err = UnmarshalYAML([]byte("a: [\n"))
	assert.Error(t, err)
}

func TestToStruct(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 7
	m := metadata.New(
		metadata.Pair{Key: "str", Value: "a\xffb"},
		metadata.Pair{Key: "int", Value: 3},
		metadata.Pair{Key: "uint", Value: uint16(9)},
		metadata.Pair{Key: "ptr", Value: &n},
		metadata.Pair{Key: "nilptr", Value: (*int)(nil)},
		metadata.Pair{Key: "null", Value: nil},
		metadata.Pair{Key: "time", Value: ts},
		metadata.Pair{Key: "list", Value: []int{1, 2}},
		metadata.Pair{Key: "map", Value: map[int]string{1: "one"}},
		metadata.Pair{Key: "bytes", Value: []byte("hi")},
		metadata.Pair{Key: "struct", Value: struct{ A int }{A: 1}},
		metadata.Pair{Key: "nested", Value: metadata.New(metadata.Pair{Key: "x", Value: 1.5})},
	)

	s, err := ToStruct(m)
	require.NoError(t, err)

	f := s.GetFields()
	assert.Equal(t, "a\uFFFDb", f["str"].GetStringValue())
	assert.Equal(t, 3.0, f["int"].GetNumberValue())
	assert.Equal(t, 9.0, f["uint"].GetNumberValue())
	assert.Equal(t, 7.0, f["ptr"].GetNumberValue())
	for _, key := range []string{"nilptr", "null"} {
		_, isNull := f[key].GetKind().(*structpb.Value_NullValue)
		assert.True(t, isNull, key)
	}
	assert.Equal(t, "2024-03-01T12:00:00Z", f["time"].GetStringValue())
	assert.Len(t, f["list"].GetListValue().GetValues(), 2)
	assert.Equal(t, "one", f["map"].GetStructValue().GetFields()["1"].GetStringValue())
	assert.Equal(t, "aGk=", f["bytes"].GetStringValue())
	assert.Equal(t, `{"A":1}`, f["struct"].GetStringValue())
	assert.Equal(t, 1.5, f["nested"].GetStructValue().GetFields()["x"].GetNumberValue())
}

func TestFromStruct(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{
		"count": 4.0,
		"ratio": 0.5,
		"huge":  1e300,
		"name":  "svc",
		"list":  []any{1.0, "x", nil},
		"inner": map[string]any{"ok": true},
	})
	require.NoError(t, err)

	m, err := FromStruct(s)
	require.NoError(t, err)

	count, _ := m.Get("count")
	assert.Equal(t, int64(4), count)
	ratio, _ := m.Get("ratio")
	assert.Equal(t, 0.5, ratio)
	huge, _ := m.Get("huge")
	assert.Equal(t, 1e300, huge)

	list, _ := m.Get("list")
	assert.Equal(t, []any{int64(1), "x", nil}, list)

	inner, ok := metadata.TryGet[metadata.Metadata](m, "inner")
	require.True(t, ok)
	assert.True(t, metadata.GetOrDefault(inner, "ok", false))

	empty, err := FromStruct(nil)
	require.NoError(t, err)
	assert.Same(t, metadata.Empty(), empty)

	_, err = FromStruct(&structpb.Struct{Fields: map[string]*structpb.Value{"": structpb.NewBoolValue(true)}})
	assert.ErrorIs(t, err, metadata.ErrInvalidKey)
}

func TestProtoRoundTrip(t *testing.T) {
	for _, m := range []metadata.Metadata{metadata.Empty(), sample(), wide(24)} {
		data, err := MarshalProto(m)
		require.NoError(t, err)

		back, err := UnmarshalProto(data)
		require.NoError(t, err)
		assert.Equal(t, m.Keys(), back.Keys())
	}

	back, err := UnmarshalProto(mustProto(t, sample()))
	require.NoError(t, err)
	limits, ok := metadata.TryGet[metadata.Metadata](back, "limits")
	require.True(t, ok)
	assert.Equal(t, 2, metadata.GetOrDefault(limits, "cpu", 0))

	_, err = UnmarshalProto([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestMarshalProtoDeterministic(t *testing.T) {
	a := metadata.NewBuilder().Set("x", 1).Set("y", "two").Set("z", true).Build()
	b := metadata.NewBuilder().Set("z", true).Set("x", 1).Set("y", "two").Build()

	assert.Equal(t, mustProto(t, a), mustProto(t, b))
	assert.Equal(t, mustProto(t, wide(30)), mustProto(t, wide(30)))
}

func mustProto(t *testing.T, m metadata.Metadata) []byte {
	t.Helper()
	data, err := MarshalProto(m)
	require.NoError(t, err)
	return data
}
