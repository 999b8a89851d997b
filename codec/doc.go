// Package codec encodes and decodes metadata snapshots in JSON, YAML and
// protobuf (google.protobuf.Struct) form.
//
// The codecs only use the public enumeration contract of metadata.Metadata.
// Output is deterministic: keys are written in ascending order, and the
// protobuf form is marshaled with deterministic map ordering.
//
// # Usage
//
//	data, err := codec.MarshalJSON(m)
//	// {"labels":{"team":"core"},"replicas":3}
//
//	m2, err := codec.UnmarshalJSON(data)
//	replicas, _ := metadata.TryGet[int](m2, "replicas") // 3
//
//	s, err := codec.ToStruct(m) // *structpb.Struct for gRPC payloads
//
// # Decoding Rules
//
// All decoders turn objects (mappings, structs) into nested snapshots and
// whole numbers into int64; other numbers stay float64. Blank keys in the
// input are reported as errors wrapping metadata.ErrInvalidKey rather than
// panicking.
package codec
