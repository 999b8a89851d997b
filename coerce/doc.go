// Package coerce converts untyped values into typed ones on a best-effort
// basis.
//
// Metadata values arrive from many places (JSON decoding, YAML files, proto
// structs, other code) so a number may be stored as float64, int64, int or a
// numeric string. TryConvert reads such values back as the type the caller
// wants. It never panics and never returns an error: a failed conversion is
// reported only through its boolean result.
//
// # Usage
//
//	port, ok := coerce.TryConvert[int]("8080")            // 8080, true
//	ratio, ok := coerce.TryConvert[float64](3)            // 3.0, true
//	day, ok := coerce.TryConvert[time.Weekday]("sunday")  // time.Sunday, true
//	wait, ok := coerce.TryConvert[time.Duration]("1m30s") // 90s, true
//	tags, ok := coerce.TryConvert[[]string]([]any{"a", 1}) // ["a" "1"], true
//
// # Conversion Rules
//
// Rules are tried in order; the first that applies decides the result.
//
//   - nil converts only to nillable types (interfaces, pointers, maps,
//     slices, funcs, channels), yielding their zero value
//   - a value assignable to the target is returned as-is
//   - string targets take the canonical string form (see FormatString) and
//     never fail
//   - types registered with package enum accept a name (case-insensitive) or
//     a number within range
//   - time.Duration accepts duration strings like "5m" and numbers of seconds
//   - types whose pointer implements encoding.TextUnmarshaler are parsed from
//     strings and []byte (time.Time, uuid.UUID, net.IP, ...)
//   - numeric targets parse trimmed strings with invariant formatting, convert
//     other numbers with range checks, and round floats half to even
//   - bool targets accept "true"/"false" in any case and non-zero numbers
//   - slice targets convert element by element
//   - anything else falls back to reflect conversion when Go allows it
//
// Parsing never depends on the process locale.
package coerce
