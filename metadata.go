package metadata

import (
	"iter"
)

// DefaultThreshold is the largest entry count kept in the linear tier.
// Snapshots with more entries are backed by the hashed tier.
const DefaultThreshold = 8

// Pair is a single key/value entry of a snapshot.
type Pair struct {
	Key   string
	Value any
}

// Metadata is an immutable set of named attributes.
//
// Write-like methods (Set, With, Remove, SetRange) never modify the receiver.
// They return either the receiver itself, for documented no-op cases, or a
// new snapshot that may be backed by a different internal representation.
// A snapshot can be shared between any number of goroutines without locking.
//
// Keys are compared by exact byte equality. Enumeration is in ascending
// byte-wise key order for every snapshot.
//
// Keys must not be blank (empty or whitespace only); passing a blank key to
// any method panics with an *Error of KindPrecondition.
type Metadata interface {
	// Len returns the number of entries.
	Len() int

	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// Has reports whether key is present.
	Has(key string) bool

	// Set returns a snapshot where key maps to value.
	Set(key string, value any) Metadata

	// With is an alias of Set.
	With(key string, value any) Metadata

	// Remove returns a snapshot without key. Removing an absent key returns
	// the receiver.
	Remove(key string) Metadata

	// SetRange returns a snapshot with every pair applied in order; later
	// duplicates win. With no pairs it returns the receiver.
	SetRange(pairs ...Pair) Metadata

	// ToBuilder returns a new Builder seeded with the current entries.
	ToBuilder() *Builder

	// All iterates over every entry in key order.
	All() iter.Seq2[string, any]

	// Keys returns the keys in enumeration order.
	Keys() []string

	// Pairs returns a copy of the entries in enumeration order.
	Pairs() []Pair

	// String renders the snapshot for debugging, e.g. {a=1, b={c=2}}.
	String() string

	settings() *config
	tier() tier
}

// tier identifies the representation backing a snapshot.
type tier int

const (
	tierEmpty tier = iota
	tierLinear
	tierHashed
)

func (t tier) String() string {
	switch t {
	case tierEmpty:
		return "empty"
	case tierLinear:
		return "linear"
	case tierHashed:
		return "hashed"
	default:
		return "unknown"
	}
}

// Empty returns the process-wide empty snapshot. Every operation that ends
// with zero entries returns this same instance.
func Empty() Metadata {
	return empty
}

// New builds a snapshot from pairs using default settings. Later duplicates
// win.
func New(pairs ...Pair) Metadata {
	if len(pairs) == 0 {
		return empty
	}
	return NewBuilder().SetRange(pairs...).Build()
}

// IsEmpty reports whether m holds no entries. A nil m is treated as empty.
func IsEmpty(m Metadata) bool {
	return m == nil || m.Len() == 0
}
