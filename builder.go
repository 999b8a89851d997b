package metadata

import (
	"slices"
)

// Builder stages changes before freezing them into a snapshot.
//
// A Builder is not safe for concurrent use. It must be owned by one
// goroutine at a time; hand it over only across a synchronization point.
//
// The zero value is an empty builder with default settings.
type Builder struct {
	entries map[string]any
	cfg     *config
}

// NewBuilder creates an empty Builder. The options apply to every snapshot
// built from it and to every snapshot derived from those.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		entries: make(map[string]any),
		cfg:     newConfig(opts),
	}
}

// From creates a Builder seeded with the entries and settings of m.
func From(m Metadata) *Builder {
	mustNotNil("From", m)
	return m.ToBuilder()
}

func (b *Builder) init() {
	if b.entries == nil {
		b.entries = make(map[string]any)
	}
	if b.cfg == nil {
		b.cfg = defaults
	}
}

// Len returns the number of staged entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Get returns the staged value for key.
func (b *Builder) Get(key string) (any, bool) {
	mustKey("Builder.Get", key)
	v, ok := b.entries[key]
	return v, ok
}

// Set stages key = value, overwriting any staged value.
func (b *Builder) Set(key string, value any) *Builder {
	mustKey("Builder.Set", key)
	b.init()
	b.entries[key] = value
	return b
}

// SetRange stages every pair in order; later duplicates win.
func (b *Builder) SetRange(pairs ...Pair) *Builder {
	b.init()
	for _, p := range pairs {
		mustKey("Builder.SetRange", p.Key)
		b.entries[p.Key] = p.Value
	}
	return b
}

// Remove unstages key. Removing an absent key is a no-op.
func (b *Builder) Remove(key string) *Builder {
	mustKey("Builder.Remove", key)
	delete(b.entries, key)
	return b
}

// Clear unstages every entry but keeps the builder's settings.
func (b *Builder) Clear() *Builder {
	clear(b.entries)
	return b
}

// DeepMerge merges incoming into the staged entries using the rules of Merge:
// incoming wins leaf conflicts unless resolver decides otherwise, and nested
// snapshots present on both sides are merged recursively when resolver is nil.
func (b *Builder) DeepMerge(incoming Metadata, resolver Resolver) *Builder {
	mustNotNil("Builder.DeepMerge", incoming)
	b.init()
	b.cfg.recordMerge()

	for key, next := range incoming.All() {
		cur, ok := b.entries[key]
		if !ok {
			b.entries[key] = next
			continue
		}
		b.entries[key] = resolve(key, cur, next, resolver)
	}
	return b
}

// Build freezes the staged entries into a snapshot: Empty() for no entries,
// the linear tier up to the threshold, the hashed tier above it.
//
// Build does not consume the staged state. It may be called repeatedly, and
// staging may continue afterwards without affecting snapshots already built.
func (b *Builder) Build() Metadata {
	b.init()

	n := len(b.entries)
	switch {
	case n == 0:
		return empty
	case n <= b.cfg.threshold:
		pairs := make([]Pair, 0, n)
		for k, v := range b.entries {
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
		slices.SortFunc(pairs, comparePairs)
		return newLinear(pairs, b.cfg)
	default:
		hb := newHashBuilder()
		for k, v := range b.entries {
			hb.Set(k, v)
		}
		return newHashed(hb.Map(), b.cfg)
	}
}
