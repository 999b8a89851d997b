package metadata

import (
	"iter"
	"slices"
	"strings"
)

// linearMap is the small-map tier: a slice of pairs sorted by key. It holds
// between one and cfg.threshold entries.
type linearMap struct {
	pairs []Pair
	cfg   *config
}

// newLinear wraps pairs that are already sorted and free of duplicates.
func newLinear(pairs []Pair, cfg *config) *linearMap {
	return &linearMap{pairs: pairs, cfg: cfg}
}

func (l *linearMap) Len() int { return len(l.pairs) }

// indexOf scans the pairs; the tier is small enough that a scan beats a
// binary search.
func (l *linearMap) indexOf(key string) int {
	for i := range l.pairs {
		if l.pairs[i].Key == key {
			return i
		}
	}
	return -1
}

func (l *linearMap) Get(key string) (any, bool) {
	mustKey("Metadata.Get", key)
	if i := l.indexOf(key); i >= 0 {
		return l.pairs[i].Value, true
	}
	return nil, false
}

func (l *linearMap) Has(key string) bool {
	mustKey("Metadata.Has", key)
	return l.indexOf(key) >= 0
}

func (l *linearMap) Set(key string, value any) Metadata {
	mustKey("Metadata.Set", key)

	if i := l.indexOf(key); i >= 0 {
		pairs := slices.Clone(l.pairs)
		pairs[i].Value = value
		return newLinear(pairs, l.cfg)
	}

	if len(l.pairs)+1 > l.cfg.threshold {
		return l.promote(key, value)
	}

	// Insert at the sorted position; the result is identical to appending
	// and re-sorting.
	at, _ := slices.BinarySearchFunc(l.pairs, key, comparePairKey)
	pairs := make([]Pair, len(l.pairs)+1)
	copy(pairs, l.pairs[:at])
	pairs[at] = Pair{Key: key, Value: value}
	copy(pairs[at+1:], l.pairs[at:])
	return newLinear(pairs, l.cfg)
}

// promote builds the hashed tier from the current pairs plus one new entry.
func (l *linearMap) promote(key string, value any) Metadata {
	b := newHashBuilder()
	for _, p := range l.pairs {
		b.Set(p.Key, p.Value)
	}
	b.Set(key, value)
	l.cfg.recordPromotion(len(l.pairs) + 1)
	return newHashed(b.Map(), l.cfg)
}

func (l *linearMap) With(key string, value any) Metadata {
	return l.Set(key, value)
}

func (l *linearMap) Remove(key string) Metadata {
	mustKey("Metadata.Remove", key)

	i := l.indexOf(key)
	if i < 0 {
		return l
	}
	if len(l.pairs) == 1 {
		l.cfg.recordDemotion(tierLinear, tierEmpty, 0)
		return empty
	}

	pairs := make([]Pair, 0, len(l.pairs)-1)
	pairs = append(pairs, l.pairs[:i]...)
	pairs = append(pairs, l.pairs[i+1:]...)
	return newLinear(pairs, l.cfg)
}

func (l *linearMap) SetRange(pairs ...Pair) Metadata {
	if len(pairs) == 0 {
		return l
	}
	return l.ToBuilder().SetRange(pairs...).Build()
}

func (l *linearMap) ToBuilder() *Builder {
	b := &Builder{entries: make(map[string]any, len(l.pairs)), cfg: l.cfg}
	for _, p := range l.pairs {
		b.entries[p.Key] = p.Value
	}
	return b
}

func (l *linearMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, p := range l.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (l *linearMap) Keys() []string {
	keys := make([]string, len(l.pairs))
	for i, p := range l.pairs {
		keys[i] = p.Key
	}
	return keys
}

func (l *linearMap) Pairs() []Pair {
	return slices.Clone(l.pairs)
}

func (l *linearMap) String() string { return format(l) }

func (l *linearMap) settings() *config { return l.cfg }

func (*linearMap) tier() tier { return tierLinear }

func comparePairKey(p Pair, key string) int {
	return strings.Compare(p.Key, key)
}

func comparePairs(a, b Pair) int {
	return strings.Compare(a.Key, b.Key)
}
