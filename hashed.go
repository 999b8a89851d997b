package metadata

import (
	"iter"
	"slices"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/cespare/xxhash/v2"
)

// keyHasher hashes keys for the persistent map. Equality is exact byte
// equality.
type keyHasher struct{}

func (keyHasher) Hash(key string) uint32 {
	h := xxhash.Sum64String(key)
	return uint32(h ^ (h >> 32))
}

func (keyHasher) Equal(a, b string) bool {
	return a == b
}

func newHashBuilder() *immutable.MapBuilder[string, any] {
	return immutable.NewMapBuilder[string, any](keyHasher{})
}

// hashedMap is the large-map tier, backed by a hash array mapped trie whose
// updates share structure with the previous version.
//
// Enumeration uses a sorted copy of the entries that is computed on first
// use and cached; the snapshot is immutable so the cache never goes stale.
type hashedMap struct {
	m   *immutable.Map[string, any]
	cfg *config

	sortOnce sync.Once
	sorted   []Pair
}

func newHashed(m *immutable.Map[string, any], cfg *config) *hashedMap {
	return &hashedMap{m: m, cfg: cfg}
}

func (h *hashedMap) Len() int { return h.m.Len() }

func (h *hashedMap) Get(key string) (any, bool) {
	mustKey("Metadata.Get", key)
	return h.m.Get(key)
}

func (h *hashedMap) Has(key string) bool {
	mustKey("Metadata.Has", key)
	_, ok := h.m.Get(key)
	return ok
}

func (h *hashedMap) Set(key string, value any) Metadata {
	mustKey("Metadata.Set", key)
	return newHashed(h.m.Set(key, value), h.cfg)
}

func (h *hashedMap) With(key string, value any) Metadata {
	return h.Set(key, value)
}

func (h *hashedMap) Remove(key string) Metadata {
	mustKey("Metadata.Remove", key)

	if _, ok := h.m.Get(key); !ok {
		return h
	}

	next := h.m.Delete(key)
	switch n := next.Len(); {
	case n == 0:
		h.cfg.recordDemotion(tierHashed, tierEmpty, 0)
		return empty
	case n <= h.cfg.threshold:
		h.cfg.recordDemotion(tierHashed, tierLinear, n)
		return newLinear(sortedPairs(next), h.cfg)
	default:
		return newHashed(next, h.cfg)
	}
}

func (h *hashedMap) SetRange(pairs ...Pair) Metadata {
	if len(pairs) == 0 {
		return h
	}
	return h.ToBuilder().SetRange(pairs...).Build()
}

func (h *hashedMap) ToBuilder() *Builder {
	b := &Builder{entries: make(map[string]any, h.m.Len()), cfg: h.cfg}
	itr := h.m.Iterator()
	for !itr.Done() {
		k, v, _ := itr.Next()
		b.entries[k] = v
	}
	return b
}

// ordered returns the cached sorted entries. Callers must not modify the
// returned slice.
func (h *hashedMap) ordered() []Pair {
	h.sortOnce.Do(func() {
		h.sorted = sortedPairs(h.m)
	})
	return h.sorted
}

func (h *hashedMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, p := range h.ordered() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (h *hashedMap) Keys() []string {
	pairs := h.ordered()
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}

func (h *hashedMap) Pairs() []Pair {
	return slices.Clone(h.ordered())
}

func (h *hashedMap) String() string { return format(h) }

func (h *hashedMap) settings() *config { return h.cfg }

func (*hashedMap) tier() tier { return tierHashed }

// sortedPairs extracts every entry of m in ascending key order.
func sortedPairs(m *immutable.Map[string, any]) []Pair {
	pairs := make([]Pair, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, v, _ := itr.Next()
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	slices.SortFunc(pairs, comparePairs)
	return pairs
}
