package metadata

import (
	"iter"
)

// emptyMap is the zero-entry tier. There is exactly one instance.
type emptyMap struct{}

var empty Metadata = &emptyMap{}

func (*emptyMap) Len() int { return 0 }

func (*emptyMap) Get(key string) (any, bool) {
	mustKey("Metadata.Get", key)
	return nil, false
}

func (*emptyMap) Has(key string) bool {
	mustKey("Metadata.Has", key)
	return false
}

func (e *emptyMap) Set(key string, value any) Metadata {
	mustKey("Metadata.Set", key)
	return &linearMap{pairs: []Pair{{Key: key, Value: value}}, cfg: defaults}
}

func (e *emptyMap) With(key string, value any) Metadata {
	return e.Set(key, value)
}

func (e *emptyMap) Remove(key string) Metadata {
	mustKey("Metadata.Remove", key)
	return e
}

func (e *emptyMap) SetRange(pairs ...Pair) Metadata {
	if len(pairs) == 0 {
		return e
	}
	return NewBuilder().SetRange(pairs...).Build()
}

func (*emptyMap) ToBuilder() *Builder {
	return NewBuilder()
}

func (*emptyMap) All() iter.Seq2[string, any] {
	return func(func(string, any) bool) {}
}

func (*emptyMap) Keys() []string { return nil }

func (*emptyMap) Pairs() []Pair { return nil }

func (*emptyMap) String() string { return "{}" }

func (*emptyMap) settings() *config { return defaults }

func (*emptyMap) tier() tier { return tierEmpty }
