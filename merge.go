package metadata

// Resolver decides the value kept for a key present in both inputs of a
// merge. Its return value is used as-is; nested snapshots it returns are not
// merged further.
type Resolver func(key string, current, incoming any) any

// Merge combines two snapshots into a new one. Neither input is modified.
//
//   - If either input is empty, the other is returned unchanged.
//   - Keys only in current are kept.
//   - Keys only in incoming are copied.
//   - Keys in both go to resolver when it is non-nil. Otherwise, when both
//     values are snapshots they are merged recursively; any other conflict
//     is won by incoming.
//
// The result uses the settings of current. Merge is deterministic for a given
// (current, incoming, resolver) but not commutative.
func Merge(current, incoming Metadata, resolver Resolver) Metadata {
	mustNotNil("Merge", current)
	mustNotNil("Merge", incoming)

	if incoming.Len() == 0 {
		return current
	}
	if current.Len() == 0 {
		return incoming
	}

	return current.ToBuilder().DeepMerge(incoming, resolver).Build()
}

func resolve(key string, current, incoming any, resolver Resolver) any {
	if resolver != nil {
		return resolver(key, current, incoming)
	}

	cm, ok := current.(Metadata)
	if !ok || cm == nil {
		return incoming
	}
	im, ok := incoming.(Metadata)
	if !ok || im == nil {
		return incoming
	}
	return Merge(cm, im, nil)
}
