// Package metadata provides an immutable, adaptive key-value container for
// attaching named attributes to domain objects.
//
// A snapshot (Metadata) never changes after it is built. Every write returns
// a new snapshot, so snapshots can be shared freely between goroutines and
// kept as historical versions at no extra cost.
//
// # Representation
//
// A snapshot is backed by one of three internal tiers, picked automatically
// from its entry count:
//
//   - empty: a single process-wide instance returned by Empty()
//   - linear: up to the threshold (default 8) pairs in a key-sorted slice
//   - hashed: a persistent hash array mapped trie with structural sharing
//
// Crossing the threshold promotes or demotes a snapshot between tiers.
// Callers never observe the tier directly; every snapshot enumerates its
// entries in ascending byte-wise key order.
//
// # Usage
//
//	m := metadata.Empty().
//		Set("owner", "platform").
//		Set("replicas", "3")
//
//	replicas, ok := metadata.TryGet[int](m, "replicas") // 3, true
//	tier := metadata.GetOrDefault(m, "tier", "standard")
//
//	// Batch changes with a builder
//	b := m.ToBuilder()
//	b.Set("region", "eu-west-1").Remove("owner")
//	m2 := b.Build() // m is unchanged
//
// # Merging
//
// Merge combines two snapshots, recursing into nested snapshots. The incoming
// side wins conflicts unless a Resolver decides otherwise:
//
//	base := metadata.New(metadata.Pair{Key: "limits", Value: metadata.New(
//		metadata.Pair{Key: "cpu", Value: 1},
//		metadata.Pair{Key: "mem", Value: 512},
//	)})
//	patch := metadata.New(metadata.Pair{Key: "limits", Value: metadata.New(
//		metadata.Pair{Key: "mem", Value: 1024},
//	)})
//	merged := metadata.Merge(base, patch, nil) // {limits={cpu=1, mem=1024}}
//
// # Errors
//
// Lookups of missing keys and failed conversions are reported through
// boolean results. The only failures are contract violations such as a blank
// key or a nil snapshot argument, which panic with an *Error of
// KindPrecondition.
//
// # Configuration
//
// The linear threshold, logger and OpenTelemetry meter provider are set with
// options on NewBuilder, or loaded from YAML with LoadConfig. Tier transitions
// are logged at debug level and counted by the metadata.tier.promotions and
// metadata.tier.demotions instruments.
package metadata
