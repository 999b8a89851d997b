// Package selector filters metadata snapshots with CEL expressions.
//
// Each expression sees the snapshot as the variable meta, a map from string
// to dynamic values. Nested snapshots appear as nested maps.
//
//	sel := selector.MustCompile(`meta.env == "prod" && meta.replicas >= 3`)
//	ok, err := sel.Match(m)
//
// Reading a key that is not present is an evaluation error in CEL; guard
// optional keys with has() or the in operator:
//
//	selector.MustCompile(`has(meta.owner) && meta.owner.startsWith("team-")`)
//	selector.MustCompile(`"deprecated" in meta`)
package selector
