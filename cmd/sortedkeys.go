package cmd

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// sortedKeys returns the keys of m in sorted order. It stands in for
// slices.Sorted(maps.Keys(m)), which needs the Go 1.23 iterator stdlib.
func sortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
