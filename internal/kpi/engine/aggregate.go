package engine

import (
	"cmp"
	"slices"
)

type Number interface {
	~int64 | ~float64
}

// Group is one bucket of a grouped sum.
type Group[K cmp.Ordered, V Number] struct {
	Key   K
	Total V
}

func Sum[T any, V Number](rows []T, measure func(T) V) V {
	var total V
	for _, row := range rows {
		total += measure(row)
	}
	return total
}

// SumBy sums measure per key and returns the groups in ascending key order.
func SumBy[T any, K cmp.Ordered, V Number](rows []T, key func(T) K, measure func(T) V) []Group[K, V] {
	totals := make(map[K]V)
	for _, row := range rows {
		totals[key(row)] += measure(row)
	}

	groups := make([]Group[K, V], 0, len(totals))
	for k, v := range totals {
		groups = append(groups, Group[K, V]{Key: k, Total: v})
	}
	slices.SortFunc(groups, func(a, b Group[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

// Lookup returns the total for key, or zero.
func Lookup[K cmp.Ordered, V Number](groups []Group[K, V], key K) V {
	i, ok := slices.BinarySearchFunc(groups, key, func(g Group[K, V], k K) int {
		return cmp.Compare(g.Key, k)
	})
	if !ok {
		return 0
	}
	return groups[i].Total
}
