package engine

import "cmp"

// Share is the part of a distributed total assigned to one group.
type Share[K cmp.Ordered, V Number] struct {
	Key    K
	Base   int64
	Amount V
}

func baseTotal[K cmp.Ordered](base []Group[K, int64]) int64 {
	return Sum(base, func(g Group[K, int64]) int64 { return g.Total })
}

// AllocateWithRemainder distributes an integer total across the groups in
// proportion to their base. Every group but the last gets the rounded share;
// the last absorbs the remainder so the amounts add up to total. A zero base
// yields all-zero amounts.
func AllocateWithRemainder[K cmp.Ordered](total int64, base []Group[K, int64]) []Share[K, int64] {
	shares := make([]Share[K, int64], len(base))
	sum := baseTotal(base)

	var allocated int64
	for i, g := range base {
		shares[i] = Share[K, int64]{Key: g.Key, Base: g.Total}
		if sum <= 0 {
			continue
		}
		if i == len(base)-1 {
			shares[i].Amount = total - allocated
			continue
		}
		amount := RoundInt(float64(g.Total) / float64(sum) * float64(total))
		shares[i].Amount = amount
		allocated += amount
	}
	return shares
}

// AllocateProportional distributes a float total in proportion to the base,
// rounding every share to places decimals. Shares are not corrected to add
// up to total.
func AllocateProportional[K cmp.Ordered](total float64, base []Group[K, int64], places int32) []Share[K, float64] {
	shares := make([]Share[K, float64], len(base))
	sum := baseTotal(base)

	for i, g := range base {
		shares[i] = Share[K, float64]{Key: g.Key, Base: g.Total}
		if sum <= 0 {
			continue
		}
		shares[i].Amount = Round(float64(g.Total)/float64(sum)*total, places)
	}
	return shares
}
