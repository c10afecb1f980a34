package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	assert.Zero(t, Ratio(5, 0, 100))
	assert.Zero(t, Ratio(5, -1, 100))
	assert.Equal(t, 50.0, Ratio(1, 2, 100))
}

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   float64
	}{
		{2.675, 2, 2.67}, // stored below the tie
		{0.125, 2, 0.12}, // exact tie goes to even
		{0.375, 2, 0.38},
		{13.1601, 2, 13.16},
		{0.028499580888516344, 4, 0.0285},
		{-1.005, 2, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round(tc.in, tc.places), "%v", tc.in)
	}
}

func TestRoundInt(t *testing.T) {
	assert.Equal(t, int64(2), RoundInt(2.5))
	assert.Equal(t, int64(4), RoundInt(3.5))
	assert.Equal(t, int64(170), RoundInt(170.1257))
}

func TestAllocateWithRemainder(t *testing.T) {
	base := []Group[int64, int64]{{Key: 1, Total: 1}, {Key: 2, Total: 1}, {Key: 3, Total: 1}}
	shares := AllocateWithRemainder(10, base)

	assert.Equal(t, int64(3), shares[0].Amount)
	assert.Equal(t, int64(3), shares[1].Amount)
	assert.Equal(t, int64(4), shares[2].Amount)
}

func TestAllocateWithRemainder_ZeroBase(t *testing.T) {
	base := []Group[int64, int64]{{Key: 1, Total: 0}, {Key: 2, Total: 0}}
	for _, s := range AllocateWithRemainder(9, base) {
		assert.Zero(t, s.Amount)
	}
	assert.Empty(t, AllocateWithRemainder[int64](9, nil))
}

// The last group takes total minus the rounded shares before it, even when
// that leaves it negative.
func TestAllocateWithRemainder_LastGroupCanGoNegative(t *testing.T) {
	base := []Group[int64, int64]{
		{Key: 1, Total: 4674},
		{Key: 2, Total: 445},
		{Key: 3, Total: 4117},
		{Key: 4, Total: 0},
	}
	shares := AllocateWithRemainder(86105, base)

	require.Len(t, shares, 4)
	assert.Equal(t, int64(43575), shares[0].Amount)
	assert.Equal(t, int64(4149), shares[1].Amount)
	assert.Equal(t, int64(38382), shares[2].Amount)
	assert.Equal(t, int64(-1), shares[3].Amount)

	var sum int64
	for _, s := range shares {
		sum += s.Amount
	}
	assert.Equal(t, int64(86105), sum)
}

func TestAllocateProportional(t *testing.T) {
	base := []Group[int64, int64]{{Key: 1, Total: 1}, {Key: 2, Total: 2}}
	shares := AllocateProportional(10, base, 2)

	assert.Equal(t, 3.33, shares[0].Amount)
	assert.Equal(t, 6.67, shares[1].Amount)
}

func TestSumBy_OrdersByKey(t *testing.T) {
	rows := []int64{5, 3, 5, 1}
	groups := SumBy(rows, func(v int64) int64 { return v }, func(int64) int64 { return 1 })

	assert.Equal(t, []Group[int64, int64]{{Key: 1, Total: 1}, {Key: 3, Total: 1}, {Key: 5, Total: 2}}, groups)
	assert.Equal(t, int64(2), Lookup(groups, 5))
	assert.Zero(t, Lookup(groups, 4))
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, "2024", YearOf("20240615"))
	assert.Equal(t, "2025", YearOf("202506"))
	assert.Equal(t, "2024", YearOf("2024-06-15"))
	assert.Equal(t, "99", YearOf("99"))
}
