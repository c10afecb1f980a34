package engine

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1074

// Ratio returns numerator/denominator*scale, or 0 when the denominator is not positive.
func Ratio(numerator, denominator, scale float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator * scale
}

// Round rounds x to places decimals, half to even, on the exact binary value of x.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	exact, err := decimal.NewFromString(strconv.FormatFloat(x, 'f', exactDigits, 64))
	if err != nil {
		return x
	}
	rounded, _ := exact.RoundBank(places).Float64()
	return rounded
}

// RoundInt rounds x to the nearest integer, half to even.
func RoundInt(x float64) int64 {
	return int64(math.RoundToEven(x))
}
