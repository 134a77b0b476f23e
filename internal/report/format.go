// Package report turns parsed prediction results into display values: rounded percentages,
// risk tiers and their colors, chart series and rendered narrative text. Nothing here touches
// form state.
package report

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Percent formats a probability p as a percentage with the given number of decimals,
// rounding half away from zero. Percent(0.4521, 2) is "45.21%".
func Percent(p float64, decimals int) string {
	return round(p, 2, decimals) + "%"
}

// Fixed formats v with the given number of decimals, rounding half away from zero.
func Fixed(v float64, decimals int) string {
	return round(v, 0, decimals)
}

// round scales v by 10^shift and rounds it to decimals places. The arithmetic runs on the
// shortest decimal form of v so that 0.125 rounds to 0.13 instead of 0.12.
func round(v float64, shift, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
	if decimals < 0 {
		decimals = 0
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return strconv.FormatFloat(v*math.Pow10(shift), 'f', decimals, 64)
	}
	r.Mul(r, new(big.Rat).SetInt(pow10(shift+decimals)))

	neg := r.Sign() < 0
	r.Abs(r)
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Lsh(m, 1).Cmp(r.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	digits := q.String()
	if decimals > 0 {
		if len(digits) <= decimals {
			digits = strings.Repeat("0", decimals-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-decimals] + "." + digits[len(digits)-decimals:]
	}
	if neg && q.Sign() != 0 {
		digits = "-" + digits
	}
	return digits
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Width clamps a probability into a CSS width percentage in [0, 100].
func Width(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 100
	default:
		return p * 100
	}
}
