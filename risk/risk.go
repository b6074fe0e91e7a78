// Package risk sizes entries for the replay engine.
package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

// QuantityPrecision is the number of decimals order quantities are
// floored to.
const QuantityPrecision = 6

// Stake returns the quantity bought when fraction of equity is committed
// at price. The result is floored to QuantityPrecision so the cost never
// exceeds the committed amount.
func Stake(equity, fraction, price float64) float64 {
	if !finitePositive(equity) || !finitePositive(fraction) || !finitePositive(price) {
		return 0
	}
	if fraction > 1 {
		fraction = 1
	}
	amount := decimal.NewFromFloat(equity).Mul(decimal.NewFromFloat(fraction))
	qty := amount.Div(decimal.NewFromFloat(price)).RoundDown(QuantityPrecision)
	return qty.InexactFloat64()
}

// ByStopDistance sizes a trade so that hitting a stop stopLossPct below
// price loses maxRisk of equity.
func ByStopDistance(equity, maxRisk, stopLossPct, price float64) float64 {
	riskAmt := equity * maxRisk
	slDist := price * math.Abs(stopLossPct)
	if slDist == 0 || math.IsNaN(slDist) {
		return 0
	}
	qty := decimal.NewFromFloat(riskAmt / slDist).RoundDown(QuantityPrecision)
	return math.Max(qty.InexactFloat64(), 0)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
