package riskscore

import (
	"math"

	"github.com/wonny/quantcore/internal/series"
)

// MarketRisk is a composite 0–1 price-action risk gauge built from one
// year of daily closes: position in the yearly range, distance from the
// 200-day SMA, and short-term realized volatility.
type MarketRisk struct {
	Risk           float64 `json:"risk"`
	PriceRisk      float64 `json:"price_risk"`
	MomentumRisk   float64 `json:"momentum_risk"`
	VolatilityRisk float64 `json:"volatility_risk"`
	Status         string  `json:"status"`
}

// Component weights of the composite gauge
const (
	marketPriceWeight    = 0.45
	marketMomentumWeight = 0.35
	marketVolWeight      = 0.20

	marketVolWindow = 30
)

// CalculateMarketRisk computes the gauge over a daily close vector.
// Fewer than 30 prices degrades to a neutral 0.5 reading everywhere —
// a documented fallback, not an error.
func CalculateMarketRisk(prices []float64) MarketRisk {
	if len(prices) < marketVolWindow {
		return MarketRisk{
			Risk: 0.5, PriceRisk: 0.5, MomentumRisk: 0.5, VolatilityRisk: 0.5,
			Status: MarketStatus(0.5),
		}
	}

	current := prices[len(prices)-1]

	// 1. Position in the trailing range (0 = bottom, 1 = top)
	min, max := prices[0], prices[0]
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	priceRisk := 0.5
	if max > min {
		priceRisk = (current - min) / (max - min)
	}

	// 2. Distance from the 200-day SMA
	// ratio 0.5 → 0, ratio 1.0 → 0.5, ratio 2.0 → 1.0
	smaWindow := prices
	if len(prices) >= 200 {
		smaWindow = prices[len(prices)-200:]
	}
	sma := series.Mean(smaWindow)
	momentumRisk := 0.5
	if sma > 0 {
		momentumRisk = clamp01((current/sma - 0.5) / 1.5)
	}

	// 3. 30-day annualized volatility: 0% → 0, 100% → 0.5, 200%+ → 1.0
	recent := prices[len(prices)-marketVolWindow:]
	annVol := series.StdDev(series.LogReturns(recent)) * math.Sqrt(365)
	volatilityRisk := clamp01(annVol / 2)

	risk := priceRisk*marketPriceWeight + momentumRisk*marketMomentumWeight + volatilityRisk*marketVolWeight

	return MarketRisk{
		Risk:           round3(risk),
		PriceRisk:      round3(priceRisk),
		MomentumRisk:   round3(momentumRisk),
		VolatilityRisk: round3(volatilityRisk),
		Status:         MarketStatus(risk),
	}
}

// MarketStatus labels a 0–1 risk reading
func MarketStatus(risk float64) string {
	switch {
	case risk <= 0.25:
		return "bullish"
	case risk <= 0.5:
		return "neutral"
	case risk <= 0.75:
		return "caution"
	default:
		return "bearish"
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
