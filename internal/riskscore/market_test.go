package riskscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMarketRisk_ShortHistoryFallsBackNeutral(t *testing.T) {
	got := CalculateMarketRisk([]float64{100, 101, 102})

	assert.Equal(t, 0.5, got.Risk)
	assert.Equal(t, 0.5, got.PriceRisk)
	assert.Equal(t, "neutral", got.Status)
}

func TestCalculateMarketRisk_TopOfRange(t *testing.T) {
	// Steadily rising series: current price sits at the top of the
	// yearly range and above its SMA → elevated risk
	prices := make([]float64, 365)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	got := CalculateMarketRisk(prices)

	assert.Equal(t, 1.0, got.PriceRisk)
	assert.Greater(t, got.MomentumRisk, 0.5)
	assert.Greater(t, got.Risk, 0.5)
}

func TestCalculateMarketRisk_FlatSeries(t *testing.T) {
	prices := make([]float64, 365)
	for i := range prices {
		prices[i] = 100
	}

	got := CalculateMarketRisk(prices)

	// Degenerate range → neutral price risk; zero volatility
	assert.Equal(t, 0.5, got.PriceRisk)
	assert.Equal(t, 0.0, got.VolatilityRisk)
	// ratio 1.0 → momentum risk 1/3
	assert.InDelta(t, 0.333, got.MomentumRisk, 1e-3)
}

func TestCalculateMarketRisk_BottomOfRange(t *testing.T) {
	// Steadily falling series: current at the bottom, under the SMA
	prices := make([]float64, 365)
	for i := range prices {
		prices[i] = 500 - float64(i)
	}

	got := CalculateMarketRisk(prices)

	assert.Equal(t, 0.0, got.PriceRisk)
	assert.Less(t, got.MomentumRisk, 0.333)
	assert.Less(t, got.Risk, 0.5)
}

func TestCalculateMarketRisk_CompositeWeights(t *testing.T) {
	prices := make([]float64, 365)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	got := CalculateMarketRisk(prices)
	want := got.PriceRisk*0.45 + got.MomentumRisk*0.35 + got.VolatilityRisk*0.2
	assert.InDelta(t, want, got.Risk, 1e-3)
}

func TestMarketStatus(t *testing.T) {
	assert.Equal(t, "bullish", MarketStatus(0.2))
	assert.Equal(t, "neutral", MarketStatus(0.4))
	assert.Equal(t, "caution", MarketStatus(0.6))
	assert.Equal(t, "bearish", MarketStatus(0.9))
}
