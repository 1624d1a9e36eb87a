package simulate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantcore/internal/series"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRunBreakout_TriggersOnRangeBreak(t *testing.T) {
	// bar 0: range 0 → no trade possible on bar 1's prior range? No —
	// bar 0 has range 0 only if high==low. Here bar 0 range = 8.
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 106, Low: 98, Close: 100},
		{Date: day(2024, 1, 2), Open: 100, High: 106, Low: 98, Close: 105},
	}

	engine := NewEngine(nil)
	result, err := engine.RunBreakout(bars, BreakoutConfig{
		K:              0.5,
		InvestRatio:    1.0,
		InitialCapital: 10000,
	})
	require.NoError(t, err)

	// target = 100 + 0.5×(106−98) = 104; high 106 ≥ 104 → trade,
	// buy 104 sell 105 → pnl ≈ +0.96%
	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.InDelta(t, 104.0, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 105.0, trade.ExitPrice, 1e-9)
	assert.InDelta(t, (105.0-104.0)/104.0*100, trade.PnLPct, 1e-9)

	expectedCapital := 10000 * (1 + (105.0-104.0)/104.0)
	assert.InDelta(t, expectedCapital, result.FinalCapital, 1e-6)

	// Equity recorded once per bar
	require.Len(t, result.Equity, 2)
	assert.Equal(t, 10000.0, result.Equity[0].Value)
	assert.InDelta(t, expectedCapital, result.Equity[1].Value, 1e-6)
}

func TestRunBreakout_ZeroPriorRange(t *testing.T) {
	// 직전 봉 변동폭 0 → 거래 불가 (에러 아님, 정상 분기)
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 100, Low: 100, Close: 100},
		{Date: day(2024, 1, 2), Open: 100, High: 106, Low: 98, Close: 105},
	}

	engine := NewEngine(nil)
	result, err := engine.RunBreakout(bars, BreakoutConfig{
		K:              0.5,
		InvestRatio:    1.0,
		InitialCapital: 10000,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, 10000.0, result.FinalCapital)
}

func TestRunBreakout_NoTriggerBelowTarget(t *testing.T) {
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 106, Low: 98, Close: 100},
		// target = 104, high stays at 103 → no trade
		{Date: day(2024, 1, 2), Open: 100, High: 103, Low: 99, Close: 102},
	}

	engine := NewEngine(nil)
	result, err := engine.RunBreakout(bars, BreakoutConfig{
		K:              0.5,
		InvestRatio:    1.0,
		InitialCapital: 10000,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRunBreakout_InvestRatioScalesPnL(t *testing.T) {
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 106, Low: 98, Close: 100},
		{Date: day(2024, 1, 2), Open: 100, High: 106, Low: 98, Close: 105},
	}

	engine := NewEngine(nil)
	full, err := engine.RunBreakout(bars, BreakoutConfig{K: 0.5, InvestRatio: 1.0, InitialCapital: 10000})
	require.NoError(t, err)
	half, err := engine.RunBreakout(bars, BreakoutConfig{K: 0.5, InvestRatio: 0.5, InitialCapital: 10000})
	require.NoError(t, err)

	fullPnL := full.FinalCapital - 10000
	halfPnL := half.FinalCapital - 10000
	assert.InDelta(t, fullPnL/2, halfPnL, 1e-9)
}

func TestRunBreakout_DrawdownTracksRunningPeak(t *testing.T) {
	// A winning bar then a losing bar: drawdown must be 0 at the peak
	// and negative afterwards
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 110, Low: 90, Close: 100},
		{Date: day(2024, 1, 2), Open: 100, High: 112, Low: 100, Close: 112}, // win
		{Date: day(2024, 1, 3), Open: 112, High: 120, Low: 110, Close: 114}, // entry 118, exit 114 → loss
	}

	engine := NewEngine(nil)
	result, err := engine.RunBreakout(bars, BreakoutConfig{K: 0.5, InvestRatio: 1.0, InitialCapital: 10000})
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)

	assert.Equal(t, 0.0, result.Drawdown[0])
	assert.Equal(t, 0.0, result.Drawdown[1])
	assert.Less(t, result.Drawdown[2], 0.0)

	for _, dd := range result.Drawdown {
		assert.False(t, math.IsNaN(dd))
		assert.LessOrEqual(t, dd, 0.0)
	}
}

func TestRunBreakout_InputValidation(t *testing.T) {
	engine := NewEngine(nil)
	bars := []series.OHLCBar{
		{Date: day(2024, 1, 1), Open: 100, High: 106, Low: 98, Close: 100},
		{Date: day(2024, 1, 2), Open: 100, High: 106, Low: 98, Close: 105},
	}

	_, err := engine.RunBreakout(bars[:1], BreakoutConfig{K: 0.5, InvestRatio: 1, InitialCapital: 1000})
	assert.ErrorIs(t, err, series.ErrInsufficientData)

	_, err = engine.RunBreakout(bars, BreakoutConfig{K: 0.5, InvestRatio: 0, InitialCapital: 1000})
	assert.Error(t, err)

	_, err = engine.RunBreakout(bars, BreakoutConfig{K: 0.5, InvestRatio: 1, InitialCapital: 0})
	assert.Error(t, err)
}
