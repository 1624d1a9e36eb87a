// Package indicator provides pure technical indicator functions over a
// single price vector. Every function is stateless and deterministic,
// returns a vector of the same length as its input, and performs no I/O.
//
// 수치 규약: 분산은 전부 모집단(population) 기준, 연율화는 √365 (크립토는 연중무휴)
package indicator

import (
	"math"

	"github.com/wonny/quantcore/internal/series"
)

// Default lookback periods
const (
	DefaultRSIPeriod       = 14
	DefaultMACDFast        = 12
	DefaultMACDSlow        = 26
	DefaultMACDSignal      = 9
	DefaultBollingerPeriod = 20
	DefaultVolPeriod       = 30

	// TradingDaysPerYear for annualization; crypto trades every day
	TradingDaysPerYear = 365
)

// SMA returns the simple moving average. Indices with insufficient
// history (i < period-1) are NaN so downstream consumers can tell
// "no value yet" apart from a real zero.
func SMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average seeded with the first
// data value, multiplier 2/(period+1)
func EMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 || period <= 0 {
		return out
	}

	multiplier := 2.0 / float64(period+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index.
// Seed: average gain/loss over the first `period` deltas; then
// avg = (avg*(period-1) + new) / period. Output is 100 when the
// average loss is zero. Left pad is the neutral 50.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = 50
	}
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// MACDHistogram returns EMA(fast)−EMA(slow) minus its EMA(signal)
// smoothing (the signal line). Zero-valued until the EMAs diverge.
func MACDHistogram(prices []float64, fast, slow, signal int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}

	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	macd := make([]float64, len(prices))
	for i := range prices {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	signalLine := EMA(macd, signal)
	for i := range prices {
		out[i] = macd[i] - signalLine[i]
	}
	return out
}

// BollingerWidth returns 4·stddev(window)/mean(window) per index,
// zero before period-1 bars of history. Population stddev.
func BollingerWidth(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(prices); i++ {
		window := prices[i-period+1 : i+1]
		mean := series.Mean(window)
		if mean == 0 {
			continue
		}
		out[i] = 4 * series.StdDev(window) / mean
	}
	return out
}

// RealizedVol returns the rolling annualized volatility of log returns:
// population stdev over `period` returns, scaled by √365. Zero before
// enough history. Values are decimal fractions (0.65 = 65%).
func RealizedVol(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) < 2 {
		return out
	}

	rets := series.LogReturns(prices)
	for i := period; i < len(prices); i++ {
		// returns[i-period .. i-1] cover prices[i-period .. i]
		window := rets[i-period : i]
		out[i] = series.StdDev(window) * math.Sqrt(TradingDaysPerYear)
	}
	return out
}
