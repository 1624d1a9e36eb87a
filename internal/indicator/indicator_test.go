package indicator

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got := SMA(prices, 3)

	// First period-1 values are NaN (no value yet)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("Expected NaN padding, got %v, %v", got[0], got[1])
	}

	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(got[i+2], w, 1e-12) {
			t.Errorf("SMA[%d] = %f, want %f", i+2, got[i+2], w)
		}
	}
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	prices := []float64{10, 12, 14}
	got := EMA(prices, 3) // multiplier = 0.5

	if got[0] != 10 {
		t.Errorf("EMA[0] = %f, want seed 10", got[0])
	}
	if !almostEqual(got[1], 11, 1e-12) { // (12-10)*0.5 + 10
		t.Errorf("EMA[1] = %f, want 11", got[1])
	}
	if !almostEqual(got[2], 12.5, 1e-12) { // (14-11)*0.5 + 11
		t.Errorf("EMA[2] = %f, want 12.5", got[2])
	}
}

func TestRSI_MonotonicIncreasing(t *testing.T) {
	// 단조 증가 시계열 → RSI는 100에 점근, 범위 밖으로 절대 못 나감
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	got := RSI(prices, DefaultRSIPeriod)

	for i, v := range got {
		if v < 0 || v > 100 {
			t.Fatalf("RSI[%d] = %f out of [0,100]", i, v)
		}
	}

	// No losses at all → avgLoss stays 0 → RSI pinned at 100
	if got[len(got)-1] != 100 {
		t.Errorf("RSI final = %f, want 100 for all-gain series", got[len(got)-1])
	}
}

func TestRSI_NeutralPadding(t *testing.T) {
	prices := []float64{100, 101, 102}
	got := RSI(prices, 14) // too short for period 14

	for i, v := range got {
		if v != 50 {
			t.Errorf("RSI[%d] = %f, want neutral 50", i, v)
		}
	}
}

func TestRSI_Alternating(t *testing.T) {
	// 등락 반복 → RSI는 중립대 부근에 머묾
	prices := make([]float64, 60)
	for i := range prices {
		if i%2 == 0 {
			prices[i] = 100
		} else {
			prices[i] = 101
		}
	}

	got := RSI(prices, 14)
	last := got[len(got)-1]
	if last < 30 || last > 70 {
		t.Errorf("RSI = %f, expected neutral zone for alternating series", last)
	}
}

func TestMACDHistogram_ConstantSeries(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 500
	}

	got := MACDHistogram(prices, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	for i, v := range got {
		if !almostEqual(v, 0, 1e-12) {
			t.Errorf("histogram[%d] = %f, want 0 for constant prices", i, v)
		}
	}
}

func TestMACDHistogram_TrendSign(t *testing.T) {
	// 상승 전환 직후 히스토그램은 양수로 밀림
	prices := make([]float64, 80)
	for i := range prices {
		if i < 40 {
			prices[i] = 100
		} else {
			prices[i] = 100 + float64(i-40)*2
		}
	}

	got := MACDHistogram(prices, 12, 26, 9)
	if got[45] <= 0 {
		t.Errorf("histogram[45] = %f, want positive during fresh uptrend", got[45])
	}
}

func TestBollingerWidth(t *testing.T) {
	prices := []float64{1, 2, 3}
	got := BollingerWidth(prices, 3)

	if got[0] != 0 || got[1] != 0 {
		t.Errorf("Expected zero padding before period-1, got %v, %v", got[0], got[1])
	}

	// window [1,2,3]: mean 2, population stddev √(2/3)
	want := 4 * math.Sqrt(2.0/3.0) / 2
	if !almostEqual(got[2], want, 1e-12) {
		t.Errorf("width[2] = %f, want %f", got[2], want)
	}
}

func TestBollingerWidth_ConstantSeries(t *testing.T) {
	prices := []float64{5, 5, 5, 5, 5}
	got := BollingerWidth(prices, 3)

	for i, v := range got {
		if v != 0 {
			t.Errorf("width[%d] = %f, want 0 for constant prices", i, v)
		}
	}
}

func TestRealizedVol(t *testing.T) {
	// Constant prices → zero volatility everywhere
	constant := []float64{100, 100, 100, 100, 100, 100}
	for i, v := range RealizedVol(constant, 3) {
		if v != 0 {
			t.Errorf("vol[%d] = %f, want 0 for constant prices", i, v)
		}
	}

	// Alternating ±1% moves → strictly positive once history suffices
	prices := make([]float64, 40)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 0 {
			prices[i] = prices[i-1] * 1.01
		} else {
			prices[i] = prices[i-1] * 0.99
		}
	}

	got := RealizedVol(prices, 30)
	for i := 0; i < 30; i++ {
		if got[i] != 0 {
			t.Errorf("vol[%d] = %f, want 0 before enough history", i, got[i])
		}
	}
	if got[35] <= 0 {
		t.Errorf("vol[35] = %f, want positive", got[35])
	}
}
