// Package perf turns an equity curve into standardized performance and
// risk statistics. Analysis is a pure read: the same curve always yields
// bit-identical reports, and nothing is cached between calls.
package perf

import (
	"math"
	"sort"

	"github.com/wonny/quantcore/internal/series"
	"github.com/wonny/quantcore/internal/simulate"
)

// DaysPerYear for annualization; crypto markets trade every day
const DaysPerYear = 365.0

// profitFactorCap bounds the ratio when there are no losing trades
const profitFactorCap = 99.99

// Options configures the analyzer
type Options struct {
	// RiskFreeRate is the annualized risk-free rate in percent (e.g. 4.5)
	RiskFreeRate float64
	// Benchmark is an optional benchmark curve with the same cadence
	Benchmark []simulate.EquityPoint
}

// Report is the derived, read-only aggregate over an equity curve
type Report struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`

	// Returns (percent)
	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`

	// Risk (percent / ratios)
	Volatility  float64 `json:"volatility"` // annualized, percent
	MaxDrawdown float64 `json:"max_drawdown"` // ≤ 0, percent
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	Calmar      float64 `json:"calmar"`

	// Trade statistics — only meaningful for strategies with a discrete
	// trade list; zero-valued otherwise (not an error)
	TotalTrades   int     `json:"total_trades"`
	WinRate       float64 `json:"win_rate"` // percent
	AvgWinPct     float64 `json:"avg_win_pct"`
	AvgLossPct    float64 `json:"avg_loss_pct"`
	ProfitFactor  float64 `json:"profit_factor"`
	MaxWinStreak  int     `json:"max_win_streak"`
	MaxLossStreak int     `json:"max_loss_streak"`

	// Calendar buckets; absent buckets mean no coverage, never zero-filled
	YearlyReturns  map[int]float64    `json:"yearly_returns"`
	MonthlyReturns map[string]float64 `json:"monthly_returns"` // "2024-01"

	// Benchmark comparison (percent), zero when no benchmark given
	BenchmarkReturn float64 `json:"benchmark_return,omitempty"`
	ExcessReturn    float64 `json:"excess_return,omitempty"`
}

// Analyze computes the full report for an equity curve. A trade list may
// be nil (portfolio strategies have none). Curves shorter than 2 points
// return an empty report rather than erroring.
func Analyze(curve []simulate.EquityPoint, trades []simulate.Trade, opts Options) *Report {
	report := &Report{
		YearlyReturns:  map[int]float64{},
		MonthlyReturns: map[string]float64{},
	}
	if len(curve) < 2 || curve[0].Value <= 0 {
		return report
	}

	first := curve[0]
	last := curve[len(curve)-1]
	report.StartDate = first.Date.Format("2006-01-02")
	report.EndDate = last.Date.Format("2006-01-02")
	report.Days = int(last.Date.Sub(first.Date).Hours() / 24)

	report.TotalReturn = (last.Value/first.Value - 1) * 100
	report.CAGR = cagr(first.Value, last.Value, report.Days)

	values := make([]float64, len(curve))
	for i, p := range curve {
		values[i] = p.Value
	}
	daily := series.SimpleReturns(values)

	annVol := series.StdDev(daily) * math.Sqrt(DaysPerYear) * 100
	report.Volatility = annVol
	report.MaxDrawdown = MaxDrawdown(values)

	// Risk-adjusted ratios; degenerate denominators resolve to 0
	if annVol > 0 {
		report.Sharpe = (report.CAGR - opts.RiskFreeRate) / annVol
	}
	downside := downsideDeviation(daily) * math.Sqrt(DaysPerYear) * 100
	if downside > 0 {
		report.Sortino = (report.CAGR - opts.RiskFreeRate) / downside
	}
	if report.MaxDrawdown < 0 {
		report.Calmar = report.CAGR / math.Abs(report.MaxDrawdown)
	}

	analyzeTrades(report, trades)
	analyzeCalendar(report, curve)

	if len(opts.Benchmark) >= 2 && opts.Benchmark[0].Value > 0 {
		bFirst := opts.Benchmark[0].Value
		bLast := opts.Benchmark[len(opts.Benchmark)-1].Value
		report.BenchmarkReturn = (bLast/bFirst - 1) * 100
		report.ExcessReturn = report.TotalReturn - report.BenchmarkReturn
	}

	return report
}

// MaxDrawdown returns the worst peak-to-trough decline in percent (≤ 0).
// The running peak only ever increases, so truncating the series at any
// index reproduces the drawdown-so-far at that index.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100
}

// cagr computes the compound annual growth rate in percent
func cagr(initial, final float64, days int) float64 {
	years := float64(days) / DaysPerYear
	if years < 1.0/DaysPerYear || initial <= 0 || final <= 0 {
		return 0
	}
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// downsideDeviation is the population stdev of negative returns only
func downsideDeviation(returns []float64) float64 {
	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	return series.StdDev(negative)
}

func analyzeTrades(report *Report, trades []simulate.Trade) {
	report.TotalTrades = len(trades)
	if len(trades) == 0 {
		return
	}

	var wins, losses int
	var sumWin, sumLoss float64   // PnLPct sums
	var grossWin, grossLoss float64 // absolute PnL sums
	var winStreak, lossStreak int

	for _, t := range trades {
		switch {
		case t.PnL > 0:
			wins++
			sumWin += t.PnLPct
			grossWin += t.PnL
			winStreak++
			lossStreak = 0
		case t.PnL < 0:
			losses++
			sumLoss += t.PnLPct
			grossLoss += -t.PnL
			lossStreak++
			winStreak = 0
		default:
			winStreak = 0
			lossStreak = 0
		}
		if winStreak > report.MaxWinStreak {
			report.MaxWinStreak = winStreak
		}
		if lossStreak > report.MaxLossStreak {
			report.MaxLossStreak = lossStreak
		}
	}

	report.WinRate = float64(wins) / float64(len(trades)) * 100
	if wins > 0 {
		report.AvgWinPct = sumWin / float64(wins)
	}
	if losses > 0 {
		report.AvgLossPct = sumLoss / float64(losses)
	}

	switch {
	case grossLoss > 0:
		report.ProfitFactor = grossWin / grossLoss
		if report.ProfitFactor > profitFactorCap {
			report.ProfitFactor = profitFactorCap
		}
	case grossWin > 0:
		// 손실 트레이드가 없으면 상한값으로 캡
		report.ProfitFactor = profitFactorCap
	}
}

// analyzeCalendar buckets returns by year and year-month, using the
// first and last equity value inside each bucket. Buckets without
// coverage are simply absent.
func analyzeCalendar(report *Report, curve []simulate.EquityPoint) {
	type window struct{ first, last float64 }
	years := map[int]*window{}
	months := map[string]*window{}

	for _, p := range curve {
		y := p.Date.Year()
		m := p.Date.Format("2006-01")

		if w, ok := years[y]; ok {
			w.last = p.Value
		} else {
			years[y] = &window{first: p.Value, last: p.Value}
		}
		if w, ok := months[m]; ok {
			w.last = p.Value
		} else {
			months[m] = &window{first: p.Value, last: p.Value}
		}
	}

	for y, w := range years {
		if w.first > 0 {
			report.YearlyReturns[y] = (w.last/w.first - 1) * 100
		}
	}
	for m, w := range months {
		if w.first > 0 {
			report.MonthlyReturns[m] = (w.last/w.first - 1) * 100
		}
	}
}

// SortedYears returns the yearly bucket keys in ascending order
func (r *Report) SortedYears() []int {
	years := make([]int, 0, len(r.YearlyReturns))
	for y := range r.YearlyReturns {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
