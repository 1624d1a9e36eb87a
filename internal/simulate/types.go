package simulate

import (
	"time"
)

// Cadence controls how often the portfolio simulator rebalances
type Cadence string

const (
	CadenceNone      Cadence = "none"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnually  Cadence = "annually"
)

// Strategy is a target-weight allocation definition.
// Weights are percentages keyed by asset symbol; the sum is not
// pre-validated here, but every key must resolve to a known series
// before simulation starts.
type Strategy struct {
	Name    string             `json:"name" yaml:"name"`
	Weights map[string]float64 `json:"weights" yaml:"weights"`
	Cadence Cadence            `json:"cadence" yaml:"cadence"`
}

// BreakoutConfig parameterizes the intraday-range breakout simulator
type BreakoutConfig struct {
	// K multiplies the prior day's high-low range to set the entry target
	K float64 `json:"k"`
	// InvestRatio is the fraction of current capital put at risk per trade
	InvestRatio float64 `json:"invest_ratio"`
	// InitialCapital in quote currency
	InitialCapital float64 `json:"initial_capital"`
}

// Trade is one completed round-trip of the breakout simulator.
// 돌파 전략은 당일 진입/당일 청산 — 오버나이트 보유 없음
type Trade struct {
	Date       time.Time `json:"date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	PnLPct     float64   `json:"pnl_pct"`
	PnL        float64   `json:"pnl"`
	Capital    float64   `json:"capital"` // capital after the trade settled
}

// EquityPoint is one point of an equity curve
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BreakoutResult holds the breakout simulator output
type BreakoutResult struct {
	Config   BreakoutConfig `json:"config"`
	Equity   []EquityPoint  `json:"equity"`
	Drawdown []float64      `json:"drawdown"` // per-bar drawdown from running peak, ≤ 0
	Trades   []Trade        `json:"trades"`

	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
}

// DailyValues returns the full per-bar equity values
func (r *BreakoutResult) DailyValues() []float64 {
	out := make([]float64, len(r.Equity))
	for i, p := range r.Equity {
		out[i] = p.Value
	}
	return out
}

// PortfolioResult holds the rebalanced-portfolio simulator output.
// Equity is decimated for long horizons; Daily keeps the full value
// series that all performance statistics must be computed from.
type PortfolioResult struct {
	Strategy Strategy      `json:"strategy"`
	Equity   []EquityPoint `json:"equity"` // decimated (every 7th bar + final)
	Daily    []EquityPoint `json:"-"`      // full resolution, stats source
	Drawdown []float64     `json:"drawdown"`

	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	RebalanceCount int     `json:"rebalance_count"`

	// Holdings after the final bar, units per symbol
	Holdings map[string]float64 `json:"holdings"`
	// Cash is the uninvested remainder when weights sum below 100
	Cash float64 `json:"cash"`
}

// DailyValues returns the full-resolution equity values
func (r *PortfolioResult) DailyValues() []float64 {
	out := make([]float64, len(r.Daily))
	for i, p := range r.Daily {
		out[i] = p.Value
	}
	return out
}

// equityDecimationStride: 긴 구간에서도 곡선 크기를 억제 (7일마다 + 마지막)
const equityDecimationStride = 7

// minAlignedDays is the shortest aligned history worth simulating (~2 weeks)
const minAlignedDays = 14

// weightTolerance absorbs float noise when checking a weight sum
const weightTolerance = 1e-9
