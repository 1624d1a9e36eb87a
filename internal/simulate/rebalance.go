package simulate

import (
	"fmt"
	"sort"
	"time"

	"github.com/wonny/quantcore/internal/series"
)

// RunPortfolio simulates a target-weight multi-asset portfolio with
// periodic rebalancing over the intersection calendar of all weighted
// assets. Initial holdings are (capital × weight%) / opening price;
// on every cadence boundary all holdings are reset so each asset's
// value again matches its target weight — a full rebalance, not a
// drift correction.
//
// Missing price data for any weighted asset aborts the run; the
// simulator never substitutes zero or skips an asset.
func (e *Engine) RunPortfolio(set series.Set, strategy Strategy, initialCapital float64) (*PortfolioResult, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", initialCapital)
	}
	if len(strategy.Weights) == 0 {
		return nil, fmt.Errorf("strategy has no weights: %w", series.ErrInsufficientData)
	}

	// Preset files are validated on load, but inline strategies reach
	// here unchecked: reject leverage, keep any shortfall as cash
	weightSum := 0.0
	for sym, w := range strategy.Weights {
		if w <= 0 {
			return nil, fmt.Errorf("weight for %s must be positive, got %f", sym, w)
		}
		weightSum += w
	}
	if weightSum > 100+weightTolerance {
		return nil, fmt.Errorf("weights sum to %.4f%%, leverage is not supported", weightSum)
	}
	cashWeight := 100 - weightSum
	if cashWeight < 0 {
		cashWeight = 0
	}

	symbols := make([]string, 0, len(strategy.Weights))
	for sym := range strategy.Weights {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	dates := series.Intersect(set, symbols)
	if len(dates) == 0 {
		return nil, fmt.Errorf("no common dates across %v: %w", symbols, series.ErrInsufficientData)
	}
	if len(dates) < minAlignedDays {
		return nil, fmt.Errorf("only %d aligned days, need %d: %w",
			len(dates), minAlignedDays, series.ErrInsufficientData)
	}

	lookups := make(map[string]series.Lookup, len(symbols))
	for _, sym := range symbols {
		lookups[sym] = set[sym].Lookup()
	}

	// Initial allocation at the first aligned date; the unweighted
	// remainder stays as cash and is preserved across rebalances
	holdings := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		price, ok := lookups[sym][dates[0]]
		if !ok || price <= 0 {
			return nil, fmt.Errorf("%s at %s: %w", sym, dates[0].Format("2006-01-02"), series.ErrMissingPrice)
		}
		holdings[sym] = initialCapital * strategy.Weights[sym] / 100 / price
	}
	cash := initialCapital * cashWeight / 100

	result := &PortfolioResult{
		Strategy:       strategy,
		InitialCapital: initialCapital,
		Daily:          make([]EquityPoint, 0, len(dates)),
		Equity:         make([]EquityPoint, 0, len(dates)/equityDecimationStride+2),
		Drawdown:       make([]float64, 0, len(dates)),
	}

	peak := 0.0
	for i, date := range dates {
		value := cash
		for _, sym := range symbols {
			price, ok := lookups[sym][date]
			if !ok {
				return nil, fmt.Errorf("%s at %s: %w", sym, date.Format("2006-01-02"), series.ErrMissingPrice)
			}
			value += holdings[sym] * price
		}

		// Rebalance when a cadence boundary is crossed between the
		// previous and current aligned dates
		if i > 0 && crossesBoundary(strategy.Cadence, dates[i-1], date) {
			for _, sym := range symbols {
				price := lookups[sym][date]
				if price <= 0 {
					return nil, fmt.Errorf("%s at %s: %w", sym, date.Format("2006-01-02"), series.ErrMissingPrice)
				}
				holdings[sym] = value * strategy.Weights[sym] / 100 / price
			}
			cash = value * cashWeight / 100
			result.RebalanceCount++
		}

		if value > peak {
			peak = value
		}

		result.Daily = append(result.Daily, EquityPoint{Date: date, Value: value})
		result.Drawdown = append(result.Drawdown, (value-peak)/peak)

		// Decimated curve: every Nth bar plus the final bar
		if i%equityDecimationStride == 0 || i == len(dates)-1 {
			result.Equity = append(result.Equity, EquityPoint{Date: date, Value: value})
		}
	}

	result.FinalValue = result.Daily[len(result.Daily)-1].Value
	result.Holdings = holdings
	result.Cash = cash

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"strategy":    strategy.Name,
			"assets":      len(symbols),
			"days":        len(dates),
			"rebalances":  result.RebalanceCount,
			"final_value": fmt.Sprintf("%.2f", result.FinalValue),
		}).Debug("Portfolio simulation completed")
	}

	return result, nil
}

// crossesBoundary reports whether moving from prev to curr crosses a
// rebalance boundary for the given cadence. Comparison is between
// consecutive aligned dates, so a missing month-start date still
// triggers on the first available date of the new month, and a
// boundary can never fire twice.
func crossesBoundary(cadence Cadence, prev, curr time.Time) bool {
	monthChanged := prev.Month() != curr.Month() || prev.Year() != curr.Year()

	switch cadence {
	case CadenceMonthly:
		return monthChanged
	case CadenceQuarterly:
		if !monthChanged {
			return false
		}
		switch curr.Month() {
		case time.January, time.April, time.July, time.October:
			return true
		}
		return false
	case CadenceAnnually:
		return prev.Year() != curr.Year()
	default:
		return false
	}
}
