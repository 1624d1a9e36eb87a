package simulate

import (
	"fmt"

	"github.com/wonny/quantcore/internal/series"
)

// RunBreakout executes the intraday-range breakout strategy over daily
// bars. The position is flat at every bar boundary: on bar i, if the
// prior day's range is positive and high[i] reaches
// open[i] + K·(high[i-1]−low[i-1]), a round-trip is recorded — buy at
// the breakout target, sell at the bar's close. Realized P&L is applied
// to the InvestRatio fraction of current capital.
func (e *Engine) RunBreakout(bars []series.OHLCBar, cfg BreakoutConfig) (*BreakoutResult, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("breakout needs at least 2 bars: %w", series.ErrInsufficientData)
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", cfg.InitialCapital)
	}
	if cfg.InvestRatio <= 0 || cfg.InvestRatio > 1 {
		return nil, fmt.Errorf("invest ratio must be in (0, 1], got %f", cfg.InvestRatio)
	}

	result := &BreakoutResult{
		Config:         cfg,
		InitialCapital: cfg.InitialCapital,
		Equity:         make([]EquityPoint, 0, len(bars)),
		Drawdown:       make([]float64, 0, len(bars)),
	}

	capital := cfg.InitialCapital
	peak := capital

	for i, bar := range bars {
		if i > 0 {
			priorRange := bars[i-1].High - bars[i-1].Low
			// 직전 봉 변동폭이 0이면 그날은 거래 불가
			if priorRange > 0 {
				target := bar.Open + cfg.K*priorRange
				if bar.High >= target {
					pnlPct := (bar.Close - target) / target
					pnl := capital * cfg.InvestRatio * pnlPct
					capital += pnl

					result.Trades = append(result.Trades, Trade{
						Date:       series.Day(bar.Date),
						EntryPrice: target,
						ExitPrice:  bar.Close,
						PnLPct:     pnlPct * 100,
						PnL:        pnl,
						Capital:    capital,
					})
				}
			}
		}

		// Equity and drawdown once per bar, triggered or not
		if capital > peak {
			peak = capital
		}
		result.Equity = append(result.Equity, EquityPoint{
			Date:  series.Day(bar.Date),
			Value: capital,
		})
		result.Drawdown = append(result.Drawdown, (capital-peak)/peak)
	}

	result.FinalCapital = capital

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"bars":          len(bars),
			"trades":        len(result.Trades),
			"final_capital": fmt.Sprintf("%.2f", result.FinalCapital),
		}).Debug("Breakout simulation completed")
	}

	return result, nil
}
