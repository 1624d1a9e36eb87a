package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/internal/riskscore"
	"github.com/wonny/quantcore/pkg/logger"
	"github.com/wonny/quantcore/pkg/redis"
)

// riskHistoryDays: 리스크 게이지는 1년 구간 기준
const riskHistoryDays = 365

// RiskRefreshJob recomputes the per-symbol market risk gauge and
// caches it so API reads stay cheap
type RiskRefreshJob struct {
	history *marketdata.Service
	cache   *redis.Cache
	symbols []string
	logger  *logger.Logger
}

// NewRiskRefreshJob creates a new risk refresh job
func NewRiskRefreshJob(history *marketdata.Service, cache *redis.Cache, symbols []string, log *logger.Logger) *RiskRefreshJob {
	if len(symbols) == 0 {
		symbols = TrackedSymbols
	}
	return &RiskRefreshJob{history: history, cache: cache, symbols: symbols, logger: log}
}

// Name returns the job name
func (j *RiskRefreshJob) Name() string {
	return "risk_refresh"
}

// Schedule returns the cron schedule (hourly, on the hour)
func (j *RiskRefreshJob) Schedule() string {
	return "0 0 * * * *"
}

// Run recomputes and caches the market risk gauge per symbol
func (j *RiskRefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("symbols", len(j.symbols)).Info("Starting scheduled risk refresh")

	for _, sym := range j.symbols {
		hist, err := j.history.History(ctx, sym, riskHistoryDays)
		if err != nil {
			return fmt.Errorf("load history %s: %w", sym, err)
		}

		gauge := riskscore.CalculateMarketRisk(hist.Prices())

		if j.cache != nil {
			if err := j.cache.Set(ctx, redis.RiskMetricKey(sym), gauge, redis.TTLMedium); err != nil {
				j.logger.WithError(err).WithField("symbol", sym).Warn("risk gauge cache write failed")
			}
		}

		j.logger.WithFields(map[string]interface{}{
			"symbol": sym,
			"risk":   gauge.Risk,
			"status": gauge.Status,
		}).Debug("Refreshed risk gauge")
	}

	return nil
}
