package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/quantcore/internal/frontier"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/pkg/logger"
)

// statHistoryDays: 통계는 1년 일별 수익률 기준
const statHistoryDays = 365

// StatRefreshJob recomputes annualized asset stats and pairwise
// correlations from stored history — the frontier sampler's inputs
type StatRefreshJob struct {
	history *marketdata.Service
	stats   *marketdata.StatRepository
	symbols []string
	logger  *logger.Logger
}

// NewStatRefreshJob creates a new stat refresh job
func NewStatRefreshJob(history *marketdata.Service, stats *marketdata.StatRepository, symbols []string, log *logger.Logger) *StatRefreshJob {
	if len(symbols) == 0 {
		symbols = TrackedSymbols
	}
	return &StatRefreshJob{history: history, stats: stats, symbols: symbols, logger: log}
}

// Name returns the job name
func (j *StatRefreshJob) Name() string {
	return "stat_refresh"
}

// Schedule returns the cron schedule (00:30 UTC daily, after price sync)
func (j *StatRefreshJob) Schedule() string {
	return "0 30 0 * * *"
}

// Run recomputes and persists stats for every tracked symbol pair
func (j *StatRefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("symbols", len(j.symbols)).Info("Starting scheduled stat refresh")

	set, err := j.history.HistorySet(ctx, j.symbols, statHistoryDays)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	assets, corr := frontier.StatsFromHistory(set, j.symbols)

	for _, stat := range assets {
		if err := j.stats.SaveAssetStat(ctx, stat); err != nil {
			return fmt.Errorf("save stat %s: %w", stat.Symbol, err)
		}
	}

	for i := 0; i < len(j.symbols); i++ {
		for k := i + 1; k < len(j.symbols); k++ {
			a, b := j.symbols[i], j.symbols[k]
			if err := j.stats.SaveCorrelation(ctx, a, b, corr.Get(a, b)); err != nil {
				return fmt.Errorf("save correlation %s/%s: %w", a, b, err)
			}
		}
	}

	return nil
}
