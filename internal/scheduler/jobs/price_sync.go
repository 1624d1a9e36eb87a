// Package jobs defines the scheduled maintenance work: daily price
// sync, asset stat refresh, and risk gauge refresh.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/quantcore/internal/external/coingecko"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/pkg/logger"
)

// TrackedSymbols is the default symbol set the scheduled jobs maintain
var TrackedSymbols = []string{"BTC", "ETH", "SOL"}

// PriceSyncJob pulls daily price history from CoinGecko into Postgres
// ⭐ SSOT: 가격 동기화 스케줄은 이 Job에서만
type PriceSyncJob struct {
	client  *coingecko.Client
	store   *marketdata.PriceStore
	symbols []string
	logger  *logger.Logger
}

// NewPriceSyncJob creates a new price sync job
func NewPriceSyncJob(client *coingecko.Client, store *marketdata.PriceStore, symbols []string, log *logger.Logger) *PriceSyncJob {
	if len(symbols) == 0 {
		symbols = TrackedSymbols
	}
	return &PriceSyncJob{client: client, store: store, symbols: symbols, logger: log}
}

// Name returns the job name
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Schedule returns the cron schedule (00:10 UTC daily, with seconds)
func (j *PriceSyncJob) Schedule() string {
	return "0 10 0 * * *"
}

// Run fetches and upserts the last 365 days for every tracked symbol
func (j *PriceSyncJob) Run(ctx context.Context) error {
	j.logger.WithField("symbols", len(j.symbols)).Info("Starting scheduled price sync")

	for _, sym := range j.symbols {
		hist, err := j.client.MarketChart(ctx, sym, coingecko.MaxDays)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", sym, err)
		}

		if err := j.store.SaveCloses(ctx, sym, hist); err != nil {
			return fmt.Errorf("save %s: %w", sym, err)
		}

		j.logger.WithFields(map[string]interface{}{
			"symbol": sym,
			"points": len(hist),
		}).Debug("Synced price history")
	}

	return nil
}
