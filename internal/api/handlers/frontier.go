package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wonny/quantcore/internal/frontier"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/logger"
)

// FrontierHandler handles Monte Carlo frontier sampling
type FrontierHandler struct {
	history *marketdata.Service
	stats   *marketdata.StatRepository
	config  *config.Config
	logger  *logger.Logger
}

// NewFrontierHandler creates a new frontier handler. stats may be nil;
// sampling then always derives stats from price history.
func NewFrontierHandler(history *marketdata.Service, stats *marketdata.StatRepository, cfg *config.Config, log *logger.Logger) *FrontierHandler {
	return &FrontierHandler{history: history, stats: stats, config: cfg, logger: log}
}

// FrontierRequest parameterizes a frontier sampling run
type FrontierRequest struct {
	Symbols      []string `json:"symbols"`
	Days         int      `json:"days"`
	Samples      int      `json:"samples"`
	RiskFreeRate *float64 `json:"risk_free_rate,omitempty"`
	KeepSamples  bool     `json:"keep_samples"`
}

// Sample runs Monte Carlo frontier sampling over historical stats
// POST /api/v1/frontier
func (h *FrontierHandler) Sample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FrontierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) < 1 {
		respondError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}
	if req.Days <= 0 {
		req.Days = defaultBacktestDays
	}
	if req.Samples <= 0 {
		req.Samples = h.config.Analytics.FrontierSamples
	}
	riskFree := h.config.Analytics.RiskFreeRate
	if req.RiskFreeRate != nil {
		riskFree = *req.RiskFreeRate
	}

	assets, corr, err := h.loadStats(ctx, req.Symbols, req.Days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load asset stats")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	sampler := frontier.NewSampler(0)
	result, err := sampler.Sample(assets, corr, frontier.Config{
		Samples:      req.Samples,
		RiskFreeRate: riskFree,
		KeepSamples:  req.KeepSamples,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// loadStats prefers the scheduler-maintained stat tables and falls back
// to deriving stats from price history when they are missing or stale
func (h *FrontierHandler) loadStats(ctx context.Context, symbols []string, days int) ([]frontier.AssetStat, frontier.CorrelationTable, error) {
	if h.stats != nil {
		assets, err := h.stats.AssetStats(ctx, symbols)
		if err == nil && len(assets) == len(symbols) {
			corr, err := h.stats.Correlations(ctx, symbols)
			if err == nil {
				return assets, corr, nil
			}
		}
	}

	set, err := h.history.HistorySet(ctx, symbols, days)
	if err != nil {
		return nil, nil, err
	}

	assets, corr := frontier.StatsFromHistory(set, symbols)
	return assets, corr, nil
}
