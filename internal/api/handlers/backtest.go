package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/internal/perf"
	"github.com/wonny/quantcore/internal/series"
	"github.com/wonny/quantcore/internal/simulate"
	"github.com/wonny/quantcore/internal/strategyconfig"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/logger"
)

const (
	defaultBacktestDays = 365
	defaultCapital      = 10000.0
)

// BacktestHandler handles simulation API endpoints
// ⭐ SSOT: 백테스트 API 핸들러는 이 구조체에서만
type BacktestHandler struct {
	history *marketdata.Service
	engine  *simulate.Engine
	presets *strategyconfig.File
	config  *config.Config
	logger  *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(
	history *marketdata.Service,
	engine *simulate.Engine,
	presets *strategyconfig.File,
	cfg *config.Config,
	log *logger.Logger,
) *BacktestHandler {
	if presets == nil {
		presets = strategyconfig.Default()
	}
	return &BacktestHandler{
		history: history,
		engine:  engine,
		presets: presets,
		config:  cfg,
		logger:  log,
	}
}

// BreakoutRequest parameterizes a breakout simulation
type BreakoutRequest struct {
	Symbol         string  `json:"symbol"`
	Days           int     `json:"days"`
	K              float64 `json:"k"`
	InvestRatio    float64 `json:"invest_ratio"`
	InitialCapital float64 `json:"initial_capital"`
}

// BreakoutResponse bundles the simulation output with its report
type BreakoutResponse struct {
	Result *simulate.BreakoutResult `json:"result"`
	Report *perf.Report             `json:"report"`
}

// Breakout runs the intraday-range breakout simulation
// POST /api/v1/backtest/breakout
func (h *BacktestHandler) Breakout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BreakoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" {
		req.Symbol = "BTC"
	}
	if req.Days <= 0 {
		req.Days = defaultBacktestDays
	}
	if req.K == 0 {
		req.K = h.config.Analytics.BreakoutK
	}
	if req.InvestRatio == 0 {
		req.InvestRatio = h.config.Analytics.BreakoutInvestRatio
	}
	if req.InitialCapital == 0 {
		req.InitialCapital = defaultCapital
	}

	bars, err := h.history.Bars(ctx, req.Symbol, req.Days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load bars")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	result, err := h.engine.RunBreakout(bars, simulate.BreakoutConfig{
		K:              req.K,
		InvestRatio:    req.InvestRatio,
		InitialCapital: req.InitialCapital,
	})
	if err != nil {
		if errors.Is(err, series.ErrInsufficientData) {
			respondError(w, http.StatusUnprocessableEntity, "Not enough price history to simulate")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := perf.Analyze(result.Equity, result.Trades, perf.Options{
		RiskFreeRate: h.config.Analytics.RiskFreeRate,
	})

	respondJSON(w, http.StatusOK, BreakoutResponse{Result: result, Report: report})
}

// PortfolioRequest parameterizes a rebalanced-portfolio simulation.
// Either a preset name or an inline strategy must be given.
type PortfolioRequest struct {
	Preset         string             `json:"preset,omitempty"`
	Strategy       *simulate.Strategy `json:"strategy,omitempty"`
	Days           int                `json:"days"`
	InitialCapital float64            `json:"initial_capital"`
}

// PortfolioResponse bundles the simulation output with its report
type PortfolioResponse struct {
	Result *simulate.PortfolioResult `json:"result"`
	Report *perf.Report              `json:"report"`
}

// Portfolio runs the target-weight rebalancing simulation
// POST /api/v1/backtest/portfolio
func (h *BacktestHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var strategy simulate.Strategy
	switch {
	case req.Strategy != nil:
		strategy = *req.Strategy
	case req.Preset != "":
		p := h.presets.Find(req.Preset)
		if p == nil {
			respondError(w, http.StatusNotFound, "Unknown preset: "+req.Preset)
			return
		}
		strategy = p.Strategy()
	default:
		respondError(w, http.StatusBadRequest, "Either preset or strategy is required")
		return
	}

	if req.Days <= 0 {
		req.Days = defaultBacktestDays
	}
	if req.InitialCapital == 0 {
		req.InitialCapital = defaultCapital
	}

	symbols := make([]string, 0, len(strategy.Weights))
	for sym := range strategy.Weights {
		symbols = append(symbols, sym)
	}

	set, err := h.history.HistorySet(ctx, symbols, req.Days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load history set")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	result, err := h.engine.RunPortfolio(set, strategy, req.InitialCapital)
	if err != nil {
		if errors.Is(err, series.ErrInsufficientData) || errors.Is(err, series.ErrMissingPrice) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// 통계는 항상 전체 일별 시계열에서 — 표시용 곡선 아님
	report := perf.Analyze(result.Daily, nil, perf.Options{
		RiskFreeRate: h.config.Analytics.RiskFreeRate,
	})

	respondJSON(w, http.StatusOK, PortfolioResponse{Result: result, Report: report})
}
