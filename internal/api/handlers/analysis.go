package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/quantcore/internal/crossover"
	"github.com/wonny/quantcore/internal/indicator"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/pkg/logger"
)

// AnalysisHandler handles indicator and cross-event endpoints
type AnalysisHandler struct {
	history *marketdata.Service
	logger  *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(history *marketdata.Service, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{history: history, logger: log}
}

// CrossoverRequest parameterizes cross detection and forward returns
type CrossoverRequest struct {
	Symbol     string `json:"symbol"`
	Days       int    `json:"days"`
	FastPeriod int    `json:"fast_period"`
	SlowPeriod int    `json:"slow_period"`
	Horizons   []int  `json:"horizons,omitempty"`
}

// CrossoverResponse reports the events and their forward-return stats
type CrossoverResponse struct {
	Symbol string                 `json:"symbol"`
	Events []crossover.Event      `json:"events"`
	Golden []crossover.HorizonStat `json:"golden"`
	Death  []crossover.HorizonStat `json:"death"`
}

// Crossover detects SMA crosses and measures forward returns
// POST /api/v1/crossover
func (h *AnalysisHandler) Crossover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CrossoverRequest
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
	if req.FastPeriod <= 0 {
		req.FastPeriod = crossover.DefaultFastPeriod
	}
	if req.SlowPeriod <= 0 {
		req.SlowPeriod = crossover.DefaultSlowPeriod
	}
	if req.FastPeriod >= req.SlowPeriod {
		respondError(w, http.StatusBadRequest, "fast_period must be less than slow_period")
		return
	}

	hist, err := h.history.History(ctx, req.Symbol, req.Days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load history")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	events := crossover.Detect(hist, req.FastPeriod, req.SlowPeriod)
	values := hist.Prices()

	respondJSON(w, http.StatusOK, CrossoverResponse{
		Symbol: req.Symbol,
		Events: events,
		Golden: crossover.ForwardReturns(crossover.Filter(events, crossover.Golden), values, req.Horizons),
		Death:  crossover.ForwardReturns(crossover.Filter(events, crossover.Death), values, req.Horizons),
	})
}

// IndicatorSnapshot is the latest value of each standard indicator
type IndicatorSnapshot struct {
	Symbol         string  `json:"symbol"`
	Days           int     `json:"days"`
	Price          float64 `json:"price"`
	RSI            float64 `json:"rsi"`
	SMA20          float64 `json:"sma_20"`
	SMA50          float64 `json:"sma_50"`
	SMA200         float64 `json:"sma_200"`
	MACDHistogram  float64 `json:"macd_histogram"`
	BollingerWidth float64 `json:"bollinger_width"`
	RealizedVol    float64 `json:"realized_vol"`
}

// Indicators returns the latest indicator snapshot for one symbol
// GET /api/v1/indicators/{symbol}?days=365
func (h *AnalysisHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	days := defaultBacktestDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = n
	}

	hist, err := h.history.History(ctx, symbol, days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load history")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}
	if len(hist) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "No price history available")
		return
	}

	prices := hist.Prices()
	last := len(prices) - 1

	respondJSON(w, http.StatusOK, IndicatorSnapshot{
		Symbol:         symbol,
		Days:           len(prices),
		Price:          prices[last],
		RSI:            indicator.RSI(prices, indicator.DefaultRSIPeriod)[last],
		SMA20:          orZero(indicator.SMA(prices, 20)[last]),
		SMA50:          orZero(indicator.SMA(prices, 50)[last]),
		SMA200:         orZero(indicator.SMA(prices, 200)[last]),
		MACDHistogram:  indicator.MACDHistogram(prices, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)[last],
		BollingerWidth: indicator.BollingerWidth(prices, indicator.DefaultBollingerPeriod)[last],
		RealizedVol:    indicator.RealizedVol(prices, indicator.DefaultVolPeriod)[last],
	})
}

// orZero maps the SMA's NaN warmup padding to 0 — JSON에 NaN 불가
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
