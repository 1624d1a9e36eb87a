package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/internal/riskscore"
	"github.com/wonny/quantcore/pkg/logger"
)

// riskHistoryDays: 시장 리스크 게이지는 1년 구간 기준
const riskHistoryDays = 365

// RiskHandler handles risk gauge endpoints
type RiskHandler struct {
	history *marketdata.Service
	logger  *logger.Logger

	mu       sync.RWMutex
	snapshot *riskscore.Snapshot
}

// NewRiskHandler creates a new risk handler with the default
// indicator snapshot
func NewRiskHandler(history *marketdata.Service, log *logger.Logger) *RiskHandler {
	return &RiskHandler{
		history:  history,
		logger:   log,
		snapshot: riskscore.DefaultSnapshot(),
	}
}

// Snapshot exposes the live metric snapshot for scheduler refreshes
func (h *RiskHandler) Snapshot(fn func(*riskscore.Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.snapshot)
}

// MarketRiskResponse wraps the per-symbol gauge
type MarketRiskResponse struct {
	Symbol string               `json:"symbol"`
	Days   int                  `json:"days"`
	Gauge  riskscore.MarketRisk `json:"gauge"`
}

// Market returns the price-action risk gauge for one symbol
// GET /api/v1/risk/{symbol}
func (h *RiskHandler) Market(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	hist, err := h.history.History(ctx, symbol, riskHistoryDays)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load history")
		respondError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	respondJSON(w, http.StatusOK, MarketRiskResponse{
		Symbol: symbol,
		Days:   len(hist),
		Gauge:  riskscore.CalculateMarketRisk(hist.Prices()),
	})
}

// CompositeResponse is the weighted on-chain composite
type CompositeResponse struct {
	Composite float64            `json:"composite"`
	RiskLevel string             `json:"risk_level"`
	Metrics   []riskscore.Metric `json:"metrics"`
}

// Composite returns the weighted composite of all on-chain metrics
// GET /api/v1/risk/composite
func (h *RiskHandler) Composite(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	composite := h.snapshot.Composite()
	respondJSON(w, http.StatusOK, CompositeResponse{
		Composite: composite,
		RiskLevel: riskscore.RiskLevel(composite),
		Metrics:   h.snapshot.Metrics,
	})
}

// MetricUpdateRequest adjusts one metric: a manual raw value and/or a
// new weight. Omitted fields stay unchanged.
type MetricUpdateRequest struct {
	Name     string   `json:"name"`
	RawValue *float64 `json:"raw_value,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
}

// UpdateMetric applies a manual override to one composite metric
// PATCH /api/v1/risk/composite
func (h *RiskHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	var req MetricUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Metric name is required")
		return
	}
	if req.RawValue == nil && req.Weight == nil {
		respondError(w, http.StatusBadRequest, "Either raw_value or weight is required")
		return
	}

	var updateErr error
	h.Snapshot(func(s *riskscore.Snapshot) {
		if req.RawValue != nil {
			updateErr = s.SetManual(req.Name, *req.RawValue)
		}
		if updateErr == nil && req.Weight != nil {
			updateErr = s.SetWeight(req.Name, *req.Weight)
		}
	})
	if updateErr != nil {
		respondError(w, http.StatusNotFound, updateErr.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	composite := h.snapshot.Composite()
	respondJSON(w, http.StatusOK, CompositeResponse{
		Composite: composite,
		RiskLevel: riskscore.RiskLevel(composite),
		Metrics:   h.snapshot.Metrics,
	})
}
