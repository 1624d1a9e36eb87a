package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantcore/internal/api/handlers"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/internal/simulate"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/logger"
)

// testRouter wires the full route table over the synthetic-only
// history service — no database or cache needed
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Port: "0",
		Analytics: config.AnalyticsConfig{
			RiskFreeRate:        4.5,
			FrontierSamples:     200,
			BreakoutK:           0.5,
			BreakoutInvestRatio: 1.0,
		},
	}
	log := logger.Nop()
	history := marketdata.NewService(nil, nil, log)
	engine := simulate.NewEngine(log)

	return NewRouter(
		handlers.NewBacktestHandler(history, engine, nil, cfg, log),
		handlers.NewFrontierHandler(history, nil, cfg, log),
		handlers.NewRiskHandler(history, log),
		handlers.NewAnalysisHandler(history, log),
		log,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
}

func TestBreakoutEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/backtest/breakout",
		`{"symbol":"BTC","days":180}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, out, "result")
	require.Contains(t, out, "report")

	result := out["result"].(map[string]interface{})
	assert.Greater(t, result["final_capital"].(float64), 0.0)
}

func TestPortfolioEndpoint_Preset(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/backtest/portfolio",
		`{"preset":"60/40 BTC/ETH","days":365}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := out["result"].(map[string]interface{})
	assert.Greater(t, result["final_value"].(float64), 0.0)
	// monthly cadence over a year must rebalance
	assert.Greater(t, result["rebalance_count"].(float64), 0.0)
}

func TestPortfolioEndpoint_UnknownPreset(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/backtest/portfolio",
		`{"preset":"no such preset"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioEndpoint_InlineStrategy(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/backtest/portfolio",
		`{"strategy":{"name":"custom","weights":{"BTC":50,"ETH":50},"cadence":"quarterly"},"days":365}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPortfolioEndpoint_RequiresStrategy(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/backtest/portfolio", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFrontierEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/frontier",
		`{"symbols":["BTC","ETH","SOL"],"days":365,"samples":200}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 200, out["samples"])
	require.Contains(t, out, "max_sharpe")
	require.Contains(t, out, "min_risk")
}

func TestFrontierEndpoint_NoSymbols(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/frontier", `{"symbols":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/risk/BTC", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BTC", out["symbol"])

	gauge := out["gauge"].(map[string]interface{})
	risk := gauge["risk"].(float64)
	assert.GreaterOrEqual(t, risk, 0.0)
	assert.LessOrEqual(t, risk, 1.0)
	assert.NotEmpty(t, gauge["status"])
}

func TestCompositeEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/risk/composite", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, out["risk_level"])
	metrics := out["metrics"].([]interface{})
	assert.Len(t, metrics, 9)
}

func TestCompositeEndpoint_UpdateMetric(t *testing.T) {
	router := testRouter(t)

	// Zero out every weight except MVRV-Z, then pin its raw value deep
	// in the lowest band: the composite must collapse to that score
	rec, out := doJSON(t, router, http.MethodPatch, "/api/v1/risk/composite",
		`{"name":"MVRV Z-Score","raw_value":-0.5,"weight":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, out["risk_level"])

	// Reads reflect the override
	_, after := doJSON(t, router, http.MethodGet, "/api/v1/risk/composite", "")
	found := false
	for _, m := range after["metrics"].([]interface{}) {
		metric := m.(map[string]interface{})
		if metric["name"] == "MVRV Z-Score" {
			found = true
			assert.Equal(t, -0.5, metric["raw_value"])
			assert.Equal(t, "manual", metric["source"])
		}
	}
	assert.True(t, found)
}

func TestCompositeEndpoint_UpdateUnknownMetric(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPatch, "/api/v1/risk/composite",
		`{"name":"nope","weight":10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCrossoverEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/crossover",
		`{"symbol":"BTC","days":365,"fast_period":10,"slow_period":30}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, out, "golden")
	require.Contains(t, out, "death")
}

func TestCrossoverEndpoint_BadPeriods(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/crossover",
		`{"symbol":"BTC","fast_period":200,"slow_period":50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndicatorsEndpoint(t *testing.T) {
	rec, out := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/indicators/BTC?days=365", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BTC", out["symbol"])
	assert.Greater(t, out["price"].(float64), 0.0)

	rsi := out["rsi"].(float64)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
	assert.Greater(t, out["sma_200"].(float64), 0.0)
}

func TestIndicatorsEndpoint_BadDays(t *testing.T) {
	rec, _ := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/indicators/BTC?days=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
