package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/quantcore/internal/api/handlers"
	"github.com/wonny/quantcore/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	backtest *handlers.BacktestHandler,
	frontierH *handlers.FrontierHandler,
	risk *handlers.RiskHandler,
	analysis *handlers.AnalysisHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Simulation endpoints
	api.HandleFunc("/backtest/breakout", backtest.Breakout).Methods("POST")
	api.HandleFunc("/backtest/portfolio", backtest.Portfolio).Methods("POST")

	// Monte Carlo efficient frontier
	api.HandleFunc("/frontier", frontierH.Sample).Methods("POST")

	// Risk endpoints
	api.HandleFunc("/risk/composite", risk.Composite).Methods("GET")
	api.HandleFunc("/risk/composite", risk.UpdateMetric).Methods("PATCH")
	api.HandleFunc("/risk/{symbol}", risk.Market).Methods("GET")

	// Analysis endpoints
	api.HandleFunc("/crossover", analysis.Crossover).Methods("POST")
	api.HandleFunc("/indicators/{symbol}", analysis.Indicators).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "quantcore-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
