package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quantcore/internal/api"
	"github.com/wonny/quantcore/internal/api/handlers"
	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/internal/realtime/cache"
	"github.com/wonny/quantcore/internal/realtime/feed"
	"github.com/wonny/quantcore/internal/scheduler/jobs"
	"github.com/wonny/quantcore/internal/simulate"
	"github.com/wonny/quantcore/internal/strategyconfig"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 시뮬레이션/프런티어/리스크 엔드포인트 제공
- (옵션) Binance WebSocket 실시간 시세 구독

Endpoints:
  GET  /health                      - Health check
  POST /api/v1/backtest/breakout    - 변동성 돌파 시뮬레이션
  POST /api/v1/backtest/portfolio   - 목표비중 리밸런싱 시뮬레이션
  POST /api/v1/frontier             - Monte Carlo 효율적 투자선
  GET  /api/v1/risk/composite       - 온체인 종합 리스크
  GET  /api/v1/risk/{symbol}        - 시장 리스크 게이지
  POST /api/v1/crossover            - SMA 크로스오버 분석
  GET  /api/v1/indicators/{symbol}  - 지표 스냅샷

Example:
  go run ./cmd/quant serve
  go run ./cmd/quant serve --port 8090`,
	RunE: runServe,
}

var (
	servePort   string
	serveStrat  string
	realtimeTTL = 60 * time.Second
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (기본: PORT env)")
	serveCmd.Flags().StringVar(&serveStrat, "strategies", "", "전략 프리셋 YAML 파일 (기본: 내장 프리셋)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== quantcore API Server ===")

	// 1. Shared services
	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if servePort != "" {
		svc.cfg.Port = servePort
	}

	svc.log.WithFields(map[string]interface{}{
		"port": svc.cfg.Port,
		"env":  svc.cfg.Env,
	}).Info("Initializing API server")

	// 2. Strategy presets
	presets := strategyconfig.Default()
	if serveStrat != "" {
		presets, err = loadPresetFile(serveStrat)
		if err != nil {
			return err
		}
	}

	// 3. Simulation engine
	engine := simulate.NewEngine(svc.log)

	// 4. Handlers
	var statRepo *marketdata.StatRepository
	if svc.db != nil {
		statRepo = marketdata.NewStatRepository(svc.db.Pool)
	}
	backtestH := handlers.NewBacktestHandler(svc.history, engine, presets, svc.cfg, svc.log)
	frontierH := handlers.NewFrontierHandler(svc.history, statRepo, svc.cfg, svc.log)
	riskH := handlers.NewRiskHandler(svc.history, svc.log)
	analysisH := handlers.NewAnalysisHandler(svc.history, svc.log)

	// 5. Router and server
	router := api.NewRouter(backtestH, frontierH, riskH, analysisH, svc.log)
	server := api.New(svc.cfg, svc.log, router)

	// 6. Optional realtime feed
	var ws *feed.BinanceWSClient
	if svc.cfg.Binance.Enabled {
		priceCache := cache.NewPriceCache(realtimeTTL, svc.log)
		ws = feed.NewBinanceWSClient(svc.cfg, svc.log, priceCache, jobs.TrackedSymbols)
		if err := ws.Start(cmd.Context()); err != nil {
			svc.log.WithError(err).Warn("Binance feed failed to start, continuing without realtime prices")
			ws = nil
		}
	}

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			svc.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", svc.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	svc.log.Info("Shutting down server...")

	if ws != nil {
		ws.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	svc.log.Info("Server stopped")
	return nil
}
