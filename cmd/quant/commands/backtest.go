package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/quantcore/internal/perf"
	"github.com/wonny/quantcore/internal/simulate"
	"github.com/wonny/quantcore/internal/strategyconfig"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "시뮬레이션 실행",
	Long: `과거 일별 데이터로 전략을 시뮬레이션합니다.

Subcommands:
  breakout   - 변동성 돌파 전략 (전일 레인지 x K 돌파 시 진입)
  portfolio  - 목표비중 리밸런싱 전략

Example:
  go run ./cmd/quant backtest breakout --symbol BTC --k 0.5
  go run ./cmd/quant backtest portfolio --preset "60/40 BTC/ETH"
  go run ./cmd/quant backtest portfolio --weights BTC=50,ETH=30,STBL=20 --cadence quarterly`,
}

var (
	breakoutRunCmd = &cobra.Command{
		Use:   "breakout",
		Short: "변동성 돌파 시뮬레이션",
		RunE:  runBreakout,
	}

	portfolioRunCmd = &cobra.Command{
		Use:   "portfolio",
		Short: "목표비중 리밸런싱 시뮬레이션",
		RunE:  runPortfolio,
	}

	// Flags
	btSymbol  string
	btDays    int
	btCapital float64
	btK       float64
	btRatio   float64
	btPreset  string
	btWeights string
	btCadence string
	btStrat   string
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(breakoutRunCmd)
	backtestCmd.AddCommand(portfolioRunCmd)

	breakoutRunCmd.Flags().StringVar(&btSymbol, "symbol", "BTC", "대상 심볼")
	breakoutRunCmd.Flags().IntVar(&btDays, "days", 365, "시뮬레이션 기간 (일)")
	breakoutRunCmd.Flags().Float64Var(&btCapital, "capital", 10000, "초기 자본 (USD)")
	breakoutRunCmd.Flags().Float64Var(&btK, "k", 0, "돌파 계수 K (기본: 설정값)")
	breakoutRunCmd.Flags().Float64Var(&btRatio, "invest-ratio", 0, "투입 비율 (기본: 설정값)")

	portfolioRunCmd.Flags().StringVar(&btPreset, "preset", "", "전략 프리셋 이름")
	portfolioRunCmd.Flags().StringVar(&btWeights, "weights", "", "인라인 비중 (예: BTC=50,ETH=30)")
	portfolioRunCmd.Flags().StringVar(&btCadence, "cadence", "quarterly", "리밸런싱 주기 (none|monthly|quarterly|annually)")
	portfolioRunCmd.Flags().StringVar(&btStrat, "strategies", "", "전략 프리셋 YAML 파일")
	portfolioRunCmd.Flags().IntVar(&btDays, "days", 365, "시뮬레이션 기간 (일)")
	portfolioRunCmd.Flags().Float64Var(&btCapital, "capital", 10000, "초기 자본 (USD)")
}

func runBreakout(cmd *cobra.Command, args []string) error {
	fmt.Println("=== quantcore Breakout Simulation ===")

	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	k := btK
	if k == 0 {
		k = svc.cfg.Analytics.BreakoutK
	}
	ratio := btRatio
	if ratio == 0 {
		ratio = svc.cfg.Analytics.BreakoutInvestRatio
	}

	fmt.Printf("\n📊 Symbol: %s | Days: %d | K: %.2f | Invest: %.0f%%\n",
		btSymbol, btDays, k, ratio*100)

	bars, err := svc.history.Bars(cmd.Context(), btSymbol, btDays)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	engine := simulate.NewEngine(svc.log)
	result, err := engine.RunBreakout(bars, simulate.BreakoutConfig{
		K:              k,
		InvestRatio:    ratio,
		InitialCapital: btCapital,
	})
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	report := perf.Analyze(result.Equity, result.Trades, perf.Options{
		RiskFreeRate: svc.cfg.Analytics.RiskFreeRate,
	})

	fmt.Printf("\n💰 Final Capital: $%.2f (from $%.2f)\n", result.FinalCapital, result.InitialCapital)
	fmt.Printf("🔄 Trades: %d\n", len(result.Trades))
	printReport(report)
	return nil
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	fmt.Println("=== quantcore Portfolio Simulation ===")

	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	strategy, err := resolveStrategy()
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(strategy.Weights))
	for sym := range strategy.Weights {
		symbols = append(symbols, sym)
	}

	fmt.Printf("\n📊 Strategy: %s | Symbols: %s | Days: %d\n",
		strategy.Name, strings.Join(symbols, ","), btDays)

	set, err := svc.history.HistorySet(cmd.Context(), symbols, btDays)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	engine := simulate.NewEngine(svc.log)
	result, err := engine.RunPortfolio(set, strategy, btCapital)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	report := perf.Analyze(result.Daily, nil, perf.Options{
		RiskFreeRate: svc.cfg.Analytics.RiskFreeRate,
	})

	fmt.Printf("\n💰 Final Value: $%.2f (from $%.2f)\n", result.FinalValue, result.InitialCapital)
	fmt.Printf("🔄 Rebalances: %d\n", result.RebalanceCount)
	printReport(report)
	return nil
}

// resolveStrategy picks the preset or builds one from inline weights
func resolveStrategy() (simulate.Strategy, error) {
	if btPreset != "" {
		presets := strategyconfig.Default()
		if btStrat != "" {
			var err error
			presets, err = loadPresetFile(btStrat)
			if err != nil {
				return simulate.Strategy{}, err
			}
		}
		p := presets.Find(btPreset)
		if p == nil {
			return simulate.Strategy{}, fmt.Errorf("unknown preset %q (available: %s)", btPreset, presetNames(presets))
		}
		return p.Strategy(), nil
	}

	if btWeights == "" {
		return simulate.Strategy{}, fmt.Errorf("either --preset or --weights is required")
	}

	weights := map[string]float64{}
	for _, pair := range strings.Split(btWeights, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return simulate.Strategy{}, fmt.Errorf("invalid weight %q (expected SYMBOL=PCT)", pair)
		}
		var pct float64
		if _, err := fmt.Sscanf(parts[1], "%f", &pct); err != nil {
			return simulate.Strategy{}, fmt.Errorf("invalid weight %q: %w", pair, err)
		}
		weights[strings.ToUpper(parts[0])] = pct
	}

	return simulate.Strategy{
		Name:    "custom",
		Weights: weights,
		Cadence: simulate.Cadence(btCadence),
	}, nil
}
