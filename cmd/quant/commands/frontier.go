package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/quantcore/internal/frontier"
)

// frontierCmd represents the frontier command
var frontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Monte Carlo 효율적 투자선",
	Long: `과거 수익률 통계로 무작위 포트폴리오를 샘플링하여
최대 샤프 / 최소 리스크 포트폴리오를 추출합니다.

Example:
  go run ./cmd/quant frontier --symbols BTC,ETH,SOL
  go run ./cmd/quant frontier --symbols BTC,ETH --samples 10000 --seed 42`,
	RunE: runFrontier,
}

var (
	frontierSymbols string
	frontierSamples int
	frontierSeed    int64
	frontierDays    int
)

func init() {
	rootCmd.AddCommand(frontierCmd)

	frontierCmd.Flags().StringVar(&frontierSymbols, "symbols", "BTC,ETH,SOL", "샘플링 대상 심볼 (쉼표 구분)")
	frontierCmd.Flags().IntVar(&frontierSamples, "samples", 0, "샘플 수 (기본: 설정값)")
	frontierCmd.Flags().Int64Var(&frontierSeed, "seed", 0, "난수 시드 (0: 시각 기반)")
	frontierCmd.Flags().IntVar(&frontierDays, "days", 365, "통계 산출 기간 (일)")
}

func runFrontier(cmd *cobra.Command, args []string) error {
	fmt.Println("=== quantcore Efficient Frontier ===")

	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	symbols := splitSymbols(frontierSymbols)
	if len(symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}

	samples := frontierSamples
	if samples <= 0 {
		samples = svc.cfg.Analytics.FrontierSamples
	}

	fmt.Printf("\n📊 Symbols: %s | Samples: %d | Days: %d\n",
		strings.Join(symbols, ","), samples, frontierDays)

	set, err := svc.history.HistorySet(cmd.Context(), symbols, frontierDays)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	assets, corr := frontier.StatsFromHistory(set, symbols)

	sampler := frontier.NewSampler(frontierSeed)
	result, err := sampler.Sample(assets, corr, frontier.Config{
		Samples:      samples,
		RiskFreeRate: svc.cfg.Analytics.RiskFreeRate,
	})
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}

	fmt.Println("\n🎯 Max Sharpe Portfolio:")
	fmt.Printf("    Return : %+.2f%% | Risk : %.2f%% | Sharpe : %.2f\n",
		result.MaxSharpe.Return, result.MaxSharpe.Risk, result.MaxSharpe.Sharpe)
	printWeights(result.Symbols, result.MaxSharpe.Weights)

	fmt.Println("\n🛡  Min Risk Portfolio:")
	fmt.Printf("    Return : %+.2f%% | Risk : %.2f%% | Sharpe : %.2f\n",
		result.MinRisk.Return, result.MinRisk.Risk, result.MinRisk.Sharpe)
	printWeights(result.Symbols, result.MinRisk.Weights)

	return nil
}

// splitSymbols normalizes a comma-separated symbol list
func splitSymbols(s string) []string {
	var out []string
	for _, sym := range strings.Split(s, ",") {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
