package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/quantcore/internal/crossover"
)

// crossoverCmd represents the crossover command
var crossoverCmd = &cobra.Command{
	Use:   "crossover [symbol]",
	Short: "SMA 크로스오버 분석",
	Long: `빠른/느린 SMA 교차 시점을 찾고 교차 이후의
포워드 수익률 통계를 계산합니다.

Example:
  go run ./cmd/quant crossover BTC
  go run ./cmd/quant crossover ETH --fast 20 --slow 100 --days 730`,
	Args: cobra.ExactArgs(1),
	RunE: runCrossover,
}

var (
	crossFast int
	crossSlow int
	crossDays int
)

func init() {
	rootCmd.AddCommand(crossoverCmd)

	crossoverCmd.Flags().IntVar(&crossFast, "fast", crossover.DefaultFastPeriod, "단기 SMA 기간")
	crossoverCmd.Flags().IntVar(&crossSlow, "slow", crossover.DefaultSlowPeriod, "장기 SMA 기간")
	crossoverCmd.Flags().IntVar(&crossDays, "days", 730, "분석 기간 (일)")
}

func runCrossover(cmd *cobra.Command, args []string) error {
	fmt.Println("=== quantcore SMA Crossover ===")

	if crossFast >= crossSlow {
		return fmt.Errorf("fast period (%d) must be below slow period (%d)", crossFast, crossSlow)
	}

	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	symbol := args[0]

	hist, err := svc.history.History(cmd.Context(), symbol, crossDays)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	events := crossover.Detect(hist, crossFast, crossSlow)
	values := hist.Prices()

	fmt.Printf("\n📊 %s | SMA %d/%d | %d days | %d crossings\n",
		symbol, crossFast, crossSlow, crossDays, len(events))

	for _, typ := range []crossover.Type{crossover.Golden, crossover.Death} {
		filtered := crossover.Filter(events, typ)
		stats := crossover.ForwardReturns(filtered, values, crossover.DefaultHorizons)

		fmt.Printf("\n%s crossings: %d\n", typ, len(filtered))
		for _, s := range stats {
			if s.Count == 0 {
				continue
			}
			fmt.Printf("  +%3dd : mean %+6.2f%% | median %+6.2f%% | hit %5.1f%% (n=%d)\n",
				s.Horizon, s.Mean, s.Median, s.HitRate, s.Count)
		}
	}

	return nil
}
