package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/quantcore/internal/riskscore"
)

// riskCmd represents the risk command
var riskCmd = &cobra.Command{
	Use:   "risk [symbol]",
	Short: "리스크 게이지 조회",
	Long: `시장 리스크 게이지와 온체인 종합 리스크를 계산합니다.

심볼을 주면 해당 자산의 가격 기반 게이지를,
주지 않으면 온체인 종합 스냅샷을 출력합니다.

Example:
  go run ./cmd/quant risk BTC
  go run ./cmd/quant risk`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRisk,
}

var riskDays int

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().IntVar(&riskDays, "days", 365, "게이지 산출 기간 (일)")
}

func runRisk(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runCompositeRisk()
	}
	return runMarketRisk(cmd, args[0])
}

func runMarketRisk(cmd *cobra.Command, symbol string) error {
	fmt.Println("=== quantcore Market Risk ===")

	svc, err := initServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	hist, err := svc.history.History(cmd.Context(), symbol, riskDays)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	gauge := riskscore.CalculateMarketRisk(hist.Prices())

	fmt.Printf("\n📊 %s (%d days)\n", symbol, riskDays)
	fmt.Printf("  Risk        : %.3f (%s)\n", gauge.Risk, gauge.Status)
	fmt.Printf("  Price       : %.3f\n", gauge.PriceRisk)
	fmt.Printf("  Momentum    : %.3f\n", gauge.MomentumRisk)
	fmt.Printf("  Volatility  : %.3f\n", gauge.VolatilityRisk)
	return nil
}

func runCompositeRisk() error {
	fmt.Println("=== quantcore Composite Risk ===")

	snapshot := riskscore.DefaultSnapshot()
	composite := snapshot.Composite()

	fmt.Printf("\n🧭 Composite: %.1f (%s)\n\n", composite, riskscore.RiskLevel(composite))
	for _, m := range snapshot.Metrics {
		fmt.Printf("  %-22s raw=%-10.4g score=%5.1f  %s\n", m.Name, m.RawValue, m.Score, m.Signal)
	}
	return nil
}
