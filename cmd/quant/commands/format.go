package commands

import (
	"fmt"

	"github.com/wonny/quantcore/internal/perf"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// printReport prints a performance report in a fixed layout
func printReport(r *perf.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Performance Report")
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Period       : %s ~ %s (%d days)\n", r.StartDate, r.EndDate, r.Days)
	fmt.Printf("  Total Return : %+.2f%%\n", r.TotalReturn)
	fmt.Printf("  CAGR         : %+.2f%%\n", r.CAGR)
	fmt.Printf("  Volatility   : %.2f%%\n", r.Volatility)
	fmt.Printf("  Max Drawdown : %.2f%%\n", r.MaxDrawdown)
	fmt.Printf("  Sharpe       : %.2f\n", r.Sharpe)
	fmt.Printf("  Sortino      : %.2f\n", r.Sortino)
	fmt.Printf("  Calmar       : %.2f\n", r.Calmar)

	if r.TotalTrades > 0 {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Printf("  Trades       : %d\n", r.TotalTrades)
		fmt.Printf("  Win Rate     : %.1f%%\n", r.WinRate)
		fmt.Printf("  Avg Win/Loss : %+.2f%% / %+.2f%%\n", r.AvgWinPct, r.AvgLossPct)
		fmt.Printf("  ProfitFactor : %.2f\n", r.ProfitFactor)
	}

	if len(r.YearlyReturns) > 0 {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Println("  Yearly Returns:")
		for _, year := range r.SortedYears() {
			fmt.Printf("    %d : %+.2f%%\n", year, r.YearlyReturns[year])
		}
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// printWeights prints a weight vector aligned with its symbol list
func printWeights(symbols []string, weights []float64) {
	for i, sym := range symbols {
		if i < len(weights) {
			fmt.Printf("    %-6s : %5.1f%%\n", sym, weights[i]*100)
		}
	}
}
