package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "quantcore - 암호화폐 퀀트 분석 엔진",
	Long: `quantcore Unified CLI

시계열 정렬, 지표 계산, 시뮬레이션, 리스크 스코어링을
하나의 분석 코어로 제공합니다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant serve
  go run ./cmd/quant backtest breakout --symbol BTC
  go run ./cmd/quant frontier --symbols BTC,ETH,SOL
  go run ./cmd/quant risk BTC`,
	PersistentPreRun: applyGlobalFlags,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default: .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json|console)")
}

// applyGlobalFlags exports flag values so config.Load picks them up
// (config is the single place that reads the environment)
func applyGlobalFlags(cmd *cobra.Command, args []string) {
	if envFile != "" {
		os.Setenv("ENV_FILE", envFile)
	}
	if logLevel != "" {
		os.Setenv("LOG_LEVEL", logLevel)
	}
	if logFormat != "" {
		os.Setenv("LOG_FORMAT", logFormat)
	}
}
