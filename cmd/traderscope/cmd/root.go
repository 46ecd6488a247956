package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "traderscope",
	Short: "Multi-scale fractal zone analysis and paper-trading engine",
	Long: `Traderscope ingests streaming instrument prices, classifies each price's
position within a multi-scale fractal zone model, derives the B5 level
ladder, and drives a paper-trading state machine that opens and closes
simulated positions with stop-loss/take-profit and persists outcomes.

Commands:
  run     - poll the price feed and trade continuously
  scan    - run a single evaluation pass
  trades  - query the trade ledger
  config  - print a default configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
