package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"traderscope/config"
	"traderscope/engine"
	"traderscope/feed"
	"traderscope/ledger"
	"traderscope/levels"
	"traderscope/scan"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the price feed and trade continuously",
	Long: `Run the engine: poll the quote endpoint for every configured symbol on
the scan interval, classify, derive levels, and open/close simulated
trades in the ledger. Stops cleanly on SIGINT/SIGTERM.

Example:
  traderscope run --config traderscope.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setLogLevel(cfg.Log.Level)

	led, err := ledger.NewSQLite(cfg.Ledger.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	timeout, err := cfg.Feed.ParseTimeout()
	if err != nil {
		return fmt.Errorf("feed timeout: %w", err)
	}
	quotes := feed.NewQuoteClient(cfg.Feed.URL, feed.QuoteClientConfig{
		Timeout: timeout,
		RPS:     cfg.Feed.RPS,
		Burst:   cfg.Feed.Burst,
	})

	rule := &engine.ZoneRule{
		LongZones:  cfg.Rule.LongZones,
		ShortZones: cfg.Rule.ShortZones,
	}
	vol := engine.NewVolatilityTracker(cfg.Engine.VolatilityWindow)
	eng := engine.New(quotes, led, rule, vol, levels.Timeframe(cfg.Engine.Timeframe))

	interval, err := cfg.Scan.ParseInterval()
	if err != nil {
		return fmt.Errorf("scan interval: %w", err)
	}
	sched := scan.NewScheduler(eng, cfg.Symbols, cfg.Scan.Workers, interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("db", cfg.Ledger.DBPath).
		Str("feed", cfg.Feed.URL).
		Msg("traderscope starting")

	sched.RunForever(ctx)
	return nil
}
