package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"traderscope/config"
	"traderscope/engine"
	"traderscope/feed"
	"traderscope/ledger"
	"traderscope/levels"
	"traderscope/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single evaluation pass",
	Long: `Run one pass over the configured symbols and print per-symbol outcomes.

With --prices, skip the network feed and evaluate against fixed prices,
e.g. --prices BTCUSDT=64000,ETHUSDT=3100.

Example:
  traderscope scan --config traderscope.yaml
  traderscope scan --config traderscope.yaml --prices BTCUSDT=64000`,
	RunE: runScan,
}

var (
	scanConfigPath string
	scanPrices     string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	scanCmd.Flags().StringVar(&scanPrices, "prices", "", "static symbol=price pairs instead of the live feed")
	scanCmd.MarkFlagRequired("config")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(scanConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setLogLevel(cfg.Log.Level)

	led, err := ledger.NewSQLite(cfg.Ledger.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	var priceFeed feed.Feed
	if scanPrices != "" {
		fixed, err := parsePrices(scanPrices)
		if err != nil {
			return err
		}
		priceFeed = feed.NewStaticFeed(fixed)
	} else {
		timeout, err := cfg.Feed.ParseTimeout()
		if err != nil {
			return fmt.Errorf("feed timeout: %w", err)
		}
		priceFeed = feed.NewQuoteClient(cfg.Feed.URL, feed.QuoteClientConfig{
			Timeout: timeout,
			RPS:     cfg.Feed.RPS,
			Burst:   cfg.Feed.Burst,
		})
	}

	rule := &engine.ZoneRule{
		LongZones:  cfg.Rule.LongZones,
		ShortZones: cfg.Rule.ShortZones,
	}
	vol := engine.NewVolatilityTracker(cfg.Engine.VolatilityWindow)
	eng := engine.New(priceFeed, led, rule, vol, levels.Timeframe(cfg.Engine.Timeframe))

	sched := scan.NewScheduler(eng, cfg.Symbols, cfg.Scan.Workers, 0)
	outcomes := sched.RunOnce(cmd.Context(), cfg.Symbols)

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("%-12s ERROR  %v\n", o.Symbol, o.Err)
		} else {
			fmt.Printf("%-12s ok\n", o.Symbol)
		}
	}
	return nil
}

func parsePrices(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		sym, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid price pair %q (want SYMBOL=PRICE)", pair)
		}
		p, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %q: %w", sym, err)
		}
		out[sym] = p
	}
	return out, nil
}
