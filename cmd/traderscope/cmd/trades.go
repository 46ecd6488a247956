package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"traderscope/ledger"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Query the trade ledger",
	Long: `Query and display trade records from the ledger database.

Subcommands:
  list     - list trades, optionally filtered by symbol and status
  summary  - open/closed counts and total realized PnL
  recent   - the N most recently entered trades
  today    - trades closed today
  day      - trades closed on a specific day

Examples:
  traderscope trades list --symbol BTCUSDT --status OPEN
  traderscope trades summary
  traderscope trades recent 10
  traderscope trades day 2026-08-15`,
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTradesList,
}

var tradesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Open/closed counts and total realized PnL",
	Args:  cobra.NoArgs,
	RunE:  runTradesSummary,
}

var tradesRecentCmd = &cobra.Command{
	Use:   "recent <n>",
	Short: "The N most recently entered trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesRecent,
}

var tradesTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runTradesToday,
}

var tradesDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesDay,
}

var (
	tradesDBPath string
	tradesSymbol string
	tradesStatus string
)

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesListCmd)
	tradesCmd.AddCommand(tradesSummaryCmd)
	tradesCmd.AddCommand(tradesRecentCmd)
	tradesCmd.AddCommand(tradesTodayCmd)
	tradesCmd.AddCommand(tradesDayCmd)

	tradesCmd.PersistentFlags().StringVarP(&tradesDBPath, "db", "d", "./traderscope.sqlite", "path to ledger DB")
	tradesListCmd.Flags().StringVar(&tradesSymbol, "symbol", "", "filter by symbol")
	tradesListCmd.Flags().StringVar(&tradesStatus, "status", "", "filter by status (OPEN or CLOSED)")
}

func openLedger() (*ledger.SQLite, error) {
	led, err := ledger.NewSQLite(tradesDBPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return led, nil
}

func runTradesList(cmd *cobra.Command, args []string) error {
	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	trades, err := led.List(ledger.Filter{
		Symbol: tradesSymbol,
		Status: ledger.Status(tradesStatus),
	})
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	printTrades(trades)
	return nil
}

func runTradesSummary(cmd *cobra.Command, args []string) error {
	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	s, err := led.Summary()
	if err != nil {
		return fmt.Errorf("trade summary: %w", err)
	}

	fmt.Printf("Open trades:    %d\n", s.OpenCount)
	fmt.Printf("Closed trades:  %d\n", s.ClosedCount)
	fmt.Printf("Realized PnL:   %.2f\n", s.ClosedPnL)
	return nil
}

func runTradesRecent(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid count %q", args[0])
	}

	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	trades, err := led.Recent(n)
	if err != nil {
		return fmt.Errorf("recent trades: %w", err)
	}

	printTrades(trades)
	return nil
}

func runTradesToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return listClosedOn(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runTradesDay(cmd *cobra.Command, args []string) error {
	return listClosedOn(args[0], time.Local)
}

func listClosedOn(day string, loc *time.Location) error {
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	trades, err := led.ListClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	printTrades(trades)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}

func printTrades(trades []ledger.Trade) {
	if len(trades) == 0 {
		fmt.Println("no trades")
		return
	}

	fmt.Printf("%-28s %-12s %-7s %10s %10s %10s %10s %8s\n",
		"ID", "SYMBOL", "STATUS", "ENTRY", "STOP", "TARGET", "EXIT", "PNL")
	for _, t := range trades {
		exit, pnl := "-", "-"
		if t.ExitPrice != nil {
			exit = fmt.Sprintf("%.2f", *t.ExitPrice)
		}
		if t.PnL != nil {
			pnl = fmt.Sprintf("%.2f", *t.PnL)
		}
		fmt.Printf("%-28s %-12s %-7s %10.2f %10.2f %10.2f %10s %8s\n",
			t.ID, t.Symbol, t.Status, t.EntryPrice, t.StopPrice, t.TargetPrice, exit, pnl)
	}
}
