// Package ledger is the durable store of simulated trades. It is the
// single source of truth for open/closed state; the engine re-reads it
// every tick and never caches positions across ticks.
package ledger

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Trade is one simulated position. ExitPrice, ExitTime and PnL are set
// exactly when Status is CLOSED. Records are appended and updated, never
// deleted.
type Trade struct {
	ID          string
	Symbol      string
	EntryPrice  float64
	EntryTime   time.Time
	StopPrice   float64
	TargetPrice float64
	Status      Status
	ExitPrice   *float64
	ExitTime    *time.Time
	PnL         *float64
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Symbol string
	Status Status
}

// Summary are the reporting aggregates answerable directly from the
// trades table.
type Summary struct {
	OpenCount   int
	ClosedCount int
	ClosedPnL   float64
}

// Ledger is the contract the execution engine depends on. The store owns
// its concurrency discipline: Open is atomic with respect to the
// one-open-trade-per-symbol invariant, so callers need no external locks.
type Ledger interface {
	OpenTrade(symbol string, entry, stop, target float64, at time.Time) (Trade, error)
	CloseTrade(id string, exit float64, at time.Time) (Trade, error)
	GetOpenTrade(symbol string) (*Trade, error)
	List(f Filter) ([]Trade, error)
	Summary() (Summary, error)
	Recent(n int) ([]Trade, error)
}

// DuplicateOpenTradeError reports an Open while the symbol already has
// an OPEN trade.
type DuplicateOpenTradeError struct {
	Symbol string
}

func (e *DuplicateOpenTradeError) Error() string {
	return fmt.Sprintf("open trade already exists for %q", e.Symbol)
}

// TradeNotFoundError reports a Close for an unknown trade id.
type TradeNotFoundError struct {
	ID string
}

func (e *TradeNotFoundError) Error() string {
	return fmt.Sprintf("trade %q not found", e.ID)
}

// AlreadyClosedError reports a Close for a trade that is already CLOSED.
type AlreadyClosedError struct {
	ID string
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("trade %q is already closed", e.ID)
}
