package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"traderscope/market"
	"traderscope/pkg/id"
)

// SQLite is the durable Ledger implementation. WAL mode plus a busy
// timeout lets the scan workers hit it concurrently through one handle.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (l *SQLite) Close() error {
	return l.db.Close()
}

// OpenTrade inserts a new OPEN trade. The partial unique index rejects a
// second open for the same symbol atomically.
func (l *SQLite) OpenTrade(symbol string, entry, stop, target float64, at time.Time) (Trade, error) {
	t := Trade{
		ID:          id.New(),
		Symbol:      symbol,
		EntryPrice:  entry,
		EntryTime:   at.UTC(),
		StopPrice:   stop,
		TargetPrice: target,
		Status:      StatusOpen,
	}

	_, err := l.db.Exec(`
		INSERT INTO trades (id, symbol, entry_price, entry_time, stop_price, target_price, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, t.EntryPrice, t.EntryTime, t.StopPrice, t.TargetPrice, string(t.Status),
	)
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
			return Trade{}, &DuplicateOpenTradeError{Symbol: symbol}
		}
		return Trade{}, fmt.Errorf("open trade for %q: %w", symbol, err)
	}
	return t, nil
}

// CloseTrade transitions a trade to CLOSED and records PnL = exit - entry
// rounded to two decimals. The read and update run in one write
// transaction so a racing close sees either OPEN or the final row, never
// a half-written state.
func (l *SQLite) CloseTrade(tradeID string, exit float64, at time.Time) (Trade, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return Trade{}, fmt.Errorf("close trade %q: %w", tradeID, err)
	}
	defer tx.Rollback()

	var t Trade
	var status string
	row := tx.QueryRow(`
		SELECT id, symbol, entry_price, entry_time, stop_price, target_price, status
		FROM trades WHERE id = ?`, tradeID)
	if err := row.Scan(&t.ID, &t.Symbol, &t.EntryPrice, &t.EntryTime,
		&t.StopPrice, &t.TargetPrice, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, &TradeNotFoundError{ID: tradeID}
		}
		return Trade{}, fmt.Errorf("close trade %q: %w", tradeID, err)
	}
	if Status(status) == StatusClosed {
		return Trade{}, &AlreadyClosedError{ID: tradeID}
	}

	exitTime := at.UTC()
	pnl := market.Round2(exit - t.EntryPrice)

	if _, err := tx.Exec(`
		UPDATE trades SET status = ?, exit_price = ?, exit_time = ?, pnl = ?
		WHERE id = ? AND status = ?`,
		string(StatusClosed), exit, exitTime, pnl, tradeID, string(StatusOpen),
	); err != nil {
		return Trade{}, fmt.Errorf("close trade %q: %w", tradeID, err)
	}

	if err := tx.Commit(); err != nil {
		return Trade{}, fmt.Errorf("close trade %q: %w", tradeID, err)
	}

	t.Status = StatusClosed
	t.ExitPrice = &exit
	t.ExitTime = &exitTime
	t.PnL = &pnl
	return t, nil
}

// GetOpenTrade returns the symbol's OPEN trade, or nil when flat.
func (l *SQLite) GetOpenTrade(symbol string) (*Trade, error) {
	row := l.db.QueryRow(`
		SELECT id, symbol, entry_price, entry_time, stop_price, target_price, status, exit_price, exit_time, pnl
		FROM trades WHERE symbol = ? AND status = ?`, symbol, string(StatusOpen))

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade for %q: %w", symbol, err)
	}
	return &t, nil
}
