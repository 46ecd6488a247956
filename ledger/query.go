package ledger

import (
	"database/sql"
	"fmt"
	"time"
)

const tradeColumns = `id, symbol, entry_price, entry_time, stop_price, target_price, status, exit_price, exit_time, pnl`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (Trade, error) {
	var t Trade
	var status string
	var exitPrice sql.NullFloat64
	var exitTime sql.NullTime
	var pnl sql.NullFloat64

	err := row.Scan(
		&t.ID,
		&t.Symbol,
		&t.EntryPrice,
		&t.EntryTime,
		&t.StopPrice,
		&t.TargetPrice,
		&status,
		&exitPrice,
		&exitTime,
		&pnl,
	)
	if err != nil {
		return Trade{}, err
	}

	t.Status = Status(status)
	if exitPrice.Valid {
		t.ExitPrice = &exitPrice.Float64
	}
	if exitTime.Valid {
		et := exitTime.Time
		t.ExitTime = &et
	}
	if pnl.Valid {
		t.PnL = &pnl.Float64
	}
	return t, nil
}

// List returns trades matching the filter, newest entry first.
func (l *SQLite) List(f Filter) ([]Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades`
	var args []any
	var where []string

	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY entry_time DESC"

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// Recent returns the n most recently entered trades across all symbols.
func (l *SQLite) Recent(n int) ([]Trade, error) {
	rows, err := l.db.Query(
		`SELECT `+tradeColumns+` FROM trades ORDER BY entry_time DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// Summary aggregates open/closed counts and realized PnL straight off
// the trades table.
func (l *SQLite) Summary() (Summary, error) {
	var s Summary

	row := l.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN status = 'OPEN' THEN 1 END),
			COUNT(CASE WHEN status = 'CLOSED' THEN 1 END),
			COALESCE(SUM(CASE WHEN status = 'CLOSED' THEN pnl END), 0)
		FROM trades`)
	if err := row.Scan(&s.OpenCount, &s.ClosedCount, &s.ClosedPnL); err != nil {
		return Summary{}, fmt.Errorf("trade summary: %w", err)
	}
	return s, nil
}

// ListClosedBetween returns trades whose exit_time is within [start, end),
// oldest first. Used by the day-report commands.
func (l *SQLite) ListClosedBetween(start, end time.Time) ([]Trade, error) {
	rows, err := l.db.Query(`
		SELECT `+tradeColumns+` FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list closed trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]Trade, error) {
	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
