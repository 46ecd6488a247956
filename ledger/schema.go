package ledger

// The partial unique index on OPEN rows is what makes Open an atomic
// check-and-insert: a second open for the same symbol fails the index,
// not a read-then-write race.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	stop_price REAL NOT NULL,
	target_price REAL NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('OPEN','CLOSED')),
	exit_price REAL,
	exit_time DATETIME,
	pnl REAL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_one_open
	ON trades(symbol) WHERE status = 'OPEN';

CREATE INDEX IF NOT EXISTS idx_trades_symbol_status ON trades(symbol, status);
CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
`
