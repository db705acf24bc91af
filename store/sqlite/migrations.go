package sqlite

// migrations holds the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time); they are safe to re-run.
var migrations = []string{
	// Single-row table for the user's billing profile.
	`CREATE TABLE IF NOT EXISTS user_settings (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		name        TEXT NOT NULL DEFAULT '',
		address     TEXT NOT NULL DEFAULT '',
		hourly_rate REAL NOT NULL DEFAULT 0
	)`,

	// Entries not yet attached to an invoice. pos preserves logging
	// order across deletes.
	`CREATE TABLE IF NOT EXISTS unbilled_entries (
		pos         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		entry_date  TEXT NOT NULL,
		description TEXT NOT NULL,
		hours       REAL NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	// Invoices are frozen snapshots; items is the JSON-encoded line
	// item array in its wire shape.
	`CREATE TABLE IF NOT EXISTS invoices (
		id             TEXT PRIMARY KEY,
		number         TEXT NOT NULL,
		invoice_date   TEXT NOT NULL,
		client_name    TEXT NOT NULL DEFAULT '',
		client_address TEXT NOT NULL DEFAULT '',
		items          TEXT NOT NULL DEFAULT '[]',
		total_hours    REAL NOT NULL DEFAULT 0,
		total_amount   REAL NOT NULL DEFAULT 0,
		is_paid        INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices (invoice_date)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_paid ON invoices (is_paid)`,
}
