// Package sqlite provides a Store backed by a SQLite database file. The
// driver is pure Go (modernc.org/sqlite), so the store builds without
// cgo. Billing is applied inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/settings"
	"github.com/solobill/timebill/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on database/sql with the modernc sqlite
// driver.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Call Migrate before use;
// Ledger.Start does this for you.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// The driver serializes access per connection; a single connection
	// avoids SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: setting journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: setting busy timeout: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite store: migration failed: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Settings ====================

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (id, name, address, hourly_rate)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			hourly_rate = excluded.hourly_rate
	`, st.Name, st.Address, st.HourlyRate)
	return err
}

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	st := new(settings.Settings)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, address, hourly_rate FROM user_settings WHERE id = 1
	`).Scan(&st.Name, &st.Address, &st.HourlyRate)
	if err != nil {
		if isNoRows(err) {
			return &settings.Settings{}, nil
		}
		return nil, err
	}
	return st, nil
}

// ==================== Unbilled Entries ====================

func (s *Store) AppendUnbilled(ctx context.Context, e *entry.TimeEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unbilled_entries (id, entry_date, description, hours, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID.String(), encodeTime(e.Date), e.Description, e.Hours, encodeTime(e.CreatedAt))
	return err
}

func (s *Store) ListUnbilled(ctx context.Context) ([]*entry.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_date, description, hours, created_at
		FROM unbilled_entries ORDER BY pos ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entry.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// ==================== Billing ====================

// ApplyBilling removes the invoice's entries from unbilled_entries and
// inserts the invoice, all in one transaction. Any entry missing from
// the unbilled set aborts the whole operation.
func (s *Store) ApplyBilling(ctx context.Context, inv *invoice.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", timebill.ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	for i := range inv.Items {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM unbilled_entries WHERE id = ?`, inv.Items[i].ID.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return timebill.ErrEntryNotFound
		}
	}

	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("sqlite store: encoding items: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices
			(id, number, invoice_date, client_name, client_address,
			 items, total_hours, total_amount, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID.String(), inv.Number, encodeTime(inv.Date), inv.ClientName,
		inv.ClientAddress, string(items), inv.TotalHours, inv.TotalAmount,
		boolToInt(inv.IsPaid), encodeTime(inv.CreatedAt))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", timebill.ErrTransactionFailed, err)
	}
	return nil
}

// ==================== Invoices ====================

func (s *Store) GetInvoice(ctx context.Context, invID id.ID) (*invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, invoice_date, client_name, client_address,
		       items, total_hours, total_amount, is_paid, created_at
		FROM invoices WHERE id = ?
	`, invID.String())
	inv, err := scanInvoice(row)
	if err != nil {
		if isNoRows(err) {
			return nil, timebill.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	q := `
		SELECT id, number, invoice_date, client_name, client_address,
		       items, total_hours, total_amount, is_paid, created_at
		FROM invoices WHERE 1 = 1
	`
	var args []any
	if !opts.Since.IsZero() {
		q += ` AND invoice_date >= ?`
		args = append(args, encodeTime(opts.Since))
	}
	if opts.Paid != nil {
		q += ` AND is_paid = ?`
		args = append(args, boolToInt(*opts.Paid))
	}
	q += ` ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

func (s *Store) SetInvoicePaid(ctx context.Context, invID id.ID, paid bool) (*invoice.Invoice, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET is_paid = ? WHERE id = ?`,
		boolToInt(paid), invID.String())
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, timebill.ErrInvoiceNotFound
	}
	return s.GetInvoice(ctx, invID)
}

// ==================== Helpers ====================

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*entry.TimeEntry, error) {
	var (
		e                    entry.TimeEntry
		rawID, date, created string
	)
	if err := sc.Scan(&rawID, &date, &e.Description, &e.Hours, &created); err != nil {
		return nil, err
	}
	var err error
	if e.ID, err = id.ParseTimeEntryID(rawID); err != nil {
		return nil, fmt.Errorf("%w: entry id %q: %v", timebill.ErrCorruptData, rawID, err)
	}
	if e.Date, err = decodeTime(date); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanInvoice(sc scanner) (*invoice.Invoice, error) {
	var (
		inv                  invoice.Invoice
		rawID, date, created string
		items                string
		paid                 int
	)
	err := sc.Scan(&rawID, &inv.Number, &date, &inv.ClientName, &inv.ClientAddress,
		&items, &inv.TotalHours, &inv.TotalAmount, &paid, &created)
	if err != nil {
		return nil, err
	}
	if inv.ID, err = id.ParseInvoiceID(rawID); err != nil {
		return nil, fmt.Errorf("%w: invoice id %q: %v", timebill.ErrCorruptData, rawID, err)
	}
	if inv.Date, err = decodeTime(date); err != nil {
		return nil, err
	}
	if inv.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return nil, fmt.Errorf("%w: invoice %s items: %v", timebill.ErrCorruptData, inv.Number, err)
	}
	inv.IsPaid = paid != 0
	return &inv, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", timebill.ErrCorruptData, s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
