package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

// migrateV1 creates the ten ledger tables. Money columns hold minor units;
// quantities are decimal text; dates are YYYY-MM-DD.
func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Master data
		`CREATE TABLE IF NOT EXISTS commodities (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			contact_details TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			contact_details TEXT NOT NULL DEFAULT '',
			default_terms   INTEGER,
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS financiers (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			funding_terms TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL
		)`,

		// Deals
		`CREATE TABLE IF NOT EXISTS deals (
			id                         TEXT PRIMARY KEY,
			date                       TEXT NOT NULL,
			status                     TEXT NOT NULL CHECK (status IN ('Open','Closed','Cancelled')),
			commodity_id               TEXT NOT NULL REFERENCES commodities(id),
			commodity_grade            TEXT NOT NULL DEFAULT '',
			supplier_id                TEXT NOT NULL REFERENCES suppliers(id),
			customer_id                TEXT NOT NULL REFERENCES customers(id),
			financier_id               TEXT REFERENCES financiers(id),
			quantity                   TEXT NOT NULL,
			supplier_price_per_ton     INTEGER NOT NULL,
			offtake_price_per_ton      INTEGER NOT NULL,
			cost_value                 INTEGER NOT NULL,
			expected_sales_value       INTEGER NOT NULL,
			expected_gross_margin      INTEGER NOT NULL,
			expected_margin_percentage TEXT NOT NULL,
			payment_terms_customer     INTEGER,
			payment_terms_financier    INTEGER,
			deal_owner                 TEXT NOT NULL DEFAULT '',
			comments                   TEXT NOT NULL DEFAULT '',
			created_at                 TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_date ON deals(date)`,

		// Deliveries: at most one per deal
		`CREATE TABLE IF NOT EXISTS deliveries (
			id             TEXT PRIMARY KEY,
			deal_id        TEXT NOT NULL UNIQUE REFERENCES deals(id),
			date           TEXT NOT NULL,
			quantity       TEXT NOT NULL,
			invoice_number TEXT NOT NULL,
			invoice_amount INTEGER NOT NULL,
			status         TEXT NOT NULL CHECK (status IN ('Unpaid','Part Paid','Paid')),
			created_at     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customer_payments (
			id          TEXT PRIMARY KEY,
			delivery_id TEXT NOT NULL REFERENCES deliveries(id),
			date        TEXT NOT NULL,
			method      TEXT NOT NULL CHECK (method IN ('CASH','NOSTRO','NOSTRO / BANK')),
			amount      INTEGER NOT NULL CHECK (amount > 0),
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customer_payments_delivery ON customer_payments(delivery_id)`,

		// Loans: at most one per deal
		`CREATE TABLE IF NOT EXISTS loans (
			id                TEXT PRIMARY KEY,
			deal_id           TEXT NOT NULL UNIQUE REFERENCES deals(id),
			principal         INTEGER NOT NULL,
			disbursement_date TEXT NOT NULL,
			payment_terms     INTEGER NOT NULL,
			maturity_date     TEXT NOT NULL,
			repayment_amount  INTEGER NOT NULL,
			status            TEXT NOT NULL CHECK (status IN ('Open','Closed')),
			created_at        TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS repayments (
			id                TEXT PRIMARY KEY,
			loan_id           TEXT NOT NULL REFERENCES loans(id),
			date              TEXT NOT NULL,
			method            TEXT NOT NULL CHECK (method IN ('CASH','NOSTRO','NOSTRO / BANK')),
			amount            INTEGER NOT NULL CHECK (amount > 0),
			source_of_funding TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_repayments_loan ON repayments(loan_id)`,

		// Cash book: append-only, deal_id is a plain reference so postings
		// outlive deleted deals
		`CREATE TABLE IF NOT EXISTS cash_book (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			date        TEXT NOT NULL,
			description TEXT NOT NULL,
			category    TEXT NOT NULL,
			deal_id     TEXT,
			cash_in     INTEGER NOT NULL DEFAULT 0 CHECK (cash_in >= 0),
			cash_out    INTEGER NOT NULL DEFAULT 0 CHECK (cash_out >= 0),
			bank_in     INTEGER NOT NULL DEFAULT 0 CHECK (bank_in >= 0),
			bank_out    INTEGER NOT NULL DEFAULT 0 CHECK (bank_out >= 0),
			created_at  TEXT NOT NULL,
			CHECK ((cash_in <> 0) + (cash_out <> 0) + (bank_in <> 0) + (bank_out <> 0) = 1)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cash_book_date ON cash_book(date)`,

		// Trigger: postings are never rewritten
		`CREATE TRIGGER IF NOT EXISTS trg_cash_book_immutable
		BEFORE UPDATE ON cash_book
		BEGIN
			SELECT RAISE(ABORT, 'cash book postings are append-only');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}
