package store

import (
	"context"
	"database/sql"

	"github.com/simonvc/tradebook/internal/ledger"
)

// InsertCashBookEntry appends a posting. There is no update or delete.
func (q *Queries) InsertCashBookEntry(ctx context.Context, e *ledger.CashBookEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO cash_book (id, date, description, category, deal_id, cash_in, cash_out, bank_in, bank_out, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, formatDate(e.Date), e.Description, string(e.Category), nullString(e.DealID),
		int64(e.CashIn), int64(e.CashOut), int64(e.BankIn), int64(e.BankOut), formatTimestamp(e.CreatedAt),
	)
	return classify("insert cash book entry", err)
}

// ListCashBook returns up to limit postings, newest date first and, within a
// date, most recently appended first.
func (q *Queries) ListCashBook(ctx context.Context, limit int) ([]ledger.CashBookEntry, error) {
	out := []ledger.CashBookEntry{}
	err := q.each(ctx, "list cash book",
		`SELECT id, date, description, category, deal_id, cash_in, cash_out, bank_in, bank_out, created_at
		FROM cash_book ORDER BY date DESC, seq DESC LIMIT ?`,
		func(r scanner) error {
			var e ledger.CashBookEntry
			var date, createdAt string
			var dealID sql.NullString
			var cashIn, cashOut, bankIn, bankOut int64
			if err := r.Scan(&e.ID, &date, &e.Description, &e.Category, &dealID,
				&cashIn, &cashOut, &bankIn, &bankOut, &createdAt); err != nil {
				return err
			}
			var err error
			if e.Date, err = parseDate(date); err != nil {
				return err
			}
			e.DealID = dealID.String
			e.CashIn = ledger.Money(cashIn)
			e.CashOut = ledger.Money(cashOut)
			e.BankIn = ledger.Money(bankIn)
			e.BankOut = ledger.Money(bankOut)
			e.CreatedAt = parseTimestamp(createdAt)
			out = append(out, e)
			return nil
		}, limit)
	return out, err
}

func (q *Queries) CountCashBook(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cash_book`).Scan(&n); err != nil {
		return 0, classify("count cash book", err)
	}
	return n, nil
}
