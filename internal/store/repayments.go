package store

import (
	"context"

	"github.com/simonvc/tradebook/internal/ledger"
)

const repaymentColumns = `r.id, r.loan_id, r.date, r.method, r.amount, r.source_of_funding, r.created_at`

func (q *Queries) InsertRepayment(ctx context.Context, r *ledger.Repayment) error {
	if r.ID == "" {
		r.ID = newID()
	}
	r.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO repayments (id, loan_id, date, method, amount, source_of_funding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.LoanID, formatDate(r.Date), string(r.Method), int64(r.Amount), r.SourceOfFunding,
		formatTimestamp(r.CreatedAt),
	)
	return classify("insert repayment", err)
}

func (q *Queries) UpdateRepayment(ctx context.Context, r *ledger.Repayment) error {
	ok, err := q.exec(ctx, "update repayment",
		`UPDATE repayments SET date = ?, method = ?, amount = ?, source_of_funding = ? WHERE id = ?`,
		formatDate(r.Date), string(r.Method), int64(r.Amount), r.SourceOfFunding, r.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "repayment", ID: r.ID}
	}
	return nil
}

func (q *Queries) DeleteRepayment(ctx context.Context, id string) error {
	ok, err := q.exec(ctx, "delete repayment", `DELETE FROM repayments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "repayment", ID: id}
	}
	return nil
}

func (q *Queries) DeleteRepaymentsByLoan(ctx context.Context, loanID string) error {
	_, err := q.exec(ctx, "delete repayments", `DELETE FROM repayments WHERE loan_id = ?`, loanID)
	return err
}

func (q *Queries) GetRepayment(ctx context.Context, id string) (*ledger.Repayment, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+repaymentColumns+` FROM repayments r WHERE r.id = ?`, id)
	rp, err := scanRepayment(row)
	if err != nil {
		return nil, notFound(err, "repayment", id)
	}
	return rp, nil
}

func (q *Queries) SumRepayments(ctx context.Context, loanID string) (ledger.Money, error) {
	return q.sumAmounts(ctx, "sum repayments",
		`SELECT COALESCE(SUM(amount), 0) FROM repayments WHERE loan_id = ?`, loanID)
}

func (q *Queries) ListRepayments(ctx context.Context) ([]ledger.Repayment, error) {
	var out []ledger.Repayment
	err := q.each(ctx, "list repayments",
		`SELECT `+repaymentColumns+` FROM repayments r ORDER BY r.date, r.created_at`,
		func(s scanner) error {
			rp, err := scanRepayment(s)
			if err != nil {
				return err
			}
			out = append(out, *rp)
			return nil
		})
	return out, err
}

// ListRepaymentViews returns repayments newest first with deal and financier
// resolved.
func (q *Queries) ListRepaymentViews(ctx context.Context) ([]ledger.RepaymentView, error) {
	out := []ledger.RepaymentView{}
	err := q.each(ctx, "list repayments",
		`SELECT `+repaymentColumns+`, l.deal_id, COALESCE(f.name, '')
		FROM repayments r
		JOIN loans l ON l.id = r.loan_id
		JOIN deals d ON d.id = l.deal_id
		LEFT JOIN financiers f ON f.id = d.financier_id
		ORDER BY r.date DESC, r.created_at DESC`,
		func(s scanner) error {
			var v ledger.RepaymentView
			rp, err := scanRepaymentWith(s, &v.DealID, &v.FinancierName)
			if err != nil {
				return err
			}
			v.Repayment = *rp
			out = append(out, v)
			return nil
		})
	return out, err
}

func scanRepayment(s scanner) (*ledger.Repayment, error) {
	return scanRepaymentWith(s)
}

func scanRepaymentWith(s scanner, extra ...any) (*ledger.Repayment, error) {
	var r ledger.Repayment
	var date, createdAt string
	var amount int64
	dest := []any{&r.ID, &r.LoanID, &date, &r.Method, &amount, &r.SourceOfFunding, &createdAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	var err error
	if r.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	r.Amount = ledger.Money(amount)
	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}
