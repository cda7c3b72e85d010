package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/simonvc/tradebook/internal/ledger"
)

const loanColumns = `id, deal_id, principal, disbursement_date, payment_terms, maturity_date,
	repayment_amount, status, created_at`

func (q *Queries) InsertLoan(ctx context.Context, l *ledger.Loan) error {
	if l.ID == "" {
		l.ID = newID()
	}
	l.CreatedAt = now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO loans (`+loanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.DealID, int64(l.Principal), formatDate(l.DisbursementDate), l.PaymentTerms,
		formatDate(l.MaturityDate), int64(l.RepaymentAmount), string(l.Status), formatTimestamp(l.CreatedAt),
	)
	if isUniqueViolation(err) {
		return &ledger.AlreadyExistsError{Entity: "loan", Parent: "deal " + l.DealID}
	}
	return classify("insert loan", err)
}

func (q *Queries) UpdateLoan(ctx context.Context, l *ledger.Loan) error {
	ok, err := q.exec(ctx, "update loan",
		`UPDATE loans SET principal = ?, disbursement_date = ?, payment_terms = ?, maturity_date = ?,
			repayment_amount = ?, status = ?
		WHERE id = ?`,
		int64(l.Principal), formatDate(l.DisbursementDate), l.PaymentTerms, formatDate(l.MaturityDate),
		int64(l.RepaymentAmount), string(l.Status), l.ID,
	)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "loan", ID: l.ID}
	}
	return nil
}

func (q *Queries) SetLoanStatus(ctx context.Context, id string, status ledger.LoanStatus) error {
	ok, err := q.exec(ctx, "set loan status", `UPDATE loans SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "loan", ID: id}
	}
	return nil
}

func (q *Queries) DeleteLoan(ctx context.Context, id string) error {
	ok, err := q.exec(ctx, "delete loan", `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ledger.NotFoundError{Entity: "loan", ID: id}
	}
	return nil
}

func (q *Queries) GetLoan(ctx context.Context, id string) (*ledger.Loan, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)
	l, err := scanLoan(row)
	if err != nil {
		return nil, notFound(err, "loan", id)
	}
	return l, nil
}

// FindLoanByDeal returns the deal's loan, or nil if it is not financed.
func (q *Queries) FindLoanByDeal(ctx context.Context, dealID string) (*ledger.Loan, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE deal_id = ?`, dealID)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find loan", err)
	}
	return l, nil
}

func (q *Queries) ListLoans(ctx context.Context) ([]ledger.Loan, error) {
	var out []ledger.Loan
	err := q.each(ctx, "list loans",
		`SELECT `+loanColumns+` FROM loans ORDER BY disbursement_date DESC, created_at DESC`,
		func(r scanner) error {
			l, err := scanLoan(r)
			if err != nil {
				return err
			}
			out = append(out, *l)
			return nil
		})
	return out, err
}

func scanLoan(r scanner) (*ledger.Loan, error) {
	var l ledger.Loan
	var disb, maturity, createdAt string
	var principal, repay int64
	err := r.Scan(&l.ID, &l.DealID, &principal, &disb, &l.PaymentTerms, &maturity, &repay, &l.Status, &createdAt)
	if err != nil {
		return nil, err
	}
	if l.DisbursementDate, err = parseDate(disb); err != nil {
		return nil, err
	}
	if l.MaturityDate, err = parseDate(maturity); err != nil {
		return nil, err
	}
	l.Principal = ledger.Money(principal)
	l.RepaymentAmount = ledger.Money(repay)
	l.CreatedAt = parseTimestamp(createdAt)
	return &l, nil
}
