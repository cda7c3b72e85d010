package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

// UpdateLoan edits the financing terms of a loan. The maturity date and
// status are recomputed; disbursement may not precede the deal date.
func (c *Coordinator) UpdateLoan(ctx context.Context, id string, u ledger.LoanUpdate) (*ledger.Loan, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var loan *ledger.Loan
	err := c.write(ctx, "update_loan", ledger.LoanViews, func(q *store.Queries) error {
		var err error
		loan, err = q.GetLoan(ctx, id)
		if err != nil {
			return err
		}
		deal, err := q.GetDeal(ctx, loan.DealID)
		if err != nil {
			return err
		}
		if ledger.Day(u.DisbursementDate).Before(deal.Date) {
			return &ledger.ValidationError{Field: "disbursement_date", Reason: "must not be before the deal date"}
		}
		repaid, err := q.SumRepayments(ctx, id)
		if err != nil {
			return err
		}
		loan.Apply(u, repaid)
		return q.UpdateLoan(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("loan updated",
		zap.String("op", "update_loan"),
		zap.String("deal_id", loan.DealID),
		zap.Stringer("repayment_amount", loan.RepaymentAmount),
	)
	return loan, nil
}

// DeleteLoan removes a loan and its repayments.
func (c *Coordinator) DeleteLoan(ctx context.Context, id string) error {
	err := c.write(ctx, "delete_loan", ledger.LoanViews, func(q *store.Queries) error {
		if _, err := q.GetLoan(ctx, id); err != nil {
			return err
		}
		if err := q.DeleteRepaymentsByLoan(ctx, id); err != nil {
			return err
		}
		return q.DeleteLoan(ctx, id)
	})
	if err != nil {
		return err
	}

	c.logger.Info("loan deleted", zap.String("op", "delete_loan"), zap.String("loan_id", id))
	return nil
}

// RecordRepayment pays money back against a loan, recomputes the loan
// status and appends the outward cash book posting.
func (c *Coordinator) RecordRepayment(ctx context.Context, in ledger.RepaymentInput) (*ledger.Repayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var (
		repayment *ledger.Repayment
		posting   ledger.CashBookEntry
		status    ledger.LoanStatus
	)
	err := c.write(ctx, "record_repayment", ledger.RepaymentViews, func(q *store.Queries) error {
		loan, err := q.GetLoan(ctx, in.LoanID)
		if err != nil {
			return err
		}
		deal, err := q.GetDeal(ctx, loan.DealID)
		if err != nil {
			return err
		}
		var financierName string
		if deal.FinancierID != "" {
			f, err := q.GetFinancier(ctx, deal.FinancierID)
			if err != nil {
				return err
			}
			financierName = f.Name
		}

		repayment = &ledger.Repayment{
			LoanID:          loan.ID,
			Date:            ledger.Day(in.Date),
			Method:          in.Method,
			Amount:          in.Amount,
			SourceOfFunding: in.SourceOfFunding,
		}
		if err := q.InsertRepayment(ctx, repayment); err != nil {
			return err
		}

		repaid, err := q.SumRepayments(ctx, loan.ID)
		if err != nil {
			return err
		}
		status = ledger.LoanStatusFor(loan.RepaymentAmount, repaid)
		if err := q.SetLoanStatus(ctx, loan.ID, status); err != nil {
			return err
		}

		posting = ledger.RepaymentPosting(*repayment, financierName, deal.ID)
		return q.InsertCashBookEntry(ctx, &posting)
	})
	if err != nil {
		return nil, err
	}

	c.metrics.Posted(posting)
	c.logger.Info("repayment recorded",
		zap.String("op", "record_repayment"),
		zap.String("deal_id", posting.DealID),
		zap.Stringer("amount", repayment.Amount),
		zap.String("status", string(status)),
	)
	return repayment, nil
}

// UpdateRepayment edits a repayment and recomputes its loan status.
func (c *Coordinator) UpdateRepayment(ctx context.Context, id string, in ledger.RepaymentInput) (*ledger.Repayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var repayment *ledger.Repayment
	err := c.write(ctx, "update_repayment", ledger.RepaymentEditViews, func(q *store.Queries) error {
		var err error
		repayment, err = q.GetRepayment(ctx, id)
		if err != nil {
			return err
		}
		repayment.Date = ledger.Day(in.Date)
		repayment.Method = in.Method
		repayment.Amount = in.Amount
		repayment.SourceOfFunding = in.SourceOfFunding
		if err := q.UpdateRepayment(ctx, repayment); err != nil {
			return err
		}
		return refreshLoanStatus(ctx, q, repayment.LoanID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("repayment updated",
		zap.String("op", "update_repayment"),
		zap.String("repayment_id", id),
		zap.Stringer("amount", repayment.Amount),
	)
	return repayment, nil
}

func (c *Coordinator) DeleteRepayment(ctx context.Context, id string) error {
	err := c.write(ctx, "delete_repayment", ledger.RepaymentEditViews, func(q *store.Queries) error {
		repayment, err := q.GetRepayment(ctx, id)
		if err != nil {
			return err
		}
		if err := q.DeleteRepayment(ctx, id); err != nil {
			return err
		}
		return refreshLoanStatus(ctx, q, repayment.LoanID)
	})
	if err != nil {
		return err
	}

	c.logger.Info("repayment deleted", zap.String("op", "delete_repayment"), zap.String("repayment_id", id))
	return nil
}

func (c *Coordinator) ListRepayments(ctx context.Context) ([]ledger.RepaymentView, error) {
	var repayments []ledger.RepaymentView
	err := c.read(ctx, "list_repayments", func(q *store.Queries) error {
		var err error
		repayments, err = q.ListRepaymentViews(ctx)
		return err
	})
	return repayments, err
}

func refreshLoanStatus(ctx context.Context, q *store.Queries, loanID string) error {
	loan, err := q.GetLoan(ctx, loanID)
	if err != nil {
		return err
	}
	repaid, err := q.SumRepayments(ctx, loanID)
	if err != nil {
		return err
	}
	return q.SetLoanStatus(ctx, loanID, ledger.LoanStatusFor(loan.RepaymentAmount, repaid))
}
