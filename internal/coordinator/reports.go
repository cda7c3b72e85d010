package coordinator

import (
	"context"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

func (c *Coordinator) GetReceivablesRows(ctx context.Context) ([]ledger.ReceivablesRow, error) {
	book, err := c.book(ctx, "get_receivables")
	if err != nil {
		return nil, err
	}
	return ledger.ReceivablesRows(book), nil
}

// GetOpenInvoices lists the invoices that can still take a payment.
func (c *Coordinator) GetOpenInvoices(ctx context.Context) ([]ledger.OpenInvoice, error) {
	book, err := c.book(ctx, "get_open_invoices")
	if err != nil {
		return nil, err
	}
	return ledger.OpenInvoices(book), nil
}

func (c *Coordinator) GetFinancingRegister(ctx context.Context) ([]ledger.LoanView, error) {
	book, err := c.book(ctx, "get_financing_register")
	if err != nil {
		return nil, err
	}
	return ledger.FinancingRegister(book, c.now()), nil
}

// GetOpenLoans lists the loans that can still take a repayment.
func (c *Coordinator) GetOpenLoans(ctx context.Context) ([]ledger.LoanView, error) {
	book, err := c.book(ctx, "get_open_loans")
	if err != nil {
		return nil, err
	}
	return ledger.OpenLoans(book, c.now()), nil
}

// GetCashBook returns up to limit postings, newest first. A limit of zero or
// less uses the configured default.
func (c *Coordinator) GetCashBook(ctx context.Context, limit int) ([]ledger.CashBookEntry, error) {
	if limit <= 0 {
		limit = c.cashBookLimit
	}
	var entries []ledger.CashBookEntry
	err := c.read(ctx, "get_cash_book", func(q *store.Queries) error {
		var err error
		entries, err = q.ListCashBook(ctx, limit)
		return err
	})
	return entries, err
}

func (c *Coordinator) GetReportsSummary(ctx context.Context) (*ledger.ReportsSummary, error) {
	book, err := c.book(ctx, "get_reports_summary")
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(book, c.now())
	return &summary, nil
}

// CashBookLimit is the limit GetCashBook applies when given none.
func (c *Coordinator) CashBookLimit() int {
	return c.cashBookLimit
}
