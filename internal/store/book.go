package store

import (
	"context"

	"github.com/simonvc/tradebook/internal/ledger"
)

// Snapshot runs fn against a single read transaction so that every query
// in fn sees the same committed state.
func (s *Store) Snapshot(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.reader.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin read tx", err)
	}
	defer tx.Rollback()
	return fn(&Queries{db: tx})
}

// LoadBook reads every deal with its deliveries, payments, loan and
// repayments. It scans whole tables.
func (q *Queries) LoadBook(ctx context.Context) (*ledger.Book, error) {
	deals, err := q.ListDealViews(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := q.ListDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := q.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := q.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	repayments, err := q.ListRepayments(ctx)
	if err != nil {
		return nil, err
	}

	paymentsByDelivery := make(map[string][]ledger.CustomerPayment)
	for _, p := range payments {
		paymentsByDelivery[p.DeliveryID] = append(paymentsByDelivery[p.DeliveryID], p)
	}
	deliveriesByDeal := make(map[string][]ledger.DeliveryRecord)
	for _, d := range deliveries {
		deliveriesByDeal[d.DealID] = append(deliveriesByDeal[d.DealID], ledger.DeliveryRecord{
			Delivery: d,
			Payments: paymentsByDelivery[d.ID],
		})
	}
	repaymentsByLoan := make(map[string][]ledger.Repayment)
	for _, r := range repayments {
		repaymentsByLoan[r.LoanID] = append(repaymentsByLoan[r.LoanID], r)
	}
	loanByDeal := make(map[string]*ledger.LoanRecord)
	for _, l := range loans {
		loanByDeal[l.DealID] = &ledger.LoanRecord{Loan: l, Repayments: repaymentsByLoan[l.ID]}
	}

	book := &ledger.Book{Deals: make([]ledger.DealRecord, 0, len(deals))}
	for _, v := range deals {
		book.Deals = append(book.Deals, ledger.DealRecord{
			Deal:          v.Deal,
			CommodityName: v.CommodityName,
			SupplierName:  v.SupplierName,
			CustomerName:  v.CustomerName,
			FinancierName: v.FinancierName,
			Deliveries:    deliveriesByDeal[v.ID],
			Loan:          loanByDeal[v.ID],
		})
	}
	return book, nil
}
