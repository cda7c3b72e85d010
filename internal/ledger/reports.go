package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type PLSummary struct {
	TotalRevenue     Money           `json:"total_revenue"`
	TotalCOGS        Money           `json:"total_cogs"`
	GrossProfit      Money           `json:"gross_profit"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

type InventorySummary struct {
	TotalContracted  decimal.Decimal `json:"total_contracted"`
	TotalDelivered   decimal.Decimal `json:"total_delivered"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	StockValueAtCost Money           `json:"stock_value_at_cost"`
}

type ReceivablesSummary struct {
	TotalInvoiced      Money `json:"total_invoiced"`
	TotalReceived      Money `json:"total_received"`
	OutstandingBalance Money `json:"outstanding_balance"`
	OverdueAmount      Money `json:"overdue_amount"`
}

// DebtSummary reports borrowing against principal. OutstandingPrincipal is
// not the sum of per-loan outstanding balances, which are measured against
// repayment amounts.
type DebtSummary struct {
	TotalBorrowed        Money `json:"total_borrowed"`
	TotalRepaid          Money `json:"total_repaid"`
	OutstandingPrincipal Money `json:"outstanding_principal"`
}

type ReportsSummary struct {
	AsOf        time.Time          `json:"as_of"`
	PL          PLSummary          `json:"pl"`
	Inventory   InventorySummary   `json:"inventory"`
	Receivables ReceivablesSummary `json:"receivables"`
	Debt        DebtSummary        `json:"debt"`
}

// Summarize aggregates the whole book. An invoice counts as overdue once its
// due date has passed with a balance above the settlement tolerance.
func Summarize(book *Book, asOf time.Time) ReportsSummary {
	s := ReportsSummary{
		AsOf: asOf,
		Inventory: InventorySummary{
			TotalContracted: decimal.Zero,
			TotalDelivered:  decimal.Zero,
		},
		PL: PLSummary{MarginPercentage: decimal.Zero},
	}

	for _, dr := range book.Deals {
		deal := dr.Deal
		s.Inventory.TotalContracted = s.Inventory.TotalContracted.Add(deal.Quantity)
		s.Inventory.StockValueAtCost += StockValueAtCost(
			OutstandingStock(deal.Quantity, dr.Deliveries), deal.SupplierPricePerTon)

		for _, del := range dr.Deliveries {
			received := del.TotalPaid()
			s.PL.TotalRevenue += del.InvoiceAmount
			s.PL.TotalCOGS += deal.SupplierPricePerTon.MulQuantity(del.Quantity)
			s.Inventory.TotalDelivered = s.Inventory.TotalDelivered.Add(del.Quantity)
			s.Receivables.TotalInvoiced += del.InvoiceAmount
			s.Receivables.TotalReceived += received

			balance := del.InvoiceAmount - received
			if due := dueDate(deal, del.Date); due != nil && due.Before(asOf) && balance > SettlementTolerance {
				s.Receivables.OverdueAmount += balance
			}
		}

		if dr.Loan != nil {
			s.Debt.TotalBorrowed += dr.Loan.Principal
			s.Debt.TotalRepaid += dr.Loan.TotalRepaid()
		}
	}

	s.PL.GrossProfit = s.PL.TotalRevenue - s.PL.TotalCOGS
	s.PL.MarginPercentage = Percentage(s.PL.GrossProfit, s.PL.TotalRevenue)
	s.Inventory.TotalOutstanding = s.Inventory.TotalContracted.Sub(s.Inventory.TotalDelivered)
	s.Receivables.OutstandingBalance = s.Receivables.TotalInvoiced - s.Receivables.TotalReceived
	s.Debt.OutstandingPrincipal = s.Debt.TotalBorrowed - s.Debt.TotalRepaid
	return s
}
