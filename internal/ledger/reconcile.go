package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Everything in this file is a pure function of the records passed in.
// Status fields stored on deliveries and loans are always the result of
// these functions evaluated inside the write that touched their children.

// DeliveryStatus derives an invoice's payment status. A zero total is
// Unpaid even against a zero invoice.
func DeliveryStatus(totalPaid, invoiceAmount Money) PaymentStatus {
	switch {
	case totalPaid <= 0:
		return StatusUnpaid
	case totalPaid >= invoiceAmount-SettlementTolerance:
		return StatusPaid
	default:
		return StatusPartPaid
	}
}

// LoanStatusFor derives a loan's status from what is owed and what has been
// repaid.
func LoanStatusFor(repaymentAmount, repaid Money) LoanStatus {
	if repaymentAmount-repaid <= SettlementTolerance {
		return LoanClosed
	}
	return LoanOpen
}

// DaysOverdue counts started days past maturity while a balance above the
// settlement tolerance is outstanding.
func DaysOverdue(maturity, asOf time.Time, outstanding Money) int {
	if outstanding <= SettlementTolerance || !asOf.After(maturity) {
		return 0
	}
	const day = 24 * time.Hour
	elapsed := asOf.Sub(maturity)
	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}

// OutstandingStock is the contracted quantity not yet delivered.
func OutstandingStock(dealQty decimal.Decimal, deliveries []DeliveryRecord) decimal.Decimal {
	out := dealQty
	for _, d := range deliveries {
		out = out.Sub(d.Quantity)
	}
	return out
}

// StockValueAtCost values undelivered stock at the supplier price. Over
// delivery does not produce negative stock value.
func StockValueAtCost(outstanding decimal.Decimal, supplierPricePerTon Money) Money {
	if !outstanding.IsPositive() {
		return 0
	}
	return supplierPricePerTon.MulQuantity(outstanding)
}

// Book is a full snapshot of deals and their linked records, ordered newest
// deal first.
type Book struct {
	Deals []DealRecord
}

type DealRecord struct {
	Deal          Deal
	CommodityName string
	SupplierName  string
	CustomerName  string
	FinancierName string
	Deliveries    []DeliveryRecord
	Loan          *LoanRecord
}

type DeliveryRecord struct {
	Delivery
	Payments []CustomerPayment
}

func (r DeliveryRecord) TotalPaid() Money {
	var total Money
	for _, p := range r.Payments {
		total += p.Amount
	}
	return total
}

type LoanRecord struct {
	Loan
	Repayments []Repayment
}

func (r LoanRecord) TotalRepaid() Money {
	var total Money
	for _, rp := range r.Repayments {
		total += rp.Amount
	}
	return total
}

// ReceivablesRow is one line of the receivables register.
type ReceivablesRow struct {
	DealID             string          `json:"deal_id"`
	DeliveryID         string          `json:"delivery_id,omitempty"`
	CustomerName       string          `json:"customer_name"`
	CommodityName      string          `json:"commodity_name"`
	DealQuantity       decimal.Decimal `json:"deal_quantity"`
	DeliveryDate       *time.Time      `json:"delivery_date,omitempty"`
	DeliveredQuantity  decimal.Decimal `json:"delivered_quantity"`
	OutstandingStock   decimal.Decimal `json:"outstanding_stock"`
	InvoiceNumber      string          `json:"invoice_number"`
	InvoiceAmount      Money           `json:"invoice_amount"`
	AmountReceived     Money           `json:"amount_received"`
	OutstandingBalance Money           `json:"outstanding_balance"`
	Status             PaymentStatus   `json:"status"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
}

// ReceivablesRows lists every delivery, plus a Pending Delivery placeholder
// for each deal that has none.
func ReceivablesRows(book *Book) []ReceivablesRow {
	var rows []ReceivablesRow
	for _, dr := range book.Deals {
		stock := OutstandingStock(dr.Deal.Quantity, dr.Deliveries)
		if len(dr.Deliveries) == 0 {
			rows = append(rows, ReceivablesRow{
				DealID:            dr.Deal.ID,
				CustomerName:      dr.CustomerName,
				CommodityName:     dr.CommodityName,
				DealQuantity:      dr.Deal.Quantity,
				DeliveredQuantity: decimal.Zero,
				OutstandingStock:  stock,
				InvoiceNumber:     "-",
				Status:            StatusPendingDelivery,
			})
			continue
		}
		for _, del := range dr.Deliveries {
			received := del.TotalPaid()
			date := del.Date
			rows = append(rows, ReceivablesRow{
				DealID:             dr.Deal.ID,
				DeliveryID:         del.ID,
				CustomerName:       dr.CustomerName,
				CommodityName:      dr.CommodityName,
				DealQuantity:       dr.Deal.Quantity,
				DeliveryDate:       &date,
				DeliveredQuantity:  del.Quantity,
				OutstandingStock:   stock,
				InvoiceNumber:      del.InvoiceNumber,
				InvoiceAmount:      del.InvoiceAmount,
				AmountReceived:     received,
				OutstandingBalance: del.InvoiceAmount - received,
				Status:             DeliveryStatus(received, del.InvoiceAmount),
				DueDate:            dueDate(dr.Deal, del.Date),
			})
		}
	}
	return rows
}

// dueDate is nil when the deal carries no customer terms.
func dueDate(deal Deal, deliveryDate time.Time) *time.Time {
	if deal.PaymentTermsCustomer == nil {
		return nil
	}
	due := AddDays(deliveryDate, *deal.PaymentTermsCustomer)
	return &due
}

// OpenInvoice is a delivery that can still receive a payment.
type OpenInvoice struct {
	DeliveryID         string        `json:"delivery_id"`
	DealID             string        `json:"deal_id"`
	InvoiceNumber      string        `json:"invoice_number"`
	CustomerName       string        `json:"customer_name"`
	Date               time.Time     `json:"date"`
	InvoiceAmount      Money         `json:"invoice_amount"`
	AmountReceived     Money         `json:"amount_received"`
	OutstandingBalance Money         `json:"outstanding_balance"`
	Status             PaymentStatus `json:"status"`
}

// OpenInvoices lists deliveries whose derived status is not Paid.
func OpenInvoices(book *Book) []OpenInvoice {
	var out []OpenInvoice
	for _, dr := range book.Deals {
		for _, del := range dr.Deliveries {
			received := del.TotalPaid()
			status := DeliveryStatus(received, del.InvoiceAmount)
			if status == StatusPaid {
				continue
			}
			out = append(out, OpenInvoice{
				DeliveryID:         del.ID,
				DealID:             dr.Deal.ID,
				InvoiceNumber:      del.InvoiceNumber,
				CustomerName:       dr.CustomerName,
				Date:               del.Date,
				InvoiceAmount:      del.InvoiceAmount,
				AmountReceived:     received,
				OutstandingBalance: del.InvoiceAmount - received,
				Status:             status,
			})
		}
	}
	return out
}

// LoanView is one line of the financing register.
type LoanView struct {
	Loan
	FinancierName      string `json:"financier_name"`
	CustomerName       string `json:"customer_name"`
	TotalRepaid        Money  `json:"total_repaid"`
	OutstandingBalance Money  `json:"outstanding_balance"`
	DaysOverdue        int    `json:"days_overdue"`
}

// FinancingRegister lists every loan, most recently disbursed first, with
// repayment totals and overdue days as of asOf.
func FinancingRegister(book *Book, asOf time.Time) []LoanView {
	var out []LoanView
	for _, dr := range book.Deals {
		if dr.Loan == nil {
			continue
		}
		repaid := dr.Loan.TotalRepaid()
		outstanding := dr.Loan.RepaymentAmount - repaid
		lv := LoanView{
			Loan:               dr.Loan.Loan,
			FinancierName:      dr.FinancierName,
			CustomerName:       dr.CustomerName,
			TotalRepaid:        repaid,
			OutstandingBalance: outstanding,
			DaysOverdue:        DaysOverdue(dr.Loan.MaturityDate, asOf, outstanding),
		}
		lv.Status = LoanStatusFor(dr.Loan.RepaymentAmount, repaid)
		out = append(out, lv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisbursementDate.After(out[j].DisbursementDate)
	})
	return out
}

// OpenLoans is the financing register restricted to loans with a balance
// above the settlement tolerance.
func OpenLoans(book *Book, asOf time.Time) []LoanView {
	var out []LoanView
	for _, lv := range FinancingRegister(book, asOf) {
		if lv.OutstandingBalance > SettlementTolerance {
			out = append(out, lv)
		}
	}
	return out
}
