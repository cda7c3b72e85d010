package ledger

import (
	"fmt"
	"time"
)

// CashCategory tags a cash book posting with the event that produced it.
type CashCategory string

const (
	CategoryTradeReceipts CashCategory = "Trade Receipts"
	CategoryLoanRepayment CashCategory = "Loan Repayment"
)

// Direction is the flow of money relative to the business.
type Direction int

const (
	Inward Direction = iota
	Outward
)

// CashBookEntry is an append-only posting. Exactly one of the four amount
// columns is nonzero.
type CashBookEntry struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	Category    CashCategory `json:"category"`
	DealID      string       `json:"deal_id,omitempty"`
	CashIn      Money        `json:"cash_in"`
	CashOut     Money        `json:"cash_out"`
	BankIn      Money        `json:"bank_in"`
	BankOut     Money        `json:"bank_out"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Post builds the posting for one money event. The instrument column is
// chosen by method and the side by direction.
func Post(date time.Time, dir Direction, method PaymentMethod, amount Money, category CashCategory, description, dealID string) CashBookEntry {
	e := CashBookEntry{
		Date:        Day(date),
		Description: description,
		Category:    category,
		DealID:      dealID,
	}
	switch {
	case dir == Inward && method.IsCash():
		e.CashIn = amount
	case dir == Inward:
		e.BankIn = amount
	case method.IsCash():
		e.CashOut = amount
	default:
		e.BankOut = amount
	}
	return e
}

// ReceiptPosting is the inward posting for a customer payment.
func ReceiptPosting(p CustomerPayment, customerName, invoiceNumber, dealID string) CashBookEntry {
	desc := fmt.Sprintf("Customer Payment - %s - %s", customerName, invoiceNumber)
	return Post(p.Date, Inward, p.Method, p.Amount, CategoryTradeReceipts, desc, dealID)
}

// RepaymentPosting is the outward posting for a loan repayment. An unnamed
// financier is described generically.
func RepaymentPosting(r Repayment, financierName, dealID string) CashBookEntry {
	if financierName == "" {
		financierName = "Financier"
	}
	desc := fmt.Sprintf("Loan Repayment to %s (Ref: %s)", financierName, dealID)
	return Post(r.Date, Outward, r.Method, r.Amount, CategoryLoanRepayment, desc, dealID)
}

// Amount is the single nonzero column of e.
func (e CashBookEntry) Amount() Money {
	return e.CashIn + e.CashOut + e.BankIn + e.BankOut
}

// Direction reports which side of the book e sits on.
func (e CashBookEntry) Direction() Direction {
	if e.CashIn != 0 || e.BankIn != 0 {
		return Inward
	}
	return Outward
}

func (e CashBookEntry) Validate() error {
	nonzero := 0
	for _, v := range []Money{e.CashIn, e.CashOut, e.BankIn, e.BankOut} {
		if v < 0 {
			return invalid("amount", "must not be negative")
		}
		if v != 0 {
			nonzero++
		}
	}
	if nonzero != 1 {
		return invalid("amount", "exactly one of cash_in, cash_out, bank_in, bank_out must be set")
	}
	return nil
}
