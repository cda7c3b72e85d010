package ledger

import (
	"strings"
	"time"
)

// PaymentMethod selects the cash book instrument a payment posts to.
type PaymentMethod string

const (
	MethodCash       PaymentMethod = "CASH"
	MethodNostro     PaymentMethod = "NOSTRO"
	MethodNostroBank PaymentMethod = "NOSTRO / BANK"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodNostro, MethodNostroBank:
		return true
	}
	return false
}

// IsCash reports whether m settles through the cash columns. Every other
// method settles through the bank columns.
func (m PaymentMethod) IsCash() bool { return m == MethodCash }

// CustomerPayment is a receipt against a delivery's invoice. It keeps no
// link to the cash book posting it produced.
type CustomerPayment struct {
	ID         string        `json:"id"`
	DeliveryID string        `json:"delivery_id"`
	Date       time.Time     `json:"date"`
	Method     PaymentMethod `json:"method"`
	Amount     Money         `json:"amount"`
	CreatedAt  time.Time     `json:"created_at"`
}

// PaymentInput records or edits a customer payment. DeliveryID is ignored
// on edit.
type PaymentInput struct {
	DeliveryID string
	Date       time.Time
	Method     PaymentMethod
	Amount     Money
}

func (in *PaymentInput) Validate() error {
	return validateMoneyEvent(in.Date, in.Method, in.Amount)
}

// PaymentView is a payment with its invoice and counterparty resolved.
type PaymentView struct {
	CustomerPayment
	DealID        string `json:"deal_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
}

// Repayment is money paid back to a financier against a loan.
type Repayment struct {
	ID              string        `json:"id"`
	LoanID          string        `json:"loan_id"`
	Date            time.Time     `json:"date"`
	Method          PaymentMethod `json:"method"`
	Amount          Money         `json:"amount"`
	SourceOfFunding string        `json:"source_of_funding,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// RepaymentInput records or edits a repayment. LoanID is ignored on edit.
type RepaymentInput struct {
	LoanID          string
	Date            time.Time
	Method          PaymentMethod
	Amount          Money
	SourceOfFunding string
}

func (in *RepaymentInput) Validate() error {
	in.SourceOfFunding = strings.TrimSpace(in.SourceOfFunding)
	return validateMoneyEvent(in.Date, in.Method, in.Amount)
}

// RepaymentView is a repayment with its deal and financier resolved.
type RepaymentView struct {
	Repayment
	DealID        string `json:"deal_id"`
	FinancierName string `json:"financier_name"`
}

func validateMoneyEvent(date time.Time, method PaymentMethod, amount Money) error {
	if date.IsZero() {
		return invalid("date", "is required")
	}
	if !method.Valid() {
		return invalid("method", "must be CASH, NOSTRO or NOSTRO / BANK")
	}
	if amount <= 0 {
		return invalid("amount", "must be positive")
	}
	return nil
}
