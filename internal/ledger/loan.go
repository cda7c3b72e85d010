package ledger

import "time"

type LoanStatus string

const (
	LoanOpen   LoanStatus = "Open"
	LoanClosed LoanStatus = "Closed"
)

// Loan finances the purchase leg of a deal. Interest is not accrued: the
// repayment amount is the flat maturity value agreed with the financier.
type Loan struct {
	ID               string     `json:"id"`
	DealID           string     `json:"deal_id"`
	Principal        Money      `json:"principal"`
	DisbursementDate time.Time  `json:"disbursement_date"`
	PaymentTerms     int        `json:"payment_terms"`
	MaturityDate     time.Time  `json:"maturity_date"`
	RepaymentAmount  Money      `json:"repayment_amount"`
	Status           LoanStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewLoan opens a loan for deal. The principal is the deal's cost value and
// the repayment amount defaults to the principal when no maturity value is
// given.
func NewLoan(deal *Deal, disbursement time.Time, terms int, maturityValue *Money) *Loan {
	repay := deal.CostValue
	if maturityValue != nil && *maturityValue > 0 {
		repay = *maturityValue
	}
	return &Loan{
		DealID:           deal.ID,
		Principal:        deal.CostValue,
		DisbursementDate: Day(disbursement),
		PaymentTerms:     terms,
		MaturityDate:     AddDays(disbursement, terms),
		RepaymentAmount:  repay,
		Status:           LoanStatusFor(repay, 0),
	}
}

// LoanUpdate edits the financing terms of a loan.
type LoanUpdate struct {
	DisbursementDate time.Time
	PaymentTerms     int
	Principal        Money
	RepaymentAmount  Money
}

func (u *LoanUpdate) Validate() error {
	if u.DisbursementDate.IsZero() {
		return invalid("disbursement_date", "is required")
	}
	if u.PaymentTerms < 0 {
		return invalid("payment_terms", "must not be negative")
	}
	if u.Principal < 0 {
		return invalid("principal", "must not be negative")
	}
	if u.RepaymentAmount < 0 {
		return invalid("repayment_amount", "must not be negative")
	}
	return nil
}

// Apply overwrites the terms of l, recomputes the maturity date and the
// status against the amount already repaid. A zero repayment amount defaults
// to the principal, as in NewLoan.
func (l *Loan) Apply(u LoanUpdate, repaid Money) {
	l.DisbursementDate = Day(u.DisbursementDate)
	l.PaymentTerms = u.PaymentTerms
	l.MaturityDate = AddDays(u.DisbursementDate, u.PaymentTerms)
	l.Principal = u.Principal
	l.RepaymentAmount = u.RepaymentAmount
	if l.RepaymentAmount == 0 {
		l.RepaymentAmount = l.Principal
	}
	l.Status = LoanStatusFor(l.RepaymentAmount, repaid)
}
