package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/ledger"
)

func TestReceiptPosting(t *testing.T) {
	p := ledger.CustomerPayment{Date: date(t, "2024-02-01"), Method: ledger.MethodNostro, Amount: 1000000}
	e := ledger.ReceiptPosting(p, "Acme", "INV-1", "RP-0001")

	assert.Equal(t, "Customer Payment - Acme - INV-1", e.Description)
	assert.Equal(t, ledger.CategoryTradeReceipts, e.Category)
	assert.Equal(t, "RP-0001", e.DealID)
	assert.Equal(t, ledger.Money(1000000), e.BankIn)
	assert.Zero(t, e.CashIn)
	assert.Equal(t, ledger.Inward, e.Direction())
	require.NoError(t, e.Validate())
}

func TestRepaymentPosting(t *testing.T) {
	r := ledger.Repayment{Date: date(t, "2024-03-01"), Method: ledger.MethodCash, Amount: 500}
	e := ledger.RepaymentPosting(r, "", "RP-0001")

	assert.Equal(t, "Loan Repayment to Financier (Ref: RP-0001)", e.Description)
	assert.Equal(t, ledger.CategoryLoanRepayment, e.Category)
	assert.Equal(t, ledger.Money(500), e.CashOut)
	assert.Equal(t, ledger.Money(500), e.Amount())
	assert.Equal(t, ledger.Outward, e.Direction())

	e = ledger.RepaymentPosting(ledger.Repayment{Method: ledger.MethodNostroBank, Amount: 7}, "Bank A", "X")
	assert.Equal(t, ledger.Money(7), e.BankOut)
	assert.Equal(t, "Loan Repayment to Bank A (Ref: X)", e.Description)
}

func TestCashBookEntryValidate(t *testing.T) {
	assert.Error(t, ledger.CashBookEntry{}.Validate())
	assert.Error(t, ledger.CashBookEntry{CashIn: 1, BankIn: 1}.Validate())
	assert.Error(t, ledger.CashBookEntry{CashOut: -1}.Validate())
	assert.NoError(t, ledger.CashBookEntry{BankOut: 1}.Validate())
}

func TestKind(t *testing.T) {
	assert.Equal(t, ledger.KindNotFound, ledger.Kind(&ledger.NotFoundError{Entity: "deal", ID: "x"}))
	assert.Equal(t, ledger.KindDuplicateKey, ledger.Kind(&ledger.DuplicateKeyError{Entity: "deal", Key: "x"}))
	assert.Equal(t, ledger.KindAlreadyExists, ledger.Kind(&ledger.AlreadyExistsError{Entity: "delivery", Parent: "x"}))
	assert.Equal(t, ledger.KindValidation, ledger.Kind(&ledger.ValidationError{Field: "amount", Reason: "bad"}))

	transient := &ledger.TransientError{Op: "commit", Err: assert.AnError}
	assert.Equal(t, ledger.KindTransient, ledger.Kind(transient))
	assert.True(t, ledger.IsTransient(transient))
	assert.ErrorIs(t, transient, assert.AnError)
	assert.False(t, ledger.IsDomain(transient))
	assert.Equal(t, ledger.KindInternal, ledger.Kind(assert.AnError))
}
