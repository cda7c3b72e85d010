package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simonvc/tradebook/internal/ledger"
)

func TestSummarize(t *testing.T) {
	book := bookWithDelivery(t, 600000)
	s := ledger.Summarize(book, date(t, "2024-03-01"))

	assert.Equal(t, ledger.Money(1800000), s.PL.TotalRevenue)
	assert.Equal(t, ledger.Money(1500000), s.PL.TotalCOGS)
	assert.Equal(t, ledger.Money(300000), s.PL.GrossProfit)
	assert.True(t, decimal.RequireFromString("16.67").Equal(s.PL.MarginPercentage))

	assert.True(t, decimal.NewFromInt(100).Equal(s.Inventory.TotalContracted))
	assert.True(t, decimal.NewFromInt(60).Equal(s.Inventory.TotalDelivered))
	assert.True(t, decimal.NewFromInt(40).Equal(s.Inventory.TotalOutstanding))
	assert.Equal(t, ledger.Money(1000000), s.Inventory.StockValueAtCost)

	assert.Equal(t, ledger.Money(1800000), s.Receivables.TotalInvoiced)
	assert.Equal(t, ledger.Money(600000), s.Receivables.TotalReceived)
	assert.Equal(t, ledger.Money(1200000), s.Receivables.OutstandingBalance)
	assert.Equal(t, ledger.Money(1200000), s.Receivables.OverdueAmount)

	assert.Equal(t, ledger.Money(2500000), s.Debt.TotalBorrowed)
	assert.Equal(t, ledger.Money(1000000), s.Debt.TotalRepaid)
	assert.Equal(t, ledger.Money(1500000), s.Debt.OutstandingPrincipal)
}

func TestSummarizeNotOverdueBeforeDueDate(t *testing.T) {
	s := ledger.Summarize(bookWithDelivery(t, 600000), date(t, "2024-02-19"))
	assert.Equal(t, ledger.Money(0), s.Receivables.OverdueAmount)
}

func TestSummarizeEmptyBook(t *testing.T) {
	s := ledger.Summarize(&ledger.Book{}, date(t, "2024-01-01"))
	assert.True(t, s.PL.MarginPercentage.IsZero())
	assert.Equal(t, ledger.Money(0), s.Debt.OutstandingPrincipal)
}
