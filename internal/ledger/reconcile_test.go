package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/ledger"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ledger.ParseDate(s)
	require.NoError(t, err)
	return d
}

func intp(v int) *int { return &v }

// sampleDeal is 100 tons bought at 250.00 and sold at 300.00.
func sampleDeal(t *testing.T) *ledger.Deal {
	t.Helper()
	in := ledger.DealInput{
		ID:                  "RP-0001",
		Date:                date(t, "2024-01-01"),
		CommodityID:         "c1",
		SupplierID:          "s1",
		CustomerID:          "k1",
		Quantity:            decimal.NewFromInt(100),
		SupplierPricePerTon: 25000,
		OfftakePricePerTon:  30000,
	}
	require.NoError(t, in.Validate())
	return ledger.NewDeal(in)
}

func TestDealEconomics(t *testing.T) {
	d := sampleDeal(t)
	assert.Equal(t, ledger.DealOpen, d.Status)
	assert.Equal(t, ledger.Money(2500000), d.CostValue)
	assert.Equal(t, ledger.Money(3000000), d.ExpectedSalesValue)
	assert.Equal(t, ledger.Money(500000), d.ExpectedGrossMargin)
	assert.True(t, decimal.RequireFromString("16.67").Equal(d.ExpectedMarginPercentage))

	zero := ledger.ComputeEconomics(decimal.NewFromInt(10), 100, 0)
	assert.True(t, zero.ExpectedMarginPercentage.IsZero())
}

func TestDealInputValidate(t *testing.T) {
	in := ledger.DealInput{ID: "RP-1", Date: date(t, "2024-02-01"), CommodityID: "c", SupplierID: "s", CustomerID: "k"}
	require.NoError(t, in.Validate())

	early := date(t, "2024-01-15")
	in.DisbursementDate = &early
	err := in.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	in.DisbursementDate = nil
	in.Quantity = decimal.NewFromInt(-1)
	assert.ErrorIs(t, in.Validate(), ledger.ErrValidation)

	blank := ledger.DealInput{ID: "  "}
	assert.ErrorIs(t, blank.Validate(), ledger.ErrValidation)
}

func TestDealInputRejectsUnpriceableQuantity(t *testing.T) {
	in := ledger.DealInput{
		ID: "RP-1", Date: date(t, "2024-02-01"), CommodityID: "c", SupplierID: "s", CustomerID: "k",
		Quantity:            decimal.RequireFromString("1000000000000000"),
		SupplierPricePerTon: 20000,
		OfftakePricePerTon:  25000,
	}
	err := in.Validate()
	require.ErrorIs(t, err, ledger.ErrValidation)
	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)

	assert.ErrorIs(t, ledger.ValidateInvoice(in.Quantity, 25000), ledger.ErrValidation)
	assert.NoError(t, ledger.ValidateInvoice(decimal.NewFromInt(100), 25000))
}

func TestWantsLoan(t *testing.T) {
	disb := date(t, "2024-01-01")
	in := ledger.DealInput{FinancierID: "f1", DisbursementDate: &disb, PaymentTermsFinancier: intp(60)}
	assert.True(t, in.WantsLoan())

	in.PaymentTermsFinancier = intp(0)
	assert.False(t, in.WantsLoan())

	in.PaymentTermsFinancier = intp(60)
	in.FinancierID = ""
	assert.False(t, in.WantsLoan())
}

func TestDeliveryStatus(t *testing.T) {
	const invoice = ledger.Money(3000000)
	cases := []struct {
		paid ledger.Money
		want ledger.PaymentStatus
	}{
		{0, ledger.StatusUnpaid},
		{1, ledger.StatusPartPaid},
		{1000000, ledger.StatusPartPaid},
		{2999998, ledger.StatusPartPaid},
		{2999999, ledger.StatusPaid},
		{3000000, ledger.StatusPaid},
		{3500000, ledger.StatusPaid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.DeliveryStatus(tc.paid, invoice), "paid=%d", tc.paid)
	}
	assert.Equal(t, ledger.StatusUnpaid, ledger.DeliveryStatus(0, 0))
}

func TestDeliveryStatusIsIdempotent(t *testing.T) {
	for _, paid := range []ledger.Money{0, 5, 2999999} {
		first := ledger.DeliveryStatus(paid, 3000000)
		assert.Equal(t, first, ledger.DeliveryStatus(paid, 3000000))
	}
}

func TestNewLoan(t *testing.T) {
	d := sampleDeal(t)
	loan := ledger.NewLoan(d, date(t, "2024-01-01"), 60, nil)
	assert.Equal(t, ledger.Money(2500000), loan.Principal)
	assert.Equal(t, ledger.Money(2500000), loan.RepaymentAmount)
	assert.Equal(t, date(t, "2024-03-01"), loan.MaturityDate)
	assert.Equal(t, ledger.LoanOpen, loan.Status)

	mv := ledger.Money(2600000)
	loan = ledger.NewLoan(d, date(t, "2024-01-01"), 60, &mv)
	assert.Equal(t, mv, loan.RepaymentAmount)
}

func TestLoanStatusAndOverdue(t *testing.T) {
	assert.Equal(t, ledger.LoanOpen, ledger.LoanStatusFor(2600000, 1000000))
	assert.Equal(t, ledger.LoanClosed, ledger.LoanStatusFor(2600000, 2599999))
	assert.Equal(t, ledger.LoanClosed, ledger.LoanStatusFor(2600000, 2600000))

	maturity := date(t, "2024-03-01")
	assert.Equal(t, 0, ledger.DaysOverdue(maturity, maturity, 100))
	assert.Equal(t, 1, ledger.DaysOverdue(maturity, maturity.Add(10*time.Hour), 100))
	assert.Equal(t, 10, ledger.DaysOverdue(maturity, date(t, "2024-03-11"), 100))
	assert.Equal(t, 0, ledger.DaysOverdue(maturity, date(t, "2024-03-11"), 1))
}

func TestLoanApplyRecomputesMaturity(t *testing.T) {
	loan := ledger.NewLoan(sampleDeal(t), date(t, "2024-01-01"), 60, nil)
	loan.Apply(ledger.LoanUpdate{
		DisbursementDate: date(t, "2024-01-10"),
		PaymentTerms:     30,
		Principal:        2500000,
		RepaymentAmount:  1000,
	}, 1000)
	assert.Equal(t, date(t, "2024-02-09"), loan.MaturityDate)
	assert.Equal(t, ledger.LoanClosed, loan.Status)
}

func TestLoanApplyDefaultsRepaymentToPrincipal(t *testing.T) {
	loan := ledger.NewLoan(sampleDeal(t), date(t, "2024-01-01"), 60, nil)
	loan.Apply(ledger.LoanUpdate{
		DisbursementDate: date(t, "2024-01-01"),
		PaymentTerms:     60,
		Principal:        2000000,
	}, 0)
	assert.Equal(t, ledger.Money(2000000), loan.RepaymentAmount)
	assert.Equal(t, ledger.LoanOpen, loan.Status)
}

func TestStockValue(t *testing.T) {
	assert.Equal(t, ledger.Money(0), ledger.StockValueAtCost(decimal.NewFromInt(-5), 25000))
	assert.Equal(t, ledger.Money(1000000), ledger.StockValueAtCost(decimal.NewFromInt(40), 25000))
}

func bookWithDelivery(t *testing.T, payments ...ledger.Money) *ledger.Book {
	t.Helper()
	d := sampleDeal(t)
	d.PaymentTermsCustomer = intp(30)
	del := ledger.Delivery{
		ID:            "del-1",
		DealID:        d.ID,
		Date:          date(t, "2024-01-20"),
		Quantity:      decimal.NewFromInt(60),
		InvoiceNumber: "INV-1",
		InvoiceAmount: ledger.InvoiceAmount(decimal.NewFromInt(60), d.OfftakePricePerTon),
	}
	rec := ledger.DeliveryRecord{Delivery: del}
	for i, amt := range payments {
		rec.Payments = append(rec.Payments, ledger.CustomerPayment{
			ID: string(rune('a' + i)), DeliveryID: del.ID, Date: del.Date, Method: ledger.MethodNostro, Amount: amt,
		})
	}
	loan := ledger.NewLoan(d, date(t, "2024-01-01"), 60, nil)
	return &ledger.Book{Deals: []ledger.DealRecord{{
		Deal:          *d,
		CustomerName:  "Acme",
		CommodityName: "Maize",
		FinancierName: "Bank A",
		Deliveries:    []ledger.DeliveryRecord{rec},
		Loan: &ledger.LoanRecord{Loan: *loan, Repayments: []ledger.Repayment{
			{ID: "r1", LoanID: loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodCash, Amount: 1000000},
		}},
	}}}
}

func TestReceivablesRows(t *testing.T) {
	pending := ledger.DealRecord{Deal: *sampleDeal(t), CustomerName: "Acme"}
	pending.Deal.ID = "RP-0002"
	book := bookWithDelivery(t, 600000)
	book.Deals = append(book.Deals, pending)

	rows := ledger.ReceivablesRows(book)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, ledger.Money(1800000), r.InvoiceAmount)
	assert.Equal(t, ledger.Money(600000), r.AmountReceived)
	assert.Equal(t, ledger.Money(1200000), r.OutstandingBalance)
	assert.Equal(t, ledger.StatusPartPaid, r.Status)
	assert.True(t, decimal.NewFromInt(40).Equal(r.OutstandingStock))
	require.NotNil(t, r.DueDate)
	assert.Equal(t, date(t, "2024-02-19"), *r.DueDate)

	p := rows[1]
	assert.Equal(t, ledger.StatusPendingDelivery, p.Status)
	assert.Equal(t, "-", p.InvoiceNumber)
	assert.Equal(t, ledger.Money(0), p.InvoiceAmount)
	assert.True(t, decimal.NewFromInt(100).Equal(p.OutstandingStock))
}

func TestOpenInvoicesSkipsPaid(t *testing.T) {
	assert.Len(t, ledger.OpenInvoices(bookWithDelivery(t, 600000)), 1)
	assert.Empty(t, ledger.OpenInvoices(bookWithDelivery(t, 1000000, 800000)))
}

func TestFinancingRegister(t *testing.T) {
	book := bookWithDelivery(t)
	reg := ledger.FinancingRegister(book, date(t, "2024-03-11"))
	require.Len(t, reg, 1)
	lv := reg[0]
	assert.Equal(t, ledger.Money(1000000), lv.TotalRepaid)
	assert.Equal(t, ledger.Money(1500000), lv.OutstandingBalance)
	assert.Equal(t, 10, lv.DaysOverdue)
	assert.Equal(t, ledger.LoanOpen, lv.Status)
	assert.Equal(t, "Bank A", lv.FinancierName)

	book.Deals[0].Loan.Repayments = append(book.Deals[0].Loan.Repayments,
		ledger.Repayment{ID: "r2", Amount: 1500000, Method: ledger.MethodNostro})
	assert.Empty(t, ledger.OpenLoans(book, date(t, "2024-03-11")))
}
