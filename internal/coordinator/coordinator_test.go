package coordinator_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/coordinator"
	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type recordingNotifier struct {
	calls [][]ledger.View
}

func (n *recordingNotifier) Invalidate(_ context.Context, views ...ledger.View) {
	n.calls = append(n.calls, views)
}

type fixture struct {
	c        *coordinator.Coordinator
	path     string
	notifier *recordingNotifier
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradebook.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{
		path:     path,
		notifier: &recordingNotifier{},
		clock:    date(t, "2024-01-15"),
	}
	f.c = coordinator.New(s,
		coordinator.WithNotifier(f.notifier),
		coordinator.WithRetryPolicy(coordinator.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}),
		coordinator.WithClock(func() time.Time { return f.clock }),
	)
	seedMasterData(t, f.c)
	return f
}

func seedMasterData(t *testing.T, c *coordinator.Coordinator) {
	t.Helper()
	ctx := context.Background()
	_, err := c.CreateCommodity(ctx, ledger.Commodity{ID: "maize", Name: "Maize"})
	require.NoError(t, err)
	_, err = c.CreateSupplier(ctx, ledger.Supplier{ID: "farmco", Name: "FarmCo"})
	require.NoError(t, err)
	_, err = c.CreateCustomer(ctx, ledger.Customer{ID: "acme", Name: "Acme"})
	require.NoError(t, err)
	_, err = c.CreateFinancier(ctx, ledger.Financier{ID: "bank-a", Name: "Bank A"})
	require.NoError(t, err)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ledger.ParseDate(s)
	require.NoError(t, err)
	return d
}

func intp(n int) *int { return &n }

// d1 is 100 t bought at 200.00 and sold at 250.00.
func d1(t *testing.T) ledger.DealInput {
	return ledger.DealInput{
		ID:                  "D1",
		Date:                date(t, "2024-01-01"),
		CommodityID:         "maize",
		SupplierID:          "farmco",
		CustomerID:          "acme",
		Quantity:            decimal.NewFromInt(100),
		SupplierPricePerTon: 20000,
		OfftakePricePerTon:  25000,
	}
}

// financed adds a 60 day loan disbursed on the deal date with a maturity
// value of 22,000.00.
func financed(t *testing.T) ledger.DealInput {
	in := d1(t)
	in.FinancierID = "bank-a"
	in.PaymentTermsFinancier = intp(60)
	disbursed := date(t, "2024-01-01")
	in.DisbursementDate = &disbursed
	maturity := ledger.Money(2200000)
	in.MaturityValue = &maturity
	return in
}

func deliverD1(t *testing.T, c *coordinator.Coordinator, qty int64) *ledger.Delivery {
	t.Helper()
	d, err := c.RecordDelivery(context.Background(), ledger.DeliveryInput{
		DealID:        "D1",
		Date:          date(t, "2024-01-10"),
		Quantity:      decimal.NewFromInt(qty),
		InvoiceNumber: "INV-001",
	})
	require.NoError(t, err)
	return d
}

func pay(t *testing.T, c *coordinator.Coordinator, deliveryID string, method ledger.PaymentMethod, amount ledger.Money) *ledger.CustomerPayment {
	t.Helper()
	p, err := c.RecordCustomerPayment(context.Background(), ledger.PaymentInput{
		DeliveryID: deliveryID,
		Date:       date(t, "2024-01-20"),
		Method:     method,
		Amount:     amount,
	})
	require.NoError(t, err)
	return p
}

// =============================================================================
// DEALS
// =============================================================================

func TestCreateDealComputesEconomics(t *testing.T) {
	f := newFixture(t)

	view, err := f.c.CreateDeal(context.Background(), d1(t))
	require.NoError(t, err)

	assert.Equal(t, ledger.Money(2000000), view.CostValue)
	assert.Equal(t, ledger.Money(2500000), view.ExpectedSalesValue)
	assert.Equal(t, ledger.Money(500000), view.ExpectedGrossMargin)
	assert.True(t, decimal.NewFromInt(20).Equal(view.ExpectedMarginPercentage))
	assert.Equal(t, ledger.DealOpen, view.Status)
	assert.Equal(t, "Maize", view.CommodityName)
	assert.Nil(t, view.Loan)
}

func TestCreateDealOpensLoan(t *testing.T) {
	f := newFixture(t)

	view, err := f.c.CreateDeal(context.Background(), financed(t))
	require.NoError(t, err)
	require.NotNil(t, view.Loan)

	assert.Equal(t, ledger.Money(2000000), view.Loan.Principal)
	assert.Equal(t, ledger.Money(2200000), view.Loan.RepaymentAmount)
	assert.Equal(t, date(t, "2024-03-01"), view.Loan.MaturityDate)
	assert.Equal(t, ledger.LoanOpen, view.Loan.Status)
	assert.Equal(t, "Bank A", view.FinancierName)
}

func TestCreateDealDuplicateLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	calls := len(f.notifier.calls)

	dup := financed(t)
	dup.Quantity = decimal.NewFromInt(999)
	_, err = f.c.CreateDeal(ctx, dup)
	require.ErrorIs(t, err, ledger.ErrDuplicateKey)

	deals, err := f.c.GetDeals(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(deals[0].Quantity))

	loans, err := f.c.GetFinancingRegister(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Len(t, f.notifier.calls, calls, "failed writes must not invalidate")
}

func TestCreateDealRejectsEarlyDisbursement(t *testing.T) {
	f := newFixture(t)

	in := financed(t)
	early := date(t, "2023-12-31")
	in.DisbursementDate = &early
	_, err := f.c.CreateDeal(context.Background(), in)
	require.ErrorIs(t, err, ledger.ErrValidation)
}

func TestCreateDealUnknownReference(t *testing.T) {
	f := newFixture(t)

	in := d1(t)
	in.CustomerID = "nobody"
	_, err := f.c.CreateDeal(context.Background(), in)

	var nf *ledger.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "customer", nf.Entity)
}

func TestUpdateDealRepricesDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)
	pay(t, f.c, d.ID, ledger.MethodCash, 2500000)

	in := d1(t)
	in.OfftakePricePerTon = 30000
	view, err := f.c.UpdateDeal(ctx, "D1", in)
	require.NoError(t, err)

	assert.Equal(t, ledger.Money(3000000), view.ExpectedSalesValue)
	require.NotNil(t, view.Delivery)
	assert.Equal(t, ledger.Money(3000000), view.Delivery.InvoiceAmount)
	assert.Equal(t, ledger.StatusPartPaid, view.Delivery.Status)
}

func TestUpdateDealCannotMovePastDisbursement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)

	in := financed(t)
	in.Date = date(t, "2024-02-01")
	_, err = f.c.UpdateDeal(ctx, "D1", in)
	require.ErrorIs(t, err, ledger.ErrValidation)
}

func TestDeleteDealCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)
	pay(t, f.c, d.ID, ledger.MethodCash, 1000000)
	_, err = f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodNostro, Amount: 500000,
	})
	require.NoError(t, err)

	require.NoError(t, f.c.DeleteDeal(ctx, "D1"))

	_, err = f.c.GetDeal(ctx, "D1")
	require.ErrorIs(t, err, ledger.ErrNotFound)
	payments, err := f.c.ListCustomerPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
	repayments, err := f.c.ListRepayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, repayments)

	// postings are never retracted
	entries, err := f.c.GetCashBook(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, ledger.DealDeleteViews, f.notifier.calls[len(f.notifier.calls)-1])
}

func TestDeleteDealNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.c.DeleteDeal(context.Background(), "nope")
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

// =============================================================================
// DELIVERIES AND PAYMENTS
// =============================================================================

func TestReceiptsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)

	d := deliverD1(t, f.c, 100)
	assert.Equal(t, ledger.Money(2500000), d.InvoiceAmount)
	assert.Equal(t, ledger.StatusUnpaid, d.Status)

	pay(t, f.c, d.ID, ledger.MethodCash, 1500000)
	view, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPartPaid, view.Delivery.Status)

	entries, err := f.c.GetCashBook(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Money(1500000), entries[0].CashIn)
	assert.Zero(t, entries[0].BankIn)
	assert.Equal(t, ledger.CategoryTradeReceipts, entries[0].Category)
	assert.Equal(t, "Customer Payment - Acme - INV-001", entries[0].Description)
	assert.Equal(t, "D1", entries[0].DealID)

	pay(t, f.c, d.ID, ledger.MethodNostro, 1000000)
	view, err = f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, view.Delivery.Status)

	entries, err = f.c.GetCashBook(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.Money(1000000), entries[0].BankIn)

	rows, err := f.c.GetReceivablesRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].OutstandingBalance)

	open, err := f.c.GetOpenInvoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	assert.Equal(t, ledger.PaymentViews, f.notifier.calls[len(f.notifier.calls)-1])
}

func TestRecordDeliveryOncePerDeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	deliverD1(t, f.c, 50)

	_, err = f.c.RecordDelivery(ctx, ledger.DeliveryInput{
		DealID: "D1", Date: date(t, "2024-01-11"), Quantity: decimal.NewFromInt(50), InvoiceNumber: "INV-002",
	})
	require.ErrorIs(t, err, ledger.ErrAlreadyExists)
}

func TestRecordDeliveryUnknownDeal(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.RecordDelivery(context.Background(), ledger.DeliveryInput{
		DealID: "missing", Date: date(t, "2024-01-11"), Quantity: decimal.NewFromInt(1), InvoiceNumber: "INV-9",
	})
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeliveryTooLargeToInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	_, err = f.c.RecordDelivery(ctx, ledger.DeliveryInput{
		DealID:        "D1",
		Date:          date(t, "2024-01-10"),
		Quantity:      decimal.RequireFromString("100000000000000000"),
		InvoiceNumber: "INV-001",
	})
	require.ErrorIs(t, err, ledger.ErrValidation)

	view, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Nil(t, view.Delivery)
}

func TestUpdateDeliveryRecomputesInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)
	pay(t, f.c, d.ID, ledger.MethodCash, 1500000)

	updated, err := f.c.UpdateDelivery(ctx, d.ID, ledger.DeliveryInput{
		Date: date(t, "2024-01-12"), Quantity: decimal.NewFromInt(60), InvoiceNumber: "INV-001A",
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.Money(1500000), updated.InvoiceAmount)
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.Equal(t, "D1", updated.DealID)
}

func TestPaymentEditsRecomputeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)
	p := pay(t, f.c, d.ID, ledger.MethodCash, 2500000)

	_, err = f.c.UpdateCustomerPayment(ctx, p.ID, ledger.PaymentInput{
		Date: date(t, "2024-01-21"), Method: ledger.MethodCash, Amount: 1000,
	})
	require.NoError(t, err)
	view, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPartPaid, view.Delivery.Status)

	require.NoError(t, f.c.DeleteCustomerPayment(ctx, p.ID))
	view, err = f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusUnpaid, view.Delivery.Status)

	// the posting of the original receipt stays in the cash book
	entries, err := f.c.GetCashBook(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Money(2500000), entries[0].CashIn)
}

func TestPaymentRollsBackWhenPostingFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, d1(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)

	db, err := sql.Open("sqlite", f.path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TRIGGER fail_posting BEFORE INSERT ON cash_book
		BEGIN SELECT RAISE(ABORT, 'injected'); END`)
	require.NoError(t, err)

	_, err = f.c.RecordCustomerPayment(ctx, ledger.PaymentInput{
		DeliveryID: d.ID, Date: date(t, "2024-01-20"), Method: ledger.MethodCash, Amount: 1500000,
	})
	require.Error(t, err)

	payments, err := f.c.ListCustomerPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	view, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusUnpaid, view.Delivery.Status)
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.RecordCustomerPayment(context.Background(), ledger.PaymentInput{
		DeliveryID: "x", Date: date(t, "2024-01-20"), Method: ledger.MethodCash, Amount: 0,
	})
	require.ErrorIs(t, err, ledger.ErrValidation)
}

// =============================================================================
// LOANS AND REPAYMENTS
// =============================================================================

func TestRepaymentClosesLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)

	_, err = f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-04-01"), Method: ledger.MethodNostro, Amount: 2200000,
	})
	require.NoError(t, err)

	f.clock = date(t, "2024-04-01")
	loans, err := f.c.GetFinancingRegister(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, ledger.LoanClosed, loans[0].Status)
	assert.Zero(t, loans[0].OutstandingBalance)
	assert.Zero(t, loans[0].DaysOverdue)

	open, err := f.c.GetOpenLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	entries, err := f.c.GetCashBook(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Money(2200000), entries[0].BankOut)
	assert.Equal(t, ledger.CategoryLoanRepayment, entries[0].Category)
	assert.Equal(t, "Loan Repayment to Bank A (Ref: D1)", entries[0].Description)
}

func TestUnpaidLoanOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)

	f.clock = date(t, "2024-03-11")
	loans, err := f.c.GetOpenLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 10, loans[0].DaysOverdue)
	assert.Equal(t, ledger.LoanOpen, loans[0].Status)
}

func TestUpdateLoanRecomputesMaturity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	_, err = f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodCash, Amount: 2000000,
	})
	require.NoError(t, err)

	loan, err := f.c.UpdateLoan(ctx, view.Loan.ID, ledger.LoanUpdate{
		DisbursementDate: date(t, "2024-01-05"),
		PaymentTerms:     30,
		Principal:        2000000,
		RepaymentAmount:  2000000,
	})
	require.NoError(t, err)
	assert.Equal(t, date(t, "2024-02-04"), loan.MaturityDate)
	assert.Equal(t, ledger.LoanClosed, loan.Status)

	_, err = f.c.UpdateLoan(ctx, view.Loan.ID, ledger.LoanUpdate{
		DisbursementDate: date(t, "2023-12-01"), PaymentTerms: 30, Principal: 1, RepaymentAmount: 1,
	})
	require.ErrorIs(t, err, ledger.ErrValidation)
}

func TestUpdateLoanZeroRepaymentKeepsLoanOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)

	loan, err := f.c.UpdateLoan(ctx, view.Loan.ID, ledger.LoanUpdate{
		DisbursementDate: date(t, "2024-01-01"),
		PaymentTerms:     60,
		Principal:        2000000,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.Money(2000000), loan.RepaymentAmount)
	assert.Equal(t, ledger.LoanOpen, loan.Status)
}

func TestRepaymentEditsRecomputeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	r, err := f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodCash, Amount: 2200000,
		SourceOfFunding: "  sales proceeds ",
	})
	require.NoError(t, err)
	assert.Equal(t, "sales proceeds", r.SourceOfFunding)

	_, err = f.c.UpdateRepayment(ctx, r.ID, ledger.RepaymentInput{
		Date: date(t, "2024-02-01"), Method: ledger.MethodCash, Amount: 100000,
	})
	require.NoError(t, err)
	got, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.LoanOpen, got.Loan.Status)

	require.NoError(t, f.c.DeleteRepayment(ctx, r.ID))
	repayments, err := f.c.ListRepayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, repayments)
}

func TestDeleteLoanRemovesRepayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	_, err = f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodCash, Amount: 100,
	})
	require.NoError(t, err)

	require.NoError(t, f.c.DeleteLoan(ctx, view.Loan.ID))

	got, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Nil(t, got.Loan)
	repayments, err := f.c.ListRepayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, repayments)
}

func TestMoneyWritesInvalidateDealList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	last := func() []ledger.View { return f.notifier.calls[len(f.notifier.calls)-1] }

	view, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 100)

	p := pay(t, f.c, d.ID, ledger.MethodCash, 1000000)
	assert.Equal(t, []ledger.View{
		ledger.ViewDeals, ledger.ViewReceivables, ledger.ViewCustomerPayments, ledger.ViewCashBook, ledger.ViewReports,
	}, last())

	_, err = f.c.UpdateCustomerPayment(ctx, p.ID, ledger.PaymentInput{
		Date: date(t, "2024-01-21"), Method: ledger.MethodCash, Amount: 2500000,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.View{
		ledger.ViewDeals, ledger.ViewReceivables, ledger.ViewCustomerPayments, ledger.ViewReports,
	}, last())

	r, err := f.c.RecordRepayment(ctx, ledger.RepaymentInput{
		LoanID: view.Loan.ID, Date: date(t, "2024-02-01"), Method: ledger.MethodNostro, Amount: 2200000,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.View{
		ledger.ViewDeals, ledger.ViewFinancing, ledger.ViewRepayments, ledger.ViewCashBook, ledger.ViewReports,
	}, last())

	_, err = f.c.UpdateRepayment(ctx, r.ID, ledger.RepaymentInput{
		Date: date(t, "2024-02-01"), Method: ledger.MethodNostro, Amount: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.View{
		ledger.ViewDeals, ledger.ViewFinancing, ledger.ViewRepayments, ledger.ViewReports,
	}, last())

	got, err := f.c.GetDeal(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, got.Delivery.Status)
	assert.Equal(t, ledger.LoanOpen, got.Loan.Status)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestReportsSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.c.CreateDeal(ctx, financed(t))
	require.NoError(t, err)
	d := deliverD1(t, f.c, 60)
	pay(t, f.c, d.ID, ledger.MethodCash, 500000)

	s, err := f.c.GetReportsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Money(1500000), s.PL.TotalRevenue)
	assert.Equal(t, ledger.Money(1200000), s.PL.TotalCOGS)
	assert.Equal(t, ledger.Money(300000), s.PL.GrossProfit)
	assert.True(t, decimal.NewFromInt(40).Equal(s.Inventory.TotalOutstanding))
	assert.Equal(t, ledger.Money(800000), s.Inventory.StockValueAtCost)
	assert.Equal(t, ledger.Money(1000000), s.Receivables.OutstandingBalance)
	assert.Equal(t, ledger.Money(2000000), s.Debt.OutstandingPrincipal)
	assert.Equal(t, f.clock, s.AsOf)
}

// =============================================================================
// RETRIES
// =============================================================================

func TestTransientFailureIsRetried(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO commodities").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO commodities").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	notifier := &recordingNotifier{}
	c := coordinator.New(store.NewWithDB(db, db),
		coordinator.WithNotifier(notifier),
		coordinator.WithRetryPolicy(coordinator.RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}),
	)
	got, err := c.CreateCommodity(context.Background(), ledger.Commodity{ID: "maize", Name: "Maize"})
	require.NoError(t, err)
	assert.Equal(t, "maize", got.ID)
	assert.Equal(t, [][]ledger.View{ledger.MasterDataViews}, notifier.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransientFailureSurfacesAfterRetries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO commodities").WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()
	}

	c := coordinator.New(store.NewWithDB(db, db),
		coordinator.WithRetryPolicy(coordinator.RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond}),
	)
	_, err = c.CreateCommodity(context.Background(), ledger.Commodity{ID: "maize", Name: "Maize"})
	require.Error(t, err)
	assert.True(t, ledger.IsTransient(err))
	assert.Equal(t, ledger.KindTransient, ledger.Kind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
