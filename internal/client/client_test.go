package client_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/coordinator"
	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/server"
	"github.com/simonvc/tradebook/internal/store"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tradebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := server.New(coordinator.New(st), server.Options{Health: st.Ping})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return client.New(ts.URL, 5*time.Second)
}

func TestClientRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	for kind, id := range map[string]string{
		"commodities": "maize",
		"suppliers":   "farmco",
		"customers":   "acme",
		"financiers":  "bank-a",
	} {
		require.NoError(t, c.CreateMaster(ctx, kind, api.MasterRequest{ID: id, Name: id}, nil))
	}

	deal, err := c.CreateDeal(ctx, api.DealRequest{
		ID:                    "D1",
		Date:                  "2024-01-01",
		CommodityID:           "maize",
		SupplierID:            "farmco",
		CustomerID:            "acme",
		FinancierID:           "bank-a",
		Quantity:              decimal.NewFromInt(100),
		SupplierPricePerTon:   20000,
		OfftakePricePerTon:    25000,
		PaymentTermsFinancier: func() *int { n := 60; return &n }(),
		DisbursementDate:      "2024-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, deal.Loan)

	_, err = c.RecordRepayment(ctx, api.RepaymentRequest{
		LoanID:          deal.Loan.ID,
		RepaymentFields: api.RepaymentFields{Date: "2024-02-01", Method: "CASH", Amount: 2000000},
	})
	require.NoError(t, err)

	loans, err := c.FinancingRegister(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, ledger.LoanClosed, loans[0].Status)

	entries, err := c.CashBook(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Money(2000000), entries[0].CashOut)
}

func TestClientTypedErrors(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.GetDeal(ctx, "missing")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))

	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	_, err = c.RecordPayment(ctx, api.PaymentRequest{DeliveryID: "x", PaymentFields: api.PaymentFields{
		Date: "2024-01-01", Method: "CASH", Amount: -5,
	}})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}
