package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/metrics"
)

func TestObserveOperation(t *testing.T) {
	m := metrics.New()
	m.ObserveOperation("create_deal", 10*time.Millisecond, nil)
	m.ObserveOperation("create_deal", 5*time.Millisecond, &ledger.DuplicateKeyError{Entity: "deal", Key: "RP-1"})
	m.Retry("create_deal")
	m.Retry("create_deal")

	for name, want := range map[string]int{
		"tradebook_operation_duration_seconds": 1,
		"tradebook_operations_total":           2,
		"tradebook_retries_total":              1,
	} {
		got, err := testutil.GatherAndCount(m.Registry(), name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestPostedAndHandler(t *testing.T) {
	m := metrics.New()
	m.Posted(ledger.CashBookEntry{Category: ledger.CategoryTradeReceipts, BankIn: 1500})
	m.Posted(ledger.CashBookEntry{Category: ledger.CategoryLoanRepayment, CashOut: 700})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tradebook_cash_book_minor_units_total{category="Trade Receipts",direction="in"} 1500`)
	assert.Contains(t, string(body), `tradebook_cash_book_minor_units_total{category="Loan Repayment",direction="out"} 700`)
}

func TestNilCollectorsIsNoop(t *testing.T) {
	var m *metrics.Collectors
	assert.NotPanics(t, func() {
		m.ObserveOperation("x", time.Second, nil)
		m.Retry("x")
		m.Posted(ledger.CashBookEntry{CashIn: 1})
	})
}
