package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/cache"
	"github.com/simonvc/tradebook/internal/coordinator"
	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/metrics"
	"github.com/simonvc/tradebook/internal/notify"
	"github.com/simonvc/tradebook/internal/server"
	"github.com/simonvc/tradebook/internal/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWithCache(t, cache.NewMemory(time.Minute))
}

func newTestServerWithCache(t *testing.T, c cache.Cache) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tradebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	broker := notify.NewBroker(nil)
	broker.Subscribe(cache.Evictor(c, server.CachedKeys, zap.NewNop()))
	m := metrics.New()

	coord := coordinator.New(st,
		coordinator.WithNotifier(broker),
		coordinator.WithMetrics(m),
		coordinator.WithRetryPolicy(coordinator.RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond}),
	)
	srv := server.New(coord, server.Options{Cache: c, Metrics: m, Health: st.Ping})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seed(t *testing.T, h http.Handler) {
	t.Helper()
	for path, name := range map[string]string{
		"/api/v1/commodities": "maize",
		"/api/v1/suppliers":   "farmco",
		"/api/v1/customers":   "acme",
		"/api/v1/financiers":  "bank-a",
	} {
		rec := do(t, h, http.MethodPost, path, api.MasterRequest{ID: name, Name: strings.ToUpper(name)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func dealRequest() api.DealRequest {
	return api.DealRequest{
		ID:                  "D1",
		Date:                "2024-01-01",
		CommodityID:         "maize",
		SupplierID:          "farmco",
		CustomerID:          "acme",
		SupplierPricePerTon: 20000,
		OfftakePricePerTon:  25000,
	}
}

func createDeal(t *testing.T, h http.Handler) {
	t.Helper()
	req := dealRequest()
	require.NoError(t, json.Unmarshal([]byte(`"100"`), &req.Quantity))
	rec := do(t, h, http.MethodPost, "/api/v1/deals", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func recordDelivery(t *testing.T, h http.Handler) ledger.Delivery {
	t.Helper()
	req := api.DeliveryRequest{
		DealID:         "D1",
		DeliveryFields: api.DeliveryFields{Date: "2024-01-10", InvoiceNumber: "INV-001"},
	}
	require.NoError(t, json.Unmarshal([]byte(`"100"`), &req.Quantity))
	rec := do(t, h, http.MethodPost, "/api/v1/deliveries", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[ledger.Delivery](t, rec)
}

// =============================================================================
// DEALS
// =============================================================================

func TestCreateAndGetDeal(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/deals/D1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deal := decode[ledger.DealView](t, rec)
	assert.Equal(t, ledger.Money(2000000), deal.CostValue)
	assert.Equal(t, "MAIZE", deal.CommodityName)

	rec = do(t, h, http.MethodGet, "/api/v1/deals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ledger.DealView](t, rec), 1)
}

func TestDuplicateDealIsConflict(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/deals", dealRequest())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ledger.KindDuplicateKey, decode[api.ErrorResponse](t, rec).Kind)
}

func TestValidationErrorNamesField(t *testing.T) {
	h := newTestServer(t)
	req := dealRequest()
	req.Date = "01/01/2024"

	rec := do(t, h, http.MethodPost, "/api/v1/deals", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, ledger.KindValidation, resp.Kind)
	assert.Contains(t, resp.Error, "date")
}

func TestInvalidJSON(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingDealIsNotFound(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/v1/deals/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ledger.KindNotFound, decode[api.ErrorResponse](t, rec).Kind)

	rec = do(t, h, http.MethodDelete, "/api/v1/deals/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecondDeliveryIsConflict(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)
	recordDelivery(t, h)

	req := api.DeliveryRequest{
		DealID:         "D1",
		DeliveryFields: api.DeliveryFields{Date: "2024-01-11", InvoiceNumber: "INV-002"},
	}
	require.NoError(t, json.Unmarshal([]byte(`"1"`), &req.Quantity))
	rec := do(t, h, http.MethodPost, "/api/v1/deliveries", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ledger.KindAlreadyExists, decode[api.ErrorResponse](t, rec).Kind)
}

// =============================================================================
// CACHED VIEWS
// =============================================================================

func TestReceivablesCacheEvictedByPayment(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)
	d := recordDelivery(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	rows := decode[[]ledger.ReceivablesRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusUnpaid, rows[0].Status)

	rec = do(t, h, http.MethodPost, "/api/v1/customer-payments", api.PaymentRequest{
		DeliveryID:    d.ID,
		PaymentFields: api.PaymentFields{Date: "2024-01-20", Method: "CASH", Amount: 1500000},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rows = decode[[]ledger.ReceivablesRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusPartPaid, rows[0].Status)
	assert.Equal(t, ledger.Money(1000000), rows[0].OutstandingBalance)
}

// interleavedCache runs beforeFill once, just before the first fill of view.
type interleavedCache struct {
	*cache.Memory
	view       ledger.View
	beforeFill func()
}

func (c *interleavedCache) Set(ctx context.Context, key string, v any) error {
	if c.beforeFill != nil && strings.HasPrefix(key, string(c.view)+"@") {
		fn := c.beforeFill
		c.beforeFill = nil
		fn()
	}
	return c.Memory.Set(ctx, key, v)
}

func TestPaymentDuringFillIsNotServedStale(t *testing.T) {
	c := &interleavedCache{Memory: cache.NewMemory(time.Minute), view: ledger.ViewReceivables}
	h := newTestServerWithCache(t, c)
	seed(t, h)
	createDeal(t, h)
	d := recordDelivery(t, h)

	c.beforeFill = func() {
		rec := do(t, h, http.MethodPost, "/api/v1/customer-payments", api.PaymentRequest{
			DeliveryID:    d.ID,
			PaymentFields: api.PaymentFields{Date: "2024-01-20", Method: "CASH", Amount: 2500000},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	// The first read loaded its rows before the payment committed.
	rec := do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rows := decode[[]ledger.ReceivablesRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusUnpaid, rows[0].Status)

	rec = do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rows = decode[[]ledger.ReceivablesRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusPaid, rows[0].Status)
	assert.Equal(t, ledger.Money(0), rows[0].OutstandingBalance)

	rec = do(t, h, http.MethodGet, "/api/v1/receivables", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestEmptyListsAreArrays(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{
		"/api/v1/deals",
		"/api/v1/receivables",
		"/api/v1/loans",
		"/api/v1/loans/open",
		"/api/v1/invoices/open",
		"/api/v1/customer-payments",
		"/api/v1/repayments",
		"/api/v1/cash-book",
	} {
		rec := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), path)
	}
}

// =============================================================================
// CASH BOOK, REPORTS, OPERATIONS
// =============================================================================

func TestCashBookLimit(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)
	d := recordDelivery(t, h)
	for _, amount := range []int64{100, 200, 300} {
		rec := do(t, h, http.MethodPost, "/api/v1/customer-payments", api.PaymentRequest{
			DeliveryID:    d.ID,
			PaymentFields: api.PaymentFields{Date: "2024-01-20", Method: "NOSTRO", Amount: amount},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, h, http.MethodGet, "/api/v1/cash-book?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]ledger.CashBookEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.Money(300), entries[0].BankIn)

	rec = do(t, h, http.MethodGet, "/api/v1/cash-book?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsSummary(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)
	createDeal(t, h)
	recordDelivery(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/reports/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[ledger.ReportsSummary](t, rec)
	assert.Equal(t, ledger.Money(2500000), s.PL.TotalRevenue)
	assert.Equal(t, ledger.Money(2500000), s.Receivables.OutstandingBalance)
}

func TestMasterData(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/master-data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	md := decode[ledger.MasterData](t, rec)
	assert.Len(t, md.Commodities, 1)
	assert.Len(t, md.Financiers, 1)

	rec = do(t, h, http.MethodPost, "/api/v1/customers", api.MasterRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[api.HealthResponse](t, rec).Status)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tradebook_operations_total")
}
