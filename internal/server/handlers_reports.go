package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/cache"
	"github.com/simonvc/tradebook/internal/ledger"
)

const cacheHeader = "X-Cache"

// Cache keys that are derived from a view but not equal to its name.
var (
	openInvoicesKey = cache.Key(ledger.ViewReceivables, "open")
	openLoansKey    = cache.Key(ledger.ViewFinancing, "open")
)

// CachedKeys lists the qualified cache keys served for view, so that
// invalidating the view can evict them too.
func CachedKeys(view ledger.View) []string {
	switch view {
	case ledger.ViewReceivables:
		return []string{openInvoicesKey}
	case ledger.ViewFinancing:
		return []string{openLoansKey}
	}
	return nil
}

// cached serves key from the cache, or loads and stores it. The entry is
// stored under the generation read before loading, so a write that commits
// during the load leaves the fill unreachable. Cache failures degrade to an
// uncached response.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, key string, load func(context.Context) (any, error)) {
	ctx := r.Context()
	vkey, err := cache.Versioned(ctx, s.cache, key)
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.String("key", key), zap.Error(err))
	}
	if vkey != "" {
		var raw json.RawMessage
		ok, err := s.cache.Get(ctx, vkey, &raw)
		if err != nil {
			s.logger.Warn("cache read failed", zap.String("key", vkey), zap.Error(err))
		}
		if ok {
			w.Header().Set(cacheHeader, "HIT")
			writeJSON(w, http.StatusOK, raw)
			return
		}
	}

	v, err := load(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if vkey != "" {
		if err := s.cache.Set(ctx, vkey, v); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", vkey), zap.Error(err))
		}
	}
	w.Header().Set(cacheHeader, "MISS")
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) receivables(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, string(ledger.ViewReceivables), func(ctx context.Context) (any, error) {
		rows, err := s.coord.GetReceivablesRows(ctx)
		return orEmpty(rows), err
	})
}

func (s *Server) openInvoices(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, openInvoicesKey, func(ctx context.Context) (any, error) {
		invoices, err := s.coord.GetOpenInvoices(ctx)
		return orEmpty(invoices), err
	})
}

func (s *Server) financingRegister(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, string(ledger.ViewFinancing), func(ctx context.Context) (any, error) {
		loans, err := s.coord.GetFinancingRegister(ctx)
		return orEmpty(loans), err
	})
}

func (s *Server) openLoans(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, openLoansKey, func(ctx context.Context) (any, error) {
		loans, err := s.coord.GetOpenLoans(ctx)
		return orEmpty(loans), err
	})
}

func (s *Server) reportsSummary(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, string(ledger.ViewReports), func(ctx context.Context) (any, error) {
		return s.coord.GetReportsSummary(ctx)
	})
}

func (s *Server) cashBook(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", ledger.KindValidation)
			return
		}
		limit = n
	}
	entries, err := s.coord.GetCashBook(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(entries))
}
