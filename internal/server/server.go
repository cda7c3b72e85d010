package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/cache"
	"github.com/simonvc/tradebook/internal/coordinator"
	"github.com/simonvc/tradebook/internal/metrics"
)

type Options struct {
	Addr             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string

	// Cache holds report, receivables and financing responses. Nil disables
	// caching.
	Cache   cache.Cache
	Metrics *metrics.Collectors
	Logger  *zap.Logger
	// Health is called by /healthz. Nil always reports ok.
	Health func(context.Context) error
}

type Server struct {
	coord    *coordinator.Coordinator
	cache    cache.Cache
	metrics  *metrics.Collectors
	logger   *zap.Logger
	health   func(context.Context) error
	validate *api.Validator
	router   chi.Router
	http     *http.Server
}

func New(coord *coordinator.Coordinator, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	if len(opts.CORSAllowOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	s := &Server{
		coord:    coord,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		health:   opts.Health,
		validate: api.NewValidator(),
		router:   r,
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Deals
		r.Get("/deals", s.listDeals)
		r.Post("/deals", s.createDeal)
		r.Get("/deals/{id}", s.getDeal)
		r.Put("/deals/{id}", s.updateDeal)
		r.Delete("/deals/{id}", s.deleteDeal)

		// Deliveries and receivables
		r.Post("/deliveries", s.recordDelivery)
		r.Put("/deliveries/{id}", s.updateDelivery)
		r.Delete("/deliveries/{id}", s.deleteDelivery)
		r.Get("/receivables", s.receivables)
		r.Get("/invoices/open", s.openInvoices)

		// Customer payments
		r.Get("/customer-payments", s.listPayments)
		r.Post("/customer-payments", s.recordPayment)
		r.Put("/customer-payments/{id}", s.updatePayment)
		r.Delete("/customer-payments/{id}", s.deletePayment)

		// Financing
		r.Get("/loans", s.financingRegister)
		r.Get("/loans/open", s.openLoans)
		r.Put("/loans/{id}", s.updateLoan)
		r.Delete("/loans/{id}", s.deleteLoan)
		r.Get("/repayments", s.listRepayments)
		r.Post("/repayments", s.recordRepayment)
		r.Put("/repayments/{id}", s.updateRepayment)
		r.Delete("/repayments/{id}", s.deleteRepayment)

		// Cash book and reports
		r.Get("/cash-book", s.cashBook)
		r.Get("/reports/summary", s.reportsSummary)

		// Master data
		r.Get("/master-data", s.masterData)
		r.Post("/commodities", s.createCommodity)
		r.Post("/suppliers", s.createSupplier)
		r.Post("/customers", s.createCustomer)
		r.Post("/financiers", s.createFinancier)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("tradebook server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("tradebook server listening", zap.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// requestLogger logs one line per request at debug level, or at warn for
// server errors.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("request", fields...)
				return
			}
			logger.Debug("request", fields...)
		})
	}
}
