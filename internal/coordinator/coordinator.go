// Package coordinator runs every ledger write as a single store transaction,
// retried on transient storage failures, and announces which read views a
// committed write made stale. It also assembles the read side from one
// consistent snapshot.
package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/metrics"
	"github.com/simonvc/tradebook/internal/store"
)

const DefaultCashBookLimit = 500

// Notifier is told which views a committed write touched.
type Notifier interface {
	Invalidate(ctx context.Context, views ...ledger.View)
}

type nopNotifier struct{}

func (nopNotifier) Invalidate(context.Context, ...ledger.View) {}

type Coordinator struct {
	store         *store.Store
	retry         RetryPolicy
	notifier      Notifier
	logger        *zap.Logger
	metrics       *metrics.Collectors
	now           func() time.Time
	cashBookLimit int
}

type Option func(*Coordinator)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Coordinator) { c.retry = p }
}

func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock sets the clock used for overdue calculations.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithCashBookLimit sets how many postings GetCashBook returns when the
// caller asks for no particular limit.
func WithCashBookLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.cashBookLimit = n
		}
	}
}

func New(s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:         s,
		retry:         DefaultRetryPolicy(),
		notifier:      nopNotifier{},
		logger:        zap.NewNop(),
		now:           time.Now,
		cashBookLimit: DefaultCashBookLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// write runs fn in one transaction, retrying the whole unit on transient
// failure. fn may run more than once and must not keep state between runs.
func (c *Coordinator) write(ctx context.Context, op string, views []ledger.View, fn func(q *store.Queries) error) error {
	start := time.Now()
	err := c.retry.Do(ctx, func() error {
		return c.store.WithTx(ctx, fn)
	}, c.onRetry(op))
	c.metrics.ObserveOperation(op, time.Since(start), err)

	if err != nil {
		c.logFailure(op, err)
		return err
	}
	c.notifier.Invalidate(ctx, views...)
	return nil
}

// read runs fn against one snapshot with the same retry policy as writes.
func (c *Coordinator) read(ctx context.Context, op string, fn func(q *store.Queries) error) error {
	err := c.retry.Do(ctx, func() error {
		return c.store.Snapshot(ctx, fn)
	}, c.onRetry(op))
	if err != nil {
		c.logFailure(op, err)
	}
	return err
}

func (c *Coordinator) onRetry(op string) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		c.metrics.Retry(op)
		c.logger.Warn("transient storage failure, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) logFailure(op string, err error) {
	if ledger.IsDomain(err) {
		c.logger.Debug("operation rejected", zap.String("op", op), zap.Error(err))
		return
	}
	c.logger.Error("operation failed", zap.String("op", op), zap.Error(err))
}

// book loads every deal with its children from one snapshot.
func (c *Coordinator) book(ctx context.Context, op string) (*ledger.Book, error) {
	var book *ledger.Book
	err := c.read(ctx, op, func(q *store.Queries) error {
		var err error
		book, err = q.LoadBook(ctx)
		return err
	})
	return book, err
}
