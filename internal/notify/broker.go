// Package notify fans out read-view invalidations from the coordinator to
// any number of subscribers in the same process.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
)

// Handler receives the distinct views touched by one committed write.
type Handler func(ctx context.Context, views []ledger.View)

// Broker is safe for concurrent use. Handlers run synchronously, in
// subscription order, on the goroutine that committed the write.
type Broker struct {
	mu     sync.RWMutex
	next   int
	subs   map[int]Handler
	order  []int
	logger *zap.Logger
}

func NewBroker(logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{subs: make(map[int]Handler), logger: logger}
}

// Subscribe registers h and returns a function that removes it.
func (b *Broker) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Invalidate delivers views, with duplicates removed, to every subscriber.
func (b *Broker) Invalidate(ctx context.Context, views ...ledger.View) {
	views = dedupe(views)
	if len(views) == 0 {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	b.logger.Debug("invalidate views", zap.Any("views", views), zap.Int("subscribers", len(handlers)))
	for _, h := range handlers {
		h(ctx, views)
	}
}

func dedupe(views []ledger.View) []ledger.View {
	seen := make(map[ledger.View]bool, len(views))
	out := make([]ledger.View, 0, len(views))
	for _, v := range views {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
