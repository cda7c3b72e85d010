package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/notify"
)

func TestBrokerFanOut(t *testing.T) {
	b := notify.NewBroker(nil)

	var first, second [][]ledger.View
	b.Subscribe(func(_ context.Context, v []ledger.View) { first = append(first, v) })
	unsub := b.Subscribe(func(_ context.Context, v []ledger.View) { second = append(second, v) })

	b.Invalidate(context.Background(), ledger.ViewReports, ledger.ViewCashBook, ledger.ViewReports)
	assert.Equal(t, [][]ledger.View{{ledger.ViewReports, ledger.ViewCashBook}}, first)
	assert.Len(t, second, 1)

	unsub()
	b.Invalidate(context.Background(), ledger.ViewDeals)
	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
}

func TestBrokerIgnoresEmpty(t *testing.T) {
	b := notify.NewBroker(nil)
	called := false
	b.Subscribe(func(context.Context, []ledger.View) { called = true })
	b.Invalidate(context.Background())
	assert.False(t, called)
}
