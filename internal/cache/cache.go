// Package cache stores serialized read views keyed by view name. Entries are
// evicted when the coordinator signals that a write touched the view, and
// expire after a TTL regardless.
package cache

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/ledger"
	"github.com/simonvc/tradebook/internal/notify"
)

// Cache is implemented by Memory, Redis and Nop.
type Cache interface {
	// Get decodes the entry for key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error

	// Generation returns the current generation of key. Bump advances the
	// generation of every key, orphaning entries stored under an older one.
	Generation(ctx context.Context, key string) (uint64, error)
	Bump(ctx context.Context, keys ...string) error
}

// Versioned stamps key with its current generation. A fill stored under the
// stamped key is never read once an eviction has bumped the generation, even
// if the fill lands after the eviction.
func Versioned(ctx context.Context, c Cache, key string) (string, error) {
	gen, err := c.Generation(ctx, key)
	if err != nil {
		return "", err
	}
	return stamp(key, gen), nil
}

func stamp(key string, gen uint64) string {
	return key + "@" + strconv.FormatUint(gen, 10)
}

// Key namespaces a view with an optional qualifier such as a limit.
func Key(view ledger.View, qualifier string) string {
	if qualifier == "" {
		return string(view)
	}
	return string(view) + ":" + qualifier
}

// Evictor returns a notify handler that bumps the generation of every
// invalidated view. Qualified keys are tracked by the caller through keys.
func Evictor(c Cache, keys func(ledger.View) []string, logger *zap.Logger) notify.Handler {
	return func(ctx context.Context, views []ledger.View) {
		var all []string
		for _, v := range views {
			all = append(all, string(v))
			if keys != nil {
				all = append(all, keys(v)...)
			}
		}
		if err := c.Bump(ctx, all...); err != nil {
			logger.Warn("cache eviction failed", zap.Strings("keys", all), zap.Error(err))
		}
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Delete(context.Context, ...string) error        { return nil }

func (Nop) Generation(context.Context, string) (uint64, error) { return 0, nil }
func (Nop) Bump(context.Context, ...string) error              { return nil }
