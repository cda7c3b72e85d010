package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/cache"
	"github.com/simonvc/tradebook/internal/config"
	"github.com/simonvc/tradebook/internal/coordinator"
	"github.com/simonvc/tradebook/internal/metrics"
	"github.com/simonvc/tradebook/internal/notify"
	"github.com/simonvc/tradebook/internal/server"
	"github.com/simonvc/tradebook/internal/store"
)

// backend is the store, coordinator and HTTP server wired together as
// both serve and the embedded TUI server need them.
type backend struct {
	store  *store.Store
	server *server.Server
	close  []func() error
}

func openBackend(cfg *config.Config, addr string, log *zap.Logger) (*backend, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	b := &backend{store: st, close: []func() error{st.Close}}

	views, err := openCache(cfg, log)
	if err != nil {
		b.Close()
		return nil, err
	}
	if r, ok := views.(*cache.Redis); ok {
		b.close = append(b.close, r.Close)
	}

	collectors := metrics.New()
	broker := notify.NewBroker(log.Named("notify"))
	broker.Subscribe(cache.Evictor(views, server.CachedKeys, log.Named("cache")))

	coord := coordinator.New(st,
		coordinator.WithRetryPolicy(coordinator.RetryPolicy{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
		}),
		coordinator.WithNotifier(broker),
		coordinator.WithLogger(log.Named("coordinator")),
		coordinator.WithMetrics(collectors),
		coordinator.WithCashBookLimit(cfg.CashBook.DefaultLimit),
	)

	b.server = server.New(coord, server.Options{
		Addr:             addr,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		Cache:            views,
		Metrics:          collectors,
		Logger:           log.Named("server"),
		Health:           st.Ping,
	})
	return b, nil
}

func openCache(cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		r, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		log.Info("view cache", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr()))
		return r, nil
	case "none":
		return cache.Nop{}, nil
	default:
		log.Debug("view cache", zap.String("backend", "memory"), zap.Duration("ttl", cfg.Cache.TTL))
		return cache.NewMemory(cfg.Cache.TTL), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (b *backend) Close() error {
	var first error
	for i := len(b.close) - 1; i >= 0; i-- {
		if err := b.close[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
