package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/cache"
	"github.com/samarth-project/samarth/internal/datastore"
	"github.com/samarth-project/samarth/internal/service"
)

// serviceEnv holds the initialized data store, cache, and query service
// shared by the ask/serve/datasets/cache commands.
type serviceEnv struct {
	Store   *datastore.Store
	Cache   *cache.Cache
	Service *service.Service
}

// Close releases the cache snapshot store.
func (se *serviceEnv) Close() {
	if se.Cache != nil {
		_ = se.Cache.Close()
	}
}

// initService sets up the dataset registry, snapshot-backed response cache,
// and query service. Callers should defer env.Close().
func initService(ctx context.Context) (*serviceEnv, error) {
	registry := datastore.NewRegistry()
	if cfg.Data.RegistryFile != "" {
		if err := registry.LoadFile(cfg.Data.RegistryFile); err != nil {
			return nil, eris.Wrap(err, "load dataset registry")
		}
	}

	store := datastore.New(cfg.Data.Dir, cfg.Data.CacheDir, registry)

	snap, err := initSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	c := cache.New(snap, ttl, cfg.Cache.MaxEntries)
	c.Warm(ctx)

	return &serviceEnv{
		Store:   store,
		Cache:   c,
		Service: service.New(store, c),
	}, nil
}

// initSnapshot picks the cache snapshot driver from config. An unknown
// driver falls back to memory-only with a warning.
func initSnapshot(ctx context.Context) (cache.Snapshot, error) {
	switch cfg.Cache.Driver {
	case "sqlite":
		snap, err := cache.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite cache")
		}
		if err := snap.Migrate(ctx); err != nil {
			snap.Close()
			return nil, eris.Wrap(err, "migrate sqlite cache")
		}
		return snap, nil
	case "postgres":
		snap, err := cache.NewPostgres(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres cache")
		}
		if err := snap.Migrate(ctx); err != nil {
			snap.Close()
			return nil, eris.Wrap(err, "migrate postgres cache")
		}
		return snap, nil
	case "redis":
		ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
		snap, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisDB, ttl)
		if err != nil {
			return nil, eris.Wrap(err, "open redis cache")
		}
		return snap, nil
	case "none":
		return cache.NoopSnapshot{}, nil
	default:
		zap.L().Warn("unknown cache driver, using memory-only cache",
			zap.String("driver", cfg.Cache.Driver),
		)
		return cache.NoopSnapshot{}, nil
	}
}
