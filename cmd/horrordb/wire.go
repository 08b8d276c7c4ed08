package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/asset"
	"github.com/kailas-cloud/horrordb/internal/config"
	"github.com/kailas-cloud/horrordb/internal/db"
	"github.com/kailas-cloud/horrordb/internal/db/databricks"
	dbRedis "github.com/kailas-cloud/horrordb/internal/db/redis"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
	"github.com/kailas-cloud/horrordb/internal/metrics"
	movierepo "github.com/kailas-cloud/horrordb/internal/repository/movie"
	"github.com/kailas-cloud/horrordb/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/horrordb/internal/usecase/health"
	searchuc "github.com/kailas-cloud/horrordb/internal/usecase/search"
)

// app holds the wired components shared by every command.
type app struct {
	warehouse db.Warehouse
	cache     db.Cache
	search    *searchuc.Service
	health    *healthuc.Service
}

// buildApp opens the warehouse and the optional cache, then wires services over them.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterDomainMetrics()

	warehouse, err := databricks.NewStore(databricks.Config{
		Host:         cfg.Warehouse.Host,
		Port:         cfg.Warehouse.Port,
		HTTPPath:     cfg.Warehouse.HTTPPath(),
		Token:        cfg.Warehouse.Token,
		ClientID:     cfg.Warehouse.ClientID,
		ClientSecret: cfg.Warehouse.ClientSecret,
		Catalog:      cfg.Warehouse.Catalog,
		Schema:       cfg.Warehouse.Schema,
		QueryTimeout: time.Duration(cfg.Warehouse.QueryTimeoutSec) * time.Second,
		MaxOpenConns: cfg.Warehouse.MaxConcurrentQueries,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create warehouse store: %w", err)
	}
	warehouse.WithMetrics(metrics.WarehouseQueryDuration, metrics.WarehouseQueriesTotal)

	var cache db.Cache
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			// the cache is optional; search still works against the warehouse
			logger.Warn("Result cache disabled", zap.Strings("addrs", cfg.Cache.Addrs), zap.Error(err))
		} else {
			cache = store
		}
	}

	return wireApp(ctx, cfg, warehouse, cache, logger)
}

// wireApp waits for the backends when wait_for_ready is set and builds repositories and services.
// cache may be nil. A cache that never becomes ready is closed and search runs uncached.
func wireApp(ctx context.Context, cfg config.Config, warehouse db.Warehouse, cache db.Cache, logger *zap.Logger) (*app, error) {
	if cfg.Warehouse.WaitForReady {
		timeout := time.Duration(cfg.Warehouse.ReadinessTimeoutSec) * time.Second
		if err := warehouse.WaitForReady(ctx, timeout); err != nil {
			if cache != nil {
				cache.Close()
			}
			_ = warehouse.Close()
			return nil, fmt.Errorf("warehouse not ready: %w", err)
		}
		logger.Info("Connected to warehouse", zap.String("host", cfg.Warehouse.Host))

		if cache != nil {
			if err := cache.WaitForReady(ctx, timeout); err != nil {
				logger.Warn("Result cache not ready, search runs uncached", zap.Error(err))
				cache.Close()
				cache = nil
			}
		}
	}

	a := &app{warehouse: warehouse}

	var searcher searchuc.Searcher = movierepo.New(warehouse, cfg.Search.Index)
	if cache != nil {
		a.cache = cache
		searcher = resultcache.New(
			searcher, cache, cfg.Search.Index,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.SearchCacheTotal, logger,
		)
	}

	a.search = searchuc.New(searcher, request.Limits{
		MaxResults:     cfg.Search.NumResults,
		MaxQueryLength: cfg.Search.MaxQueryLength,
	}, cfg.Warehouse.MaxConcurrentQueries, time.Duration(cfg.Warehouse.QueueTimeoutSec)*time.Second)

	// Pass nil interface (not typed nil pointer) when the cache is off.
	var cachePinger healthuc.Pinger
	if a.cache != nil {
		cachePinger = a.cache
	}
	a.health = healthuc.New(warehouse, cachePinger)

	return a, nil
}

// Close releases the warehouse pool and the cache client.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	_ = a.warehouse.Close()
}

// newHeaderLoader serves the header image from its directory on disk.
func newHeaderLoader(cfg config.PageConfig) *asset.Loader {
	dir, name := filepath.Split(filepath.Clean(cfg.HeaderImage))
	if dir == "" {
		dir = "."
	}
	return asset.NewLoader(os.DirFS(dir), name, time.Duration(cfg.ImageTTLSec)*time.Second).
		WithReadCounter(metrics.HeaderImageReadsTotal)
}

// loadHeader returns a loader for the header image, or nil when the image cannot be served,
// so the page omits it instead of linking a broken URL.
func loadHeader(cfg config.PageConfig, logger *zap.Logger) *asset.Loader {
	header := newHeaderLoader(cfg)
	if _, err := header.Load(); err != nil {
		logger.Warn("Header image unavailable, page renders without it",
			zap.String("path", cfg.HeaderImage), zap.Error(err))
		return nil
	}
	return header
}
