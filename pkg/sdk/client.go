package horrordb

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/config"
	"github.com/kailas-cloud/horrordb/internal/db/databricks"
	dbRedis "github.com/kailas-cloud/horrordb/internal/db/redis"
	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
	movierepo "github.com/kailas-cloud/horrordb/internal/repository/movie"
	"github.com/kailas-cloud/horrordb/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/horrordb/internal/usecase/health"
	searchuc "github.com/kailas-cloud/horrordb/internal/usecase/search"
)

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]movie.Movie, error)
	Limits() request.Limits
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the horrordb SDK entry point.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	closers   []func()
	obs       *observer
}

// New creates a Client. No network call is made unless WithReadinessCheck or WithRedisCache is used.
// WithReadinessCheck waits for the warehouse and, when configured, the cache.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	appCfg := cfg.toConfig()
	if err := appCfg.Validate(); err != nil {
		return nil, fmt.Errorf("horrordb: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	warehouse, err := databricks.NewStore(databricks.Config{
		Host:         appCfg.Warehouse.Host,
		Port:         appCfg.Warehouse.Port,
		HTTPPath:     appCfg.Warehouse.HTTPPath(),
		Token:        appCfg.Warehouse.Token,
		ClientID:     appCfg.Warehouse.ClientID,
		ClientSecret: appCfg.Warehouse.ClientSecret,
		QueryTimeout: time.Duration(appCfg.Warehouse.QueryTimeoutSec) * time.Second,
		MaxOpenConns: appCfg.Warehouse.MaxConcurrentQueries,
	}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("horrordb: create warehouse store: %w", err)
	}

	if cfg.readiness > 0 {
		if err := warehouse.WaitForReady(ctx, cfg.readiness); err != nil {
			_ = warehouse.Close()
			return nil, fmt.Errorf("horrordb: warehouse not ready: %w", err)
		}
	}

	c := &Client{obs: obs}
	c.closers = append(c.closers, func() { _ = warehouse.Close() })

	var searcher searchuc.Searcher = movierepo.New(warehouse, appCfg.Search.Index)
	var cachePinger healthuc.Pinger
	if appCfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    appCfg.Cache.Addrs,
			Password: appCfg.Cache.Password,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("horrordb: create cache store: %w", err)
		}
		c.closers = append(c.closers, cache.Close)
		if cfg.readiness > 0 {
			if err := cache.WaitForReady(ctx, cfg.readiness); err != nil {
				c.Close()
				return nil, fmt.Errorf("horrordb: cache not ready: %w", err)
			}
		}
		cachePinger = cache
		searcher = resultcache.New(
			searcher, cache, appCfg.Search.Index,
			time.Duration(appCfg.Cache.TTLSec)*time.Second, nil, zap.NewNop(),
		)
	}

	c.searchSvc = searchuc.New(searcher, request.Limits{
		MaxResults:     appCfg.Search.NumResults,
		MaxQueryLength: appCfg.Search.MaxQueryLength,
	}, appCfg.Warehouse.MaxConcurrentQueries, time.Duration(appCfg.Warehouse.QueueTimeoutSec)*time.Second)
	c.healthSvc = healthuc.New(warehouse, cachePinger)

	return c, nil
}

// toConfig maps options onto the service configuration so both share defaults and validation.
func (c *clientConfig) toConfig() config.Config {
	cfg := config.Config{
		Warehouse: config.WarehouseConfig{
			Host:                 c.host,
			WarehouseID:          c.warehouseID,
			Token:                c.token,
			ClientID:             c.clientID,
			ClientSecret:         c.clientSecret,
			QueryTimeoutSec:      seconds(c.queryTimeout),
			MaxConcurrentQueries: c.maxConcurrent,
			QueueTimeoutSec:      seconds(c.queueTimeout),
		},
		Search: config.SearchConfig{
			Index:          c.index,
			NumResults:     c.numResults,
			MaxQueryLength: c.maxQueryLength,
		},
		Cache: config.CacheConfig{
			Enabled:  len(c.cacheAddrs) > 0,
			Addrs:    c.cacheAddrs,
			Password: c.cachePassword,
			TTLSec:   seconds(c.cacheTTL),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	if s := int(d / time.Second); s > 0 {
		return s
	}
	return 1
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Search returns movies similar to query. opts may be nil.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (_ []Movie, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}
	req, err := request.New(query, limit, c.searchSvc.Limits())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	movies, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return moviesFromDomain(movies), nil
}
