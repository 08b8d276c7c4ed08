package horrordb

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	host         string
	warehouseID  string
	token        string
	clientID     string
	clientSecret string

	index          string
	numResults     int
	maxQueryLength int
	maxConcurrent  int
	queueTimeout   time.Duration
	queryTimeout   time.Duration
	readiness      time.Duration

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWarehouse sets the workspace host and SQL warehouse id.
func WithWarehouse(host, warehouseID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.host = host
		c.warehouseID = warehouseID
	})
}

// WithToken authenticates with a personal access token.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithOAuthM2M authenticates as a service principal.
func WithOAuthM2M(clientID, clientSecret string) Option {
	return optionFunc(func(c *clientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	})
}

// WithIndex sets the vector search index (catalog.schema.index).
// Default: ashley_johnson.imdb.horror_movies_vs_index.
func WithIndex(index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = index
	})
}

// WithNumResults sets the result cap. Default: 3.
func WithNumResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.numResults = n
	})
}

// WithMaxQueryLength rejects queries longer than n runes. Default: 1024.
func WithMaxQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxQueryLength = n
	})
}

// WithConcurrency caps in-flight warehouse statements and bounds the wait for a free slot.
// Defaults: 4 statements, 30s.
func WithConcurrency(maxConcurrent int, queueTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrent = maxConcurrent
		c.queueTimeout = queueTimeout
	})
}

// WithQueryTimeout bounds a single warehouse statement. Default: 60s.
func WithQueryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryTimeout = d
	})
}

// WithReadinessCheck makes New wait up to timeout for the warehouse, and the cache if any, to answer.
// Serverless warehouses may need tens of seconds to start. Disabled by default.
func WithReadinessCheck(timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = timeout
	})
}

// WithRedisCache caches search results in Redis or Valkey for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
