// Package databricks executes statements against a Databricks SQL warehouse through database/sql.
package databricks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/databricks/databricks-sql-go/auth/oauth/m2m"
	"github.com/databricks/databricks-sql-go/driverctx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/db"
	"github.com/kailas-cloud/horrordb/internal/domain"
)

// Compile-time check: Store implements db.Warehouse.
var _ db.Warehouse = (*Store)(nil)

const userAgentEntry = "horrordb"

// Config holds connection parameters for a SQL warehouse.
// Token selects personal access token auth; otherwise ClientID/ClientSecret select OAuth M2M.
type Config struct {
	Host         string
	Port         int
	HTTPPath     string
	Token        string
	ClientID     string
	ClientSecret string
	Catalog      string
	Schema       string
	QueryTimeout time.Duration
	MaxOpenConns int
}

// Store implements db.Warehouse over a database/sql pool.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
	logger       *zap.Logger

	queryDuration *prometheus.HistogramVec
	queriesTotal  *prometheus.CounterVec
}

// NewStore creates a warehouse store. No network call is made until the first query or ping.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.HTTPPath == "" {
		return nil, fmt.Errorf("http path is required")
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(cfg.Host),
		dbsql.WithHTTPPath(cfg.HTTPPath),
		dbsql.WithUserAgentEntry(userAgentEntry),
	}
	if cfg.Port > 0 {
		opts = append(opts, dbsql.WithPort(cfg.Port))
	}
	switch {
	case cfg.Token != "":
		opts = append(opts, dbsql.WithAccessToken(cfg.Token))
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		opts = append(opts, dbsql.WithAuthenticator(m2m.NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.Host)))
	default:
		return nil, fmt.Errorf("token or client credentials are required")
	}
	if cfg.Catalog != "" || cfg.Schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(cfg.Catalog, cfg.Schema))
	}
	if cfg.QueryTimeout > 0 {
		opts = append(opts, dbsql.WithTimeout(cfg.QueryTimeout))
	}

	connector, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	pool := sql.OpenDB(connector)
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	return newStore(pool, cfg.QueryTimeout, logger), nil
}

func newStore(pool *sql.DB, queryTimeout time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: pool, queryTimeout: queryTimeout, logger: logger}
}

// WithMetrics attaches a duration histogram (label "status") and a counter (label "status").
func (s *Store) WithMetrics(duration *prometheus.HistogramVec, total *prometheus.CounterVec) *Store {
	s.queryDuration = duration
	s.queriesTotal = total
	return s
}

// Query executes stmt and fetches the whole result set.
func (s *Store) Query(ctx context.Context, stmt *db.Statement) (*db.Table, error) {
	if stmt == nil || stmt.SQL == "" {
		return nil, fmt.Errorf("%w: empty statement", db.ErrInvalidStatement)
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	if id := domain.CorrelationID(ctx); id != "" {
		ctx = driverctx.NewContextWithCorrelationId(ctx, id)
	}

	start := time.Now()
	table, err := s.query(ctx, stmt)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
	}
	s.observe(status, elapsed)

	if err != nil {
		s.logger.Warn("Warehouse query failed",
			zap.String("statement", stmt.String()),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("Warehouse query",
		zap.String("statement", stmt.String()),
		zap.Int("rows", table.Len()),
		zap.Duration("latency", elapsed),
	)
	return table, nil
}

func (s *Store) query(ctx context.Context, stmt *db.Statement) (*db.Table, error) {
	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args()...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	table := &db.Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for i, v := range values {
			// drivers may reuse byte buffers between rows
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	return table, nil
}

func (s *Store) observe(status string, elapsed time.Duration) {
	if s.queryDuration != nil {
		s.queryDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	}
	if s.queriesTotal != nil {
		s.queriesTotal.WithLabelValues(status).Inc()
	}
}

// Ping opens a session against the warehouse.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady pings with exponential backoff until the warehouse answers or timeout expires.
// Serverless warehouses can take tens of seconds to start.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = timeout

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := s.Ping(ctx)
		if err != nil {
			s.logger.Debug("Warehouse not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("timeout waiting for warehouse: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close warehouse pool: %w", err)
	}
	return nil
}
