package databricks

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// NewStoreForTest creates a Store over an arbitrary database/sql pool (test-only).
func NewStoreForTest(pool *sql.DB, queryTimeout time.Duration) *Store {
	return newStore(pool, queryTimeout, zap.NewNop())
}
