package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DB represents the MySQL client
type DB interface {
	// Close closes the db connection.
	Close() error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// ExecuteTransactionWithRetry wrapper for executing queries in a transaction and retries the transaction
	//  if transaction deadlock or transaction timeout.
	ExecuteTransactionWithRetry(
		ctx context.Context,
		maxRetries uint,
		delay,
		maxJitter time.Duration,
		errorMsg string,
		fn func(tx *sqlx.Tx) error) error

	// Execute wrapper for executing the queries.
	Execute(fn func(conn *sqlx.DB) error) error
}
