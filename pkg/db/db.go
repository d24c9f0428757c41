package db

import (
	"context"
	"errors"
	"time"

	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/avast/retry-go/v4"
	"github.com/jmoiron/sqlx"
)

// DB is a pool of zero or more underlying connections to
// the jira-reporter database.
type DB struct {
	conn   *sqlx.DB
	logger lumber.Logger
}

// Execute executes a function. Any error that is returned from the function is returned
// from the Execute() method.
func (db *DB) Execute(fn func(conn *sqlx.DB) error) error {
	return fn(db.conn)
}

// ExecuteTransactionWithRetry wrapper for executing queries in a transaction and retries the transaction
// if transaction deadlock or transaction timeout.
func (db *DB) ExecuteTransactionWithRetry(
	ctx context.Context,
	maxRetries uint,
	delay,
	maxJitter time.Duration,
	errorMsg string,
	fn func(tx *sqlx.Tx) error) error {
	return retry.Do(func() error {
		return db.executeTransaction(ctx, fn)
	}, retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Attempts(maxRetries),
		retry.Delay(delay),
		retry.MaxJitter(maxJitter),
		retry.RetryIf(func(err error) bool {
			parseErr := errs.SQLError(err)
			return errors.Is(parseErr, errs.ErrDeadlock) || errors.Is(parseErr, errs.ErrLockWaitTimeout)
		}),
		retry.OnRetry(func(n uint, err error) {
			db.logger.Errorf("%s, retry %d, error: %+v", errorMsg, n, err)
		}),
	)
}

// executeTransaction runs fn in a read-write transaction, committing when fn succeeds
// and rolling back otherwise.
func (db *DB) executeTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if rerr := tx.Rollback(); rerr != nil {
				db.logger.Errorf("error while performing rollback, %v", rerr)
			}
			db.logger.Errorf("panic while executing query: %+v", p)
			panic(p)
		} else if err != nil {
			// on context cancelation the driver already rolled back
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				if rerr := tx.Rollback(); rerr != nil {
					db.logger.Errorf("error while performing rollback, %v", rerr)
				}
			}
		} else {
			err = tx.Commit()
		}
	}()
	return fn(tx)
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
