package errors

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDupeKey is returned when a unique index prevents a value from being
// inserted or updated. CanRetry returns false on this error.
var ErrDupeKey = New("resource already exits")

// ErrDeadlock is returned when there is a transaction deadlock.
var ErrDeadlock = New("mysql transaction deadlock")

// ErrLockWaitTimeout is returned where there is a mysql lock wait timeout.
var ErrLockWaitTimeout = New("mysql lock wait timeout")

// ErrJobNotRegistered is returned when a mapping is written for a job whose
// mapping table was never registered.
var ErrJobNotRegistered = New("job not registered")

// ErrRowsNotFound is returned by Scan when QueryRow doesn't return a
// row.
var ErrRowsNotFound = sql.ErrNoRows

// ERROR 1452 (23000): Cannot add or update a child row: a foreign key constraint fails
const (
	mysqlDupEntryErrCode        = 1062
	mysqlDeadlockErrCode        = 1213
	mysqlLockWaitTimeoutErrCode = 1205
	mysqlForeignKeyErrCode      = 1452
)

// SQLError returns an error in this package if possible. The error return value
// is an error in this package if the given error maps to one, else the given
// error is returned.
func SQLError(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRowsNotFound
		}
		return err
	}
	switch mysqlErr.Number {
	case mysqlDupEntryErrCode:
		return ErrDupeKey
	case mysqlDeadlockErrCode:
		return ErrDeadlock
	case mysqlLockWaitTimeoutErrCode:
		return ErrLockWaitTimeout
	case mysqlForeignKeyErrCode:
		return ErrJobNotRegistered
	}
	return mysqlErr
}
