// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let the store adapter translate
// storage outcomes into the booking package's error taxonomy.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrVenueNotFound is returned when a venue lookup finds no row.
var ErrVenueNotFound = errors.New("venue not found")

// ErrRequestNotFound is returned when a booking request lookup finds no row.
var ErrRequestNotFound = errors.New("booking request not found")

// ErrDuplicate is returned when an insert hits a unique key, such as a
// second venue_bookings row for the same (venue_id, date, slot).
var ErrDuplicate = errors.New("duplicate key")

// ErrStaleStatus is returned when a conditional status update matches
// no row because the status changed underneath the caller.
var ErrStaleStatus = errors.New("status changed concurrently")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// ER_LOCK_WAIT_TIMEOUT and ER_LOCK_DEADLOCK.  InnoDB rolls the losing
// transaction back; the caller may retry.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

func isLockConflict(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers can
// run inside or outside a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
