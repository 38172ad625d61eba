package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nearby-rouen/nearby/internal/nearby"
)

// translateError wraps a driver error with the nearby error kind it belongs to
func translateError(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, errorKind(err), err)
}

func errorKind(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nearby.ErrCanceled
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended result codes keep the primary code in the low byte
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return nearby.ErrStorageCorrupt
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
			return nearby.ErrStorageUnavailable
		case sqlite3.SQLITE_INTERRUPT: // the driver interrupts queries whose context is done
			return nearby.ErrCanceled
		}
		return nearby.ErrQueryFailed
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "XX001", "XX002": // data_corrupted, index_corrupted
			return nearby.ErrStorageCorrupt
		case "57014": // query_canceled
			return nearby.ErrCanceled
		}
		// Class 08 is connection exception, 57P is operator intervention
		if len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:3] == "57P") {
			return nearby.ErrStorageUnavailable
		}
		return nearby.ErrQueryFailed
	}

	if errors.Is(err, sql.ErrConnDone) || pgconn.SafeToRetry(err) {
		return nearby.ErrStorageUnavailable
	}
	return nearby.ErrQueryFailed
}
