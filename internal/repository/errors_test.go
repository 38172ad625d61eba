package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/nearby-rouen/nearby/internal/nearby"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"canceled", context.Canceled, nearby.ErrCanceled},
		{"deadline", fmt.Errorf("read rows: %w", context.DeadlineExceeded), nearby.ErrCanceled},
		{"postgres query canceled", &pgconn.PgError{Code: "57014"}, nearby.ErrCanceled},
		{"postgres admin shutdown", &pgconn.PgError{Code: "57P01"}, nearby.ErrStorageUnavailable},
		{"postgres connection failure", &pgconn.PgError{Code: "08006"}, nearby.ErrStorageUnavailable},
		{"postgres data corrupted", &pgconn.PgError{Code: "XX001"}, nearby.ErrStorageCorrupt},
		{"postgres undefined table", &pgconn.PgError{Code: "42P01"}, nearby.ErrQueryFailed},
		{"connection done", sql.ErrConnDone, nearby.ErrStorageUnavailable},
		{"other", errors.New("boom"), nearby.ErrQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorKind(tt.err))

			err := translateError("query stations", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
