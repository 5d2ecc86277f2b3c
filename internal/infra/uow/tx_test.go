//go:build unit

package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"barber-booking/internal/infra"
	"barber-booking/internal/infra/db"
	"barber-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func newRunner(t *testing.T) (*Runner, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRunner(mock).WithBackoff(time.Millisecond), mock
}

func TestRunner_Within(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectExec("UPDATE bookings").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err := runner.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
			_, err := tx.Exec(ctx, "UPDATE bookings SET status = 'cancelled'")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns a plain error", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()

		sentinel := errors.New("slot taken")
		calls := 0
		err := runner.Within(ctx, func(context.Context, db.DBTX) error {
			calls++
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries deadlocks in a fresh transaction", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectCommit()

		calls := 0
		err := runner.Within(ctx, func(context.Context, db.DBTX) error {
			calls++
			if calls == 1 {
				return infra.ClassifyPgErr("lock", &pgconn.PgError{Code: "40P01"})
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after the retry limit", func(t *testing.T) {
		runner, mock := newRunner(t)
		for range defaultMaxRetries + 1 {
			mock.ExpectBeginTx(readCommitted)
			mock.ExpectRollback()
		}

		calls := 0
		err := runner.Within(ctx, func(context.Context, db.DBTX) error {
			calls++
			return infra.ClassifyPgErr("write", &pgconn.PgError{Code: "40001"})
		})
		assert.True(t, errs.Is(err, errMaxRetriesExceeded))
		assert.True(t, infra.IsKind(err, infra.KindConflict))
		assert.Equal(t, defaultMaxRetries+1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
