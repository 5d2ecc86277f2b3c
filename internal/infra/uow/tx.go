package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"barber-booking/internal/infra"
	"barber-booking/internal/infra/db"
	"barber-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
)

const defaultMaxRetries = 3

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// Runner executes functions inside a transaction and retries them on
// serialization failures and deadlocks.
type Runner struct {
	db         db.TxBeginner
	maxRetries int
	base       time.Duration
}

func NewRunner(beginner db.TxBeginner) *Runner {
	return &Runner{
		db:         beginner,
		maxRetries: defaultMaxRetries,
		base:       100 * time.Millisecond,
	}
}

// WithBackoff overrides the base wait between attempts.
func (r *Runner) WithBackoff(base time.Duration) *Runner {
	r.base = base
	return r
}

// Within runs fn in a READ COMMITTED transaction and commits when fn returns
// nil. Serialization failures and deadlocks restart fn in a new transaction,
// up to the retry limit.
func (r *Runner) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return r.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// runInTxWithOptions rolls back explicitly on every failed attempt, so each
// attempt releases its connection before the next one begins.
func (r *Runner) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx db.DBTX) error) error {
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		pgxTx, err := r.db.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(infra.ClassifyPgErr("begin transaction", err), errTransactionBegin)
		}

		err = fn(ctx, pgxTx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(infra.ClassifyPgErr("commit transaction", err), errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !infra.IsKind(err, infra.KindConflict) {
			return err
		}
		if attempt == r.maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, r.base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to 63 bits above
	return int64(uval) % n
}
