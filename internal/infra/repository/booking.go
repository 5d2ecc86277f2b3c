package repository

import (
	"context"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/infra"
	"barber-booking/internal/infra/db"
	"barber-booking/internal/infra/uow"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/pkg/pgconv"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// ActiveSlotConstraint guards one active booking per provider and instant.
const ActiveSlotConstraint = "bookings_provider_slot_active_uniq"

const bookingColumns = `id, user_id, service_id, provider_id, booking_at, status, created_at, updated_at`

const (
	bookingExistsSQL = `SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE provider_id = $1 AND booking_at = $2 AND status = 'active'
)`
	providerOnVacationSQL = `SELECT EXISTS (
    SELECT 1 FROM vacations
    WHERE provider_id = $1 AND start_date <= $2 AND end_date >= $2
)`
	insertBookingSQL = `INSERT INTO bookings (id, user_id, service_id, provider_id, booking_at, status)
VALUES ($1, $2, $3, $4, $5, $6)`
	cancelBookingSQL = `UPDATE bookings SET status = 'cancelled', updated_at = $2
WHERE id = $1 AND status = 'active'`
	bookingIDExistsSQL = `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`
	getBookingSQL      = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	bookingsForDateSQL = `SELECT ` + bookingColumns + ` FROM bookings
WHERE booking_at >= $1 AND booking_at < $2 AND status = 'active'
ORDER BY booking_at, created_at`
	bookingsForUserSQL = `SELECT ` + bookingColumns + ` FROM bookings
WHERE user_id = $1
ORDER BY booking_at DESC, created_at DESC
LIMIT $2 OFFSET $3`
	countBookingsForUserSQL = `SELECT count(*) FROM bookings WHERE user_id = $1`
)

type BookingRepository struct {
	db db.Pool
	tx *uow.Runner
}

func NewBookingRepository(pool db.Pool) *BookingRepository {
	return &BookingRepository{db: pool, tx: uow.NewRunner(pool)}
}

// WithRunner swaps the transaction runner, mainly to shorten backoff in tests.
func (r *BookingRepository) WithRunner(runner *uow.Runner) *BookingRepository {
	r.tx = runner
	return r
}

func (r *BookingRepository) BookingExists(ctx context.Context, providerID uuid.UUID, at civil.DateTime) (bool, error) {
	return bookingExists(ctx, r.db, providerID, at)
}

// CreateBooking inserts b if its provider is still free at b.At(): no active
// booking at that instant and no vacation covering that day. A lost race
// surfaces as booking.ErrSlotTaken, either from the checks or from the
// partial unique index.
func (r *BookingRepository) CreateBooking(ctx context.Context, b *booking.Booking) error {
	return r.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if pid := b.ProviderID(); pid != nil {
			taken, err := bookingExists(ctx, tx, *pid, b.At())
			if err != nil {
				return err
			}
			if taken {
				return booking.ErrSlotTaken
			}
			away, err := providerOnVacation(ctx, tx, *pid, b.Date())
			if err != nil {
				return err
			}
			if away {
				return booking.ErrSlotTaken
			}
		}

		_, err := tx.Exec(ctx, insertBookingSQL,
			b.ID(),
			b.UserID(),
			b.ServiceID(),
			b.ProviderID(),
			pgconv.DateTimeToTimestamp(b.At()),
			b.Status().String(),
		)
		if err != nil {
			repoErr := infra.ClassifyPgErr("insert booking", err)
			if infra.IsConstraint(repoErr, ActiveSlotConstraint) {
				return errs.Mark(repoErr, booking.ErrSlotTaken)
			}
			return repoErr
		}
		return nil
	})
}

// CancelBooking reports whether the booking changed. Cancelling a cancelled
// booking is not an error.
func (r *BookingRepository) CancelBooking(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, cancelBookingSQL, id, now)
	if err != nil {
		return false, infra.ClassifyPgErr("cancel booking", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, bookingIDExistsSQL, id).Scan(&exists); err != nil {
		return false, infra.ClassifyPgErr("check booking", err)
	}
	if !exists {
		return false, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return false, nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, getBookingSQL, id))
	if err != nil {
		return nil, infra.ClassifyPgErr("get booking", err)
	}
	return b, nil
}

// ListBookingsForDate returns the active bookings of d ordered by time.
func (r *BookingRepository) ListBookingsForDate(ctx context.Context, d civil.Date) ([]*booking.Booking, error) {
	from := pgconv.DateToTime(d)
	to := pgconv.DateToTime(d.AddDays(1))
	return r.list(ctx, "list bookings for date", bookingsForDateSQL, from, to)
}

// ListBookingsForUser returns a page of the user's bookings, newest first.
func (r *BookingRepository) ListBookingsForUser(ctx context.Context, userID int64, limit, offset int) ([]*booking.Booking, error) {
	return r.list(ctx, "list bookings for user", bookingsForUserSQL, userID, limit, offset)
}

func (r *BookingRepository) CountBookingsForUser(ctx context.Context, userID int64) (int, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countBookingsForUserSQL, userID).Scan(&n); err != nil {
		return 0, infra.ClassifyPgErr("count bookings for user", err)
	}
	return int(n), nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...any) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr(op, err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.ClassifyPgErr(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr(op, err)
	}
	return out, nil
}

func bookingExists(ctx context.Context, q db.DBTX, providerID uuid.UUID, at civil.DateTime) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, bookingExistsSQL, providerID, pgconv.DateTimeToTimestamp(at)).Scan(&exists)
	if err != nil {
		return false, infra.ClassifyPgErr("check slot", err)
	}
	return exists, nil
}

func providerOnVacation(ctx context.Context, q db.DBTX, providerID uuid.UUID, d civil.Date) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, providerOnVacationSQL, providerID, pgconv.DateToTime(d)).Scan(&exists)
	if err != nil {
		return false, infra.ClassifyPgErr("check vacation", err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*booking.Booking, error) {
	var (
		id, serviceID        uuid.UUID
		userID               int64
		providerID           *uuid.UUID
		at                   time.Time
		status               string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &serviceID, &providerID, &at, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	st := booking.Status(status)
	if !st.IsValid() {
		return nil, booking.ErrInvalidStatus
	}
	return booking.ReconstructBooking(
		id, userID, serviceID, providerID,
		pgconv.TimestampToDateTime(at),
		st, createdAt, updatedAt,
	), nil
}
