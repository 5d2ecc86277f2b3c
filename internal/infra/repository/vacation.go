package repository

import (
	"context"
	"time"

	"barber-booking/internal/domain/vacation"
	"barber-booking/internal/infra"
	"barber-booking/internal/infra/db"
	"barber-booking/internal/pkg/pgconv"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

const (
	vacationColumns    = `id, provider_id, start_date, end_date, created_at`
	listVacationsSQL   = `SELECT ` + vacationColumns + ` FROM vacations WHERE provider_id = $1 ORDER BY start_date, end_date`
	listVacationsOnSQL = `SELECT ` + vacationColumns + ` FROM vacations WHERE start_date <= $1 AND end_date >= $1`
	insertVacationSQL  = `INSERT INTO vacations (id, provider_id, start_date, end_date) VALUES ($1, $2, $3, $4)`
)

type VacationRepository struct {
	db db.DBTX
}

func NewVacationRepository(q db.DBTX) *VacationRepository {
	return &VacationRepository{db: q}
}

func (r *VacationRepository) ListVacations(ctx context.Context, providerID uuid.UUID) ([]vacation.Interval, error) {
	return r.list(ctx, "list vacations", listVacationsSQL, providerID)
}

// ListVacationsOn returns every interval of any provider that covers d.
func (r *VacationRepository) ListVacationsOn(ctx context.Context, d civil.Date) ([]vacation.Interval, error) {
	return r.list(ctx, "list vacations on date", listVacationsOnSQL, pgconv.DateToTime(d))
}

// CreateVacation stores iv. Overlapping intervals are allowed.
func (r *VacationRepository) CreateVacation(ctx context.Context, iv vacation.Interval) error {
	_, err := r.db.Exec(ctx, insertVacationSQL,
		iv.ID,
		iv.ProviderID,
		pgconv.DateToTime(iv.Start),
		pgconv.DateToTime(iv.End),
	)
	if err != nil {
		return infra.ClassifyPgErr("insert vacation", err)
	}
	return nil
}

func (r *VacationRepository) list(ctx context.Context, op, query string, args ...any) ([]vacation.Interval, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr(op, err)
	}
	defer rows.Close()

	var out []vacation.Interval
	for rows.Next() {
		var (
			iv         vacation.Interval
			start, end time.Time
		)
		if err := rows.Scan(&iv.ID, &iv.ProviderID, &start, &end, &iv.CreatedAt); err != nil {
			return nil, infra.ClassifyPgErr(op, err)
		}
		iv.Start = pgconv.TimeToDate(start)
		iv.End = pgconv.TimeToDate(end)
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr(op, err)
	}
	return out, nil
}
