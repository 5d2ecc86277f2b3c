package pgconv

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Dates and date-times are stored without a zone. They travel through pgx as
// UTC time.Time values whose wall clock carries the civil value.

func DateToTime(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func TimeToDate(t time.Time) civil.Date {
	return civil.DateOf(t)
}

func DateTimeToTimestamp(dt civil.DateTime) time.Time {
	return dt.In(time.UTC)
}

func TimestampToDateTime(t time.Time) civil.DateTime {
	return civil.DateTimeOf(t)
}

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func PgtypeFromUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: [16]byte(*id), Valid: true}
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
