//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/vacation"
	"barber-booking/internal/infra/db"
	"barber-booking/internal/infra/repository"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/pkg/errs"

	"cloud.google.com/go/civil"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "test"
	testPassword = "testpass"
	testDB       = "barber"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       testDB,
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
			Cmd:   []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
					testUser, testPassword, host, port.Port(), testDB)
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "integration-tests"},
		},
		Started: true,
	})
	if err != nil {
		slog.Error("failed to start postgres container", "error", err)
		return 1
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := container.Terminate(stopCtx); err != nil {
			slog.Warn("failed to terminate postgres container", "error", err.Error())
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		slog.Error("failed to resolve container host", "error", err)
		return 1
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		slog.Error("failed to resolve container port", "error", err)
		return 1
	}

	cfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   testDB,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 40,
	}
	if err := db.MigrateUp(cfg.BuildDSN()); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		return 1
	}

	pool, cleanup, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect", "error", err)
		return 1
	}
	defer cleanup()
	testPool = pool

	return m.Run()
}

type seed struct {
	serviceID  uuid.UUID
	providerID uuid.UUID
}

func seedCatalog(t *testing.T) seed {
	t.Helper()
	ctx := context.Background()
	s := seed{serviceID: uuid.New(), providerID: uuid.New()}

	_, err := testPool.Exec(ctx, `INSERT INTO services (id, name, price, duration_min) VALUES ($1, $2, 150000, 60)`,
		s.serviceID, "Haircut "+s.serviceID.String())
	require.NoError(t, err)
	_, err = testPool.Exec(ctx, `INSERT INTO providers (id, name) VALUES ($1, $2)`,
		s.providerID, "Anna "+s.providerID.String())
	require.NoError(t, err)
	_, err = testPool.Exec(ctx, `INSERT INTO provider_services (provider_id, service_id) VALUES ($1, $2)`,
		s.providerID, s.serviceID)
	require.NoError(t, err)
	return s
}

func slotAt(day, hour int) civil.DateTime {
	return civil.DateTime{
		Date: civil.Date{Year: 2031, Month: time.March, Day: day},
		Time: civil.Time{Hour: hour},
	}
}

func TestBookingRepository_ConcurrentCommitsPersistExactlyOne(t *testing.T) {
	s := seedCatalog(t)
	repo := repository.NewBookingRepository(testPool)
	at := slotAt(10, 14)

	const users = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		booked  int
		taken   int
		others  []error
		release = make(chan struct{})
	)
	for i := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			pid := s.providerID
			b, err := booking.NewBooking(userID, s.serviceID, &pid, at)
			if err != nil {
				mu.Lock()
				others = append(others, err)
				mu.Unlock()
				return
			}
			<-release
			err = repo.CreateBooking(context.Background(), b)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errs.Is(err, booking.ErrSlotTaken):
				taken++
			default:
				others = append(others, err)
			}
		}(int64(100 + i))
	}
	close(release)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, booked)
	assert.Equal(t, users-1, taken)

	var rows int
	require.NoError(t, testPool.QueryRow(context.Background(),
		`SELECT count(*) FROM bookings WHERE provider_id = $1 AND booking_at = $2`,
		s.providerID, time.Date(2031, time.March, 10, 14, 0, 0, 0, time.UTC)).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestBookingRepository_CancelFreesTheSlot(t *testing.T) {
	s := seedCatalog(t)
	repo := repository.NewBookingRepository(testPool)
	ctx := context.Background()
	at := slotAt(11, 10)
	pid := s.providerID

	first, err := booking.NewBooking(1, s.serviceID, &pid, at)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBooking(ctx, first))

	taken, err := repo.BookingExists(ctx, pid, at)
	require.NoError(t, err)
	assert.True(t, taken)

	changed, err := repo.CancelBooking(ctx, first.ID(), time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.CancelBooking(ctx, first.ID(), time.Now())
	require.NoError(t, err)
	assert.False(t, changed, "second cancel is a no-op")

	second, err := booking.NewBooking(2, s.serviceID, &pid, at)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBooking(ctx, second))

	got, err := repo.GetBooking(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status())
}

func TestBookingRepository_AnyProviderBookingsCoexist(t *testing.T) {
	s := seedCatalog(t)
	repo := repository.NewBookingRepository(testPool)
	ctx := context.Background()
	at := slotAt(12, 15)

	for userID := int64(1); userID <= 3; userID++ {
		b, err := booking.NewBooking(userID, s.serviceID, nil, at)
		require.NoError(t, err)
		require.NoError(t, repo.CreateBooking(ctx, b))
	}

	day, err := repo.ListBookingsForDate(ctx, at.Date)
	require.NoError(t, err)
	var anyProvider int
	for _, b := range day {
		if b.ServiceID() == s.serviceID && b.ProviderID() == nil {
			anyProvider++
		}
	}
	assert.Equal(t, 3, anyProvider)
}

func TestVacationRepository_ListVacationsOn(t *testing.T) {
	s := seedCatalog(t)
	repo := repository.NewVacationRepository(testPool)
	ctx := context.Background()

	iv, err := vacation.NewInterval(s.providerID,
		civil.Date{Year: 2031, Month: time.April, Day: 5},
		civil.Date{Year: 2031, Month: time.April, Day: 7})
	require.NoError(t, err)
	require.NoError(t, repo.CreateVacation(ctx, iv))

	for day, want := range map[int]bool{4: false, 5: true, 7: true, 8: false} {
		got, err := repo.ListVacationsOn(ctx, civil.Date{Year: 2031, Month: time.April, Day: day})
		require.NoError(t, err)
		var found bool
		for _, v := range got {
			found = found || v.ID == iv.ID
		}
		assert.Equal(t, want, found, "April %d", day)
	}
}

func TestBookingRepository_VacationBlocksCommit(t *testing.T) {
	s := seedCatalog(t)
	bookings := repository.NewBookingRepository(testPool)
	vacations := repository.NewVacationRepository(testPool)
	ctx := context.Background()
	pid := s.providerID

	iv, err := vacation.NewInterval(pid,
		civil.Date{Year: 2031, Month: time.May, Day: 1},
		civil.Date{Year: 2031, Month: time.May, Day: 10})
	require.NoError(t, err)
	require.NoError(t, vacations.CreateVacation(ctx, iv))

	blocked, err := booking.NewBooking(1, s.serviceID, &pid, civil.DateTime{
		Date: civil.Date{Year: 2031, Month: time.May, Day: 5},
		Time: civil.Time{Hour: 12},
	})
	require.NoError(t, err)
	assert.True(t, errs.Is(bookings.CreateBooking(ctx, blocked), booking.ErrSlotTaken))

	after, err := booking.NewBooking(1, s.serviceID, &pid, civil.DateTime{
		Date: civil.Date{Year: 2031, Month: time.May, Day: 11},
		Time: civil.Time{Hour: 12},
	})
	require.NoError(t, err)
	require.NoError(t, bookings.CreateBooking(ctx, after))

	anyProvider, err := booking.NewBooking(2, s.serviceID, nil, blocked.At())
	require.NoError(t, err)
	require.NoError(t, bookings.CreateBooking(ctx, anyProvider))
}
