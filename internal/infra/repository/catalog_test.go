//go:build unit

package repository_test

import (
	"context"
	"testing"

	"barber-booking/internal/infra"
	"barber-booking/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := repository.NewCatalogRepository(mock)

	haircut, shave := uuid.New(), uuid.New()

	t.Run("list services", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, price, duration_min, description FROM services").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "duration_min", "description"}).
				AddRow(haircut, "Haircut", int64(150000), int32(45), "").
				AddRow(shave, "Shave", int64(80000), int32(30), "hot towel"))

		got, err := repo.ListServices(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Haircut", got[0].Name)
		assert.Equal(t, 45, got[0].DurationMin)
		assert.Equal(t, int64(80000), got[1].Price)
	})

	t.Run("get missing service", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, price").WithArgs(haircut).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetService(ctx, haircut)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("list providers with service sets", func(t *testing.T) {
		anna, boris := uuid.New(), uuid.New()
		mock.ExpectQuery("SELECT p.id, p.name, p.description").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "service_ids"}).
				AddRow(anna, "Anna", "", []uuid.UUID{}).
				AddRow(boris, "Boris", "senior", []uuid.UUID{haircut}))

		got, err := repo.ListProviders(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].CanPerform(shave))
		assert.False(t, got[1].CanPerform(shave))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
