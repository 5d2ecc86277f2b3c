package components

import (
	"barber-booking/internal/infra/db"
	"barber-booking/internal/infra/repository"
	"barber-booking/internal/infra/sessionstore"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBPool,
		NewDBTX,
		fx.Annotate(
			repository.NewCatalogRepository,
			fx.As(new(shared.CatalogReader)),
		),
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(shared.BookingStore)),
		),
		fx.Annotate(
			repository.NewVacationRepository,
			fx.As(new(shared.VacationStore)),
		),
		fx.Annotate(
			NewSessionStore,
			fx.As(new(shared.SessionStore)),
		),
		fx.Annotate(
			NewOperatorDirectory,
			fx.As(new(shared.OperatorDirectory)),
		),
	),
)

func NewDBPool(pool *pgxpool.Pool) db.Pool {
	return pool
}

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewSessionStore(client *redis.Client, cfg config.Config) *sessionstore.RedisStore {
	return sessionstore.NewRedisStore(client, cfg.Session.TTL, cfg.Session.KeyPrefix)
}

func NewOperatorDirectory(cfg config.Config) shared.StaticOperators {
	return shared.NewStaticOperators(cfg.Business.OperatorIDs)
}
