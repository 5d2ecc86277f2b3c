package bootstrap

import (
	"time"

	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

const minJWTSecretLen = 32

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// NewJWTService signs operator tokens on the shared clock.
func NewJWTService(cfg config.Config, clk clock.Clock) (*jwt.Service, error) {
	if len(cfg.JWT.Secret) < minJWTSecretLen {
		return nil, errs.Newf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	ttl, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, errs.Wrap(err, "invalid JWT_DURATION")
	}
	if ttl <= 0 {
		return nil, errs.Newf("JWT_DURATION must be positive, got %s", ttl)
	}
	return jwt.NewServiceWithClock(cfg.JWT.Secret, ttl, clk), nil
}
