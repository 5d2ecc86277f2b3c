package bootstrap

import (
	"log/slog"

	"barber-booking/internal/handler/middleware"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewRequestLogger,
		NewLogger,
	),
)

func NewRequestLogger(cfg config.Config, m *metrics.HTTPMetrics) *middleware.Logger {
	return middleware.NewLogger(cfg.Log).WithMetrics(m)
}

func NewLogger(l *middleware.Logger) *slog.Logger {
	return l.GetSlogLogger()
}
