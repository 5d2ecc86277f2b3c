package middleware

import (
	"log/slog"
	"slices"

	"barber-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware opens the operator API to the configured origins. A "*"
// origin allows any origin and turns credentials off, since browsers reject
// that combination.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	out := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if !slices.Contains(out.ExposeHeaders, requestIDHeader) {
		out.ExposeHeaders = append(slices.Clone(out.ExposeHeaders), requestIDHeader)
	}

	if slices.Contains(cfg.AllowOrigins, "*") {
		out.AllowAllOrigins = true
		out.AllowCredentials = false
		slog.Warn("CORS allows any origin, credentials disabled")
		return out
	}
	out.AllowOrigins = cfg.AllowOrigins
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins)
	return out
}
