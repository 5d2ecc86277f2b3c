package middleware

import (
	"log/slog"
	"net/http"

	"barber-booking/internal/handler/httperr"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/commands"
	"barber-booking/internal/usecase/conversation"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error a handler recorded and maps
// private errors it knows about. Handlers that already answered are only
// logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		logErrors(c)
		if c.Writer.Written() {
			return
		}

		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}

		resp := mapPrivate(c.Errors.Last().Err)
		c.JSON(resp.Status, resp)
	}
}

func mapPrivate(err error) httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	switch {
	case errs.Is(err, commands.ErrBookingNotFound):
		resp.Status = http.StatusNotFound
		resp.Error.Message = "Booking not found"
	case errs.Is(err, conversation.ErrCollaboratorUnavailable):
		resp.Status = http.StatusServiceUnavailable
		resp.Error.Message = "Service temporarily unavailable"
	}
	return resp
}

func logErrors(c *gin.Context) {
	for _, e := range c.Errors {
		level := slog.LevelWarn
		if !e.IsType(gin.ErrorTypePublic) || c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "request error",
			"request_id", GetRequestID(c),
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"error", e.Err,
			"stack", errs.ExtractStackLines(e.Err, 3))
	}
}

// CustomRecovery turns a panic into a 500 body and logs it with the request id.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(c.Request.Context(), "recovered from panic",
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", rec)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(resp.Status, resp)
			}
		}()
		c.Next()
	}
}
