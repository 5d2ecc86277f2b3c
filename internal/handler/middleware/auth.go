package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"barber-booking/internal/handler/httperr"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/pkg/jwt"
	"barber-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// OperatorAuth admits requests carrying a valid operator token whose
// operator is still in the directory.
type OperatorAuth struct {
	tokens    TokenValidator
	operators shared.OperatorDirectory
}

const ctxOperatorIDKey = "operator_id"

var (
	errMissingToken = errs.New("missing bearer token")
	errNotOperator  = errs.New("not an operator")
)

func NewOperatorAuth(tokens TokenValidator, operators shared.OperatorDirectory) *OperatorAuth {
	return &OperatorAuth{
		tokens:    tokens,
		operators: operators,
	}
}

func (m *OperatorAuth) RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		if !m.operators.IsOperator(c.Request.Context(), claims.OperatorID) {
			httperr.AbortWithError(c, http.StatusForbidden, errNotOperator, "Insufficient permissions", nil)
			return
		}

		c.Set(ctxOperatorIDKey, claims.OperatorID)
		c.Next()
	}
}

func GetOperatorID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
