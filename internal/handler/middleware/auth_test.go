//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barber-booking/internal/handler/middleware"
	"barber-booking/internal/pkg/jwt"
	"barber-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-operator-auth"

func newAuthRouter(tokens *jwt.Service, operators ...int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewOperatorAuth(tokens, shared.NewStaticOperators(operators))

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/protected", auth.RequireOperator(), func(c *gin.Context) {
		id, ok := middleware.GetOperatorID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"operatorId": id})
	})
	return r
}

func TestRequireOperator(t *testing.T) {
	tokens := jwt.NewService(testSecret, time.Hour)
	router := newAuthRouter(tokens, 1000)

	operatorToken, err := tokens.GenerateToken(1000)
	require.NoError(t, err)
	formerOperatorToken, err := tokens.GenerateToken(2000)
	require.NoError(t, err)
	expiredToken, err := jwt.NewService(testSecret, -time.Minute).GenerateToken(1000)
	require.NoError(t, err)
	foreignToken, err := jwt.NewService("another-secret", time.Hour).GenerateToken(1000)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "operator token", header: "Bearer " + operatorToken, wantStatus: http.StatusOK, wantBody: `{"operatorId":1000}`},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Access token required"},
		{name: "not a bearer scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Access token required"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantBody: "Invalid or expired token"},
		{name: "expired token", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized, wantBody: "Invalid or expired token"},
		{name: "signed with another key", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized, wantBody: "Invalid or expired token"},
		{name: "no longer an operator", header: "Bearer " + formerOperatorToken, wantStatus: http.StatusForbidden, wantBody: "Insufficient permissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
