// Package jwt issues and checks the bearer tokens of the operator API.
package jwt

import (
	"errors"
	"strconv"
	"time"

	"barber-booking/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	RoleOperator = "operator"
	Issuer       = "barber-booking"

	clockSkew = 30 * time.Second
)

// Claims identify an operator by their chat user id. Subject carries the
// same id as a decimal string.
type Claims struct {
	OperatorID int64  `json:"operator_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	parser *jwt.Parser
}

func NewService(secret string, ttl time.Duration) *Service {
	return NewServiceWithClock(secret, ttl, clock.NewRealClock())
}

func NewServiceWithClock(secret string, ttl time.Duration, clk clock.Clock) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

// GenerateToken signs a fresh operator token with a unique id.
func (s *Service) GenerateToken(operatorID int64) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		OperatorID: operatorID,
		Role:       RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(operatorID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken accepts only unexpired HS256 operator tokens of this issuer.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.Role != RoleOperator || claims.Subject != strconv.FormatInt(claims.OperatorID, 10) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
