package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fintrack-server/src/apperr"
)

const bearerPrefix = "Bearer "

// Claims is the only token shape the server accepts. The caller identity is
// always read from user_id.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ResolveIdentity verifies a bearer credential and returns the caller's
// canonical identity, the user_id claim in lower-case UUID form. Any failure
// wraps apperr.ErrUnauthenticated.
func ResolveIdentity(header string, secret []byte) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing token", apperr.ErrUnauthenticated)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", fmt.Errorf("%w: malformed authorization header", apperr.ErrUnauthenticated)
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenString == "" {
		return "", fmt.Errorf("%w: missing token", apperr.ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", apperr.ErrUnauthenticated)
		}
		return "", fmt.Errorf("%w: invalid token: %v", apperr.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return "", fmt.Errorf("%w: invalid token", apperr.ErrUnauthenticated)
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		return "", fmt.Errorf("%w: token has no user_id claim", apperr.ErrUnauthenticated)
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("%w: user_id is not a uuid", apperr.ErrUnauthenticated)
	}
	return parsed.String(), nil
}
