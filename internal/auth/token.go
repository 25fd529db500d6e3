package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token has expired")
)

// Claims is what a session token tells us about the viewer.
type Claims struct {
	User      User
	ExpiresAt time.Time
}

// ParseToken reads the viewer from a session token. When secret is non-empty
// the HS256 signature is verified; otherwise the token is only decoded.
func ParseToken(tokenString string, secret []byte, now time.Time) (*Claims, error) {
	claims := jwt.MapClaims{}

	if len(secret) > 0 {
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time {
			return now
		}))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	} else if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := userID(claims)
	if err != nil {
		return nil, err
	}

	result := &Claims{User: User{ID: id}}
	if email, ok := claims["email"].(string); ok {
		result.User.Email = email
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if exp != nil {
		result.ExpiresAt = exp.Time
		if !now.Before(exp.Time) {
			return nil, ErrTokenExpired
		}
	}

	return result, nil
}

// userID reads the numeric user id from user_id, falling back to sub.
func userID(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims["user_id"]
	if !ok {
		raw, ok = claims["sub"]
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing user id claim", ErrInvalidToken)
	}

	switch v := raw.(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: user id claim %v is not a positive integer", ErrInvalidToken, raw)
}
