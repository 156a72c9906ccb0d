// Package auth mints and validates the signed session tokens that tie a
// browser to its server-side storefront state.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hamadpass/khodarji-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// SessionTokenClaims is the typed JWT handed to clients. The session id
// travels in the registered ID (jti) claim; identity lives server-side.
type SessionTokenClaims struct {
	jwt.RegisteredClaims
}

// MintSessionToken issues a signed JWT bound to the session id, generating a
// fresh id when none is supplied.
func MintSessionToken(cfg config.JWTConfig, now time.Time, sessionID string) (string, string, error) {
	if cfg.Secret == "" {
		return "", "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", "", fmt.Errorf("jwt expiration minutes must be positive")
	}

	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = uuid.NewString()
	}

	claims := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
			ID:        id,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, id, nil
}

// ParseSessionToken validates the JWT string and returns the session id.
func ParseSessionToken(cfg config.JWTConfig, tokenString string) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}

	claims := &SessionTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", fmt.Errorf("token is missing a session id")
	}
	return claims.ID, nil
}
