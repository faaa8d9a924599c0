package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"

	"github.com/paydeck/console/internal/models"
)

// Issuer identifies tokens minted by this engine.
const Issuer = "merchant-console"

// ErrInvalidToken is returned when a persisted token fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims are the claims carried by a session token. The token is
// opaque to consumers; only the engine mints and verifies it.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// mintToken creates a signed session token for the user. The expiry claim
// mirrors the durable expiration marker: set only for remembered sessions.
func mintToken(secret []byte, user *models.UserRecord, expiresAt *time.Time) (string, error) {
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			Subject:  user.ID.String(),
			ID:       base58.Encode(jti),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// verifyToken checks the signature, issuer and expiry of a session token.
func verifyToken(secret []byte, tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
