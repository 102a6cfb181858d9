package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and validates the HMAC-SHA256 JWTs that the web layer
// uses to resolve requests to a user id. All state is read-only after
// construction, so a single instance is safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	duration time.Duration
}

// NewTokenIssuer configures token signing with the given secret, issuer
// claim, and validity window.
func NewTokenIssuer(secret, issuer string, duration time.Duration) (*TokenIssuer, error) {
	if secret == "" || issuer == "" || duration <= 0 {
		return nil, errors.New("invalid token issuer parameters")
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, duration: duration}, nil
}

// Issue signs a token whose subject is the given user id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates tokenString (signature, issuer, expiry) and returns the
// user id from its subject claim. Any validation failure is reported as a
// single opaque error so callers need not inspect JWT internals.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
