package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: a missing subject,
// a bad signature, an expired token, or a provider error. Callers are
// not told which.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is an authenticated user principal resolved from a bearer token.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Verifier resolves a bearer token to an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifier validates RS256 tokens issued by the hosted auth provider
// against its published public key. Verification is local, no network
// call per request.
type JWTVerifier struct {
	issuer string
	key    *rsa.PublicKey
}

// NewJWTVerifier reads AUTH_JWT_PUBLIC_KEY (PEM) and AUTH_ISSUER_URL
// from the environment. The public key is required; the issuer check is
// skipped when AUTH_ISSUER_URL is unset.
func NewJWTVerifier() (*JWTVerifier, error) {
	pemKey := os.Getenv("AUTH_JWT_PUBLIC_KEY")
	if pemKey == "" {
		return nil, fmt.Errorf("AUTH_JWT_PUBLIC_KEY environment variable not set")
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse auth public key: %w", err)
	}

	return &JWTVerifier{
		issuer: os.Getenv("AUTH_ISSUER_URL"),
		key:    key,
	}, nil
}

// Verify parses and validates the token, returning the Identity from its
// sub and email claims.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	return &Identity{ID: userID, Email: email}, nil
}
