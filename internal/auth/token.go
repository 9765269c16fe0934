package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

// TokenIssuer creates and verifies HMAC-signed JWTs carrying a user
// identity claim. Verification is stateless: signature and expiry only,
// no database round-trip.
type TokenIssuer struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration

	// now is injectable so expiry behavior can be tested without
	// wall-clock sleeps.
	now func() time.Time
}

// NewTokenIssuer builds an issuer for the given HMAC algorithm
// (HS256, HS384 or HS512) and default token TTL.
func NewTokenIssuer(key []byte, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{
		key:    key,
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the issuer's default token lifetime.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for identity, expiring after ttl. A non-positive ttl
// produces a token that is already expired.
func (i *TokenIssuer) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":   identity.UserID,
		"email": identity.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
func (i *TokenIssuer) Verify(raw string) (domain.Identity, error) {
	token, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != i.method.Alg() {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return i.key, nil
		},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	email, _ := claims["email"].(string)

	return domain.Identity{UserID: userID, Email: email}, nil
}
