package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenExpired       = errors.New("token has expired")
	ErrOTPNotFound        = errors.New("no pending verification code")
	ErrOTPMismatch        = errors.New("verification code does not match")
	ErrOTPExpired         = errors.New("verification code has expired")
)

type User struct {
	ID            string
	Name          string
	Email         string
	Mobile        *string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity is the claim set carried by a bearer token. It is everything
// token verification can establish without a database round-trip.
type Identity struct {
	UserID string
	Email  string
}
