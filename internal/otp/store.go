// Package otp implements short-lived one-time verification codes.
//
// A challenge moves through Pending -> Consumed or Pending -> Expired.
// At most one challenge is pending per identity; issuing a new one
// replaces whatever was pending before.
package otp

import (
	"context"
	"time"
)

// Challenge is a pending verification code bound to one identity.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists pending challenges keyed by identity. Implementations
// must be safe for concurrent use; writes to distinct identities must not
// contend with each other beyond what the backing store requires.
type Store interface {
	// Put stores ch for identity, replacing any pending challenge.
	Put(ctx context.Context, identity string, ch Challenge) error
	// Get returns the pending challenge for identity, or domain.ErrOTPNotFound.
	// Implementations may return challenges past their expiry; the service
	// treats those as expired.
	Get(ctx context.Context, identity string) (Challenge, error)
	// Delete removes the pending challenge for identity, if any.
	Delete(ctx context.Context, identity string) error
}
