package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
	"github.com/mohdfarhan7/michelanglo/internal/email"
)

const codeDigits = 6

// Service issues and verifies one-time codes. Codes are delivered out of
// band through an email.Sender; the service itself never returns a code
// to its caller.
type Service struct {
	store Store
	email email.Sender
	ttl   time.Duration

	now func() time.Time
}

func NewService(store Store, sender email.Sender, ttl time.Duration) *Service {
	return &Service{
		store: store,
		email: sender,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Send generates a fresh code for identity, stores it with the configured
// expiry window, and emails it. Any previously pending challenge for the
// same identity is replaced.
func (s *Service) Send(ctx context.Context, identity string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	expiresAt := s.now().Add(s.ttl)
	if err := s.store.Put(ctx, identity, Challenge{Code: code, ExpiresAt: expiresAt}); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf(
		`<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>`,
		code, int(s.ttl.Minutes()),
	)
	if err := s.email.Send(ctx, identity, subject, body); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// Verify checks submitted against the pending challenge for identity.
// On a match the challenge is consumed and cannot be replayed. A mismatch
// leaves the challenge pending, so a later correct submission still works.
// Expired challenges are removed and reported as domain.ErrOTPExpired.
func (s *Service) Verify(ctx context.Context, identity, submitted string) error {
	ch, err := s.store.Get(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return domain.ErrOTPNotFound
		}
		return fmt.Errorf("fetch challenge: %w", err)
	}

	if !ch.ExpiresAt.After(s.now()) {
		if err := s.store.Delete(ctx, identity); err != nil {
			return fmt.Errorf("delete expired challenge: %w", err)
		}
		return domain.ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(submitted)) != 1 {
		return domain.ErrOTPMismatch
	}

	if err := s.store.Delete(ctx, identity); err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}

// generateCode returns a uniformly random zero-padded numeric code.
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for range codeDigits {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
