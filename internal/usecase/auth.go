package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohdfarhan7/michelanglo/internal/auth"
	"github.com/mohdfarhan7/michelanglo/internal/domain"
	"github.com/mohdfarhan7/michelanglo/internal/metrics"
	"github.com/mohdfarhan7/michelanglo/internal/repository"
)

// tokenIssuer is the subset of auth.TokenIssuer the usecase needs.
type tokenIssuer interface {
	Issue(identity domain.Identity, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// otpService is the subset of otp.Service the usecase needs.
type otpService interface {
	Send(ctx context.Context, identity string) error
	Verify(ctx context.Context, identity, submitted string) error
}

type AuthUsecase struct {
	users  repository.UserRepository
	tokens tokenIssuer
	otp    otpService
}

func NewAuthUsecase(users repository.UserRepository, tokens tokenIssuer, otp otpService) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
		otp:    otp,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Mobile   *string
	Password string
}

// Register hashes the password and creates the user. Fails with
// domain.ErrEmailTaken when the email is already registered.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, repository.CreateUserInput{
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: digest,
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return user, nil
}

// Login checks the credentials and returns a signed bearer token alongside
// the user. Unknown emails and wrong passwords both surface as
// domain.ErrInvalidCredentials so callers cannot probe which emails exist.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email}, u.tokens.TTL())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// Profile returns the user record for an already-verified identity.
func (u *AuthUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return u.users.FindByID(ctx, userID)
}

// SendOTP issues a one-time code for a known identity. Fails with
// domain.ErrUserNotFound when no account has that email.
func (u *AuthUsecase) SendOTP(ctx context.Context, email string) error {
	if _, err := u.users.FindByEmail(ctx, email); err != nil {
		return err
	}

	if err := u.otp.Send(ctx, email); err != nil {
		return err
	}

	metrics.OTPSentTotal.Inc()
	return nil
}

// VerifyOTP checks the submitted code and, on success, marks the account's
// email verified.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := u.otp.Verify(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPExpired):
			metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		case errors.Is(err, domain.ErrOTPMismatch), errors.Is(err, domain.ErrOTPNotFound):
			metrics.OTPVerificationsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	if err := u.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	return nil
}
