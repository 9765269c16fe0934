package repository

import (
	"context"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

type CreateUserInput struct {
	Name         string
	Email        string
	Mobile       *string
	PasswordHash string
}

type UserRepository interface {
	// Create inserts a new user, failing with domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// MarkEmailVerified flips the verified flag after a successful OTP check.
	MarkEmailVerified(ctx context.Context, id string) error
}
