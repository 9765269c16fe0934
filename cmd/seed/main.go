// seed inserts a test user into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mohdfarhan7/michelanglo/internal/auth"
	"github.com/mohdfarhan7/michelanglo/internal/domain"
	"github.com/mohdfarhan7/michelanglo/internal/infrastructure/postgres"
	"github.com/mohdfarhan7/michelanglo/internal/repository"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password-123"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	digest, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	user, err := users.Create(ctx, repository.CreateUserInput{
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			fmt.Printf("seed user %s already exists, nothing to do\n", seedEmail)
			return
		}
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("seeded user %s (id %s), password %q\n", user.Email, user.ID, seedPassword)
}
