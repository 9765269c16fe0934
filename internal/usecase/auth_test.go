package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohdfarhan7/michelanglo/internal/auth"
	"github.com/mohdfarhan7/michelanglo/internal/domain"
	"github.com/mohdfarhan7/michelanglo/internal/repository"
	"github.com/mohdfarhan7/michelanglo/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create            func(ctx context.Context, in repository.CreateUserInput) (*domain.User, error)
	findByEmail       func(ctx context.Context, email string) (*domain.User, error)
	findByID          func(ctx context.Context, id string) (*domain.User, error)
	markEmailVerified func(ctx context.Context, id string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, in repository.CreateUserInput) (*domain.User, error) {
	return r.create(ctx, in)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, id string) error {
	return r.markEmailVerified(ctx, id)
}

type fakeTokenIssuer struct {
	issue func(identity domain.Identity, ttl time.Duration) (string, error)
}

func (i *fakeTokenIssuer) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	return i.issue(identity, ttl)
}

func (i *fakeTokenIssuer) TTL() time.Duration { return 24 * time.Hour }

type fakeOTPService struct {
	send   func(ctx context.Context, identity string) error
	verify func(ctx context.Context, identity, submitted string) error
}

func (s *fakeOTPService) Send(ctx context.Context, identity string) error {
	return s.send(ctx, identity)
}

func (s *fakeOTPService) Verify(ctx context.Context, identity, submitted string) error {
	return s.verify(ctx, identity, submitted)
}

// ---- helpers ----

var testUser = &domain.User{ID: "user-1", Name: "Test User", Email: "test@example.com"}

func staticUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email != testUser.Email {
				return nil, domain.ErrUserNotFound
			}
			return testUser, nil
		},
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != testUser.ID {
				return nil, domain.ErrUserNotFound
			}
			return testUser, nil
		},
	}
}

// ---- Register ----

func TestRegister_StoresVerifiableHash(t *testing.T) {
	const password = "hunter2hunter2"
	var captured repository.CreateUserInput

	repo := &fakeUserRepo{
		create: func(_ context.Context, in repository.CreateUserInput) (*domain.User, error) {
			captured = in
			return &domain.User{ID: "user-1", Name: in.Name, Email: in.Email}, nil
		},
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, &fakeOTPService{})

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name: "Test User", Email: "test@example.com", Password: password,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("user ID not set")
	}

	if captured.PasswordHash == password {
		t.Fatal("password stored in plaintext")
	}
	ok, err := auth.VerifyPassword(password, captured.PasswordHash)
	if err != nil || !ok {
		t.Errorf("stored hash does not verify against the password (ok=%v, err=%v)", ok, err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, _ repository.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, &fakeOTPService{})

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name: "Test User", Email: "test@example.com", Password: "hunter2hunter2",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

// ---- Login ----

func TestLogin_Success_IssuesTokenForIdentity(t *testing.T) {
	const password = "hunter2hunter2"
	digest, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	stored := &domain.User{ID: "user-1", Email: "test@example.com", PasswordHash: digest}

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return stored, nil
		},
	}
	var issuedFor domain.Identity
	tokens := &fakeTokenIssuer{
		issue: func(identity domain.Identity, _ time.Duration) (string, error) {
			issuedFor = identity
			return "signed-token", nil
		},
	}
	uc := usecase.NewAuthUsecase(repo, tokens, &fakeOTPService{})

	token, user, err := uc.Login(context.Background(), stored.Email, password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "signed-token" {
		t.Errorf("token = %q, want %q", token, "signed-token")
	}
	if user.ID != stored.ID {
		t.Errorf("user ID = %q, want %q", user.ID, stored.ID)
	}
	if issuedFor.UserID != stored.ID || issuedFor.Email != stored.Email {
		t.Errorf("token issued for %+v, want the stored user", issuedFor)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	digest, err := auth.HashPassword("the-right-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: "test@example.com", PasswordHash: digest}, nil
		},
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, &fakeOTPService{})

	_, _, err = uc.Login(context.Background(), "test@example.com", "the-wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_DoesNotRevealExistence(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, &fakeOTPService{})

	_, _, err := uc.Login(context.Background(), "nobody@example.com", "whatever-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials (not ErrUserNotFound), got %v", err)
	}
}

func TestLogin_RepoError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, repoErr
		},
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, &fakeOTPService{})

	_, _, err := uc.Login(context.Background(), "test@example.com", "whatever-password")
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

func TestRegisterThenLogin_TokenVerifiesToSameIdentity(t *testing.T) {
	// Wires the real hasher and the real token issuer; only storage is faked.
	var stored *domain.User
	repo := &fakeUserRepo{
		create: func(_ context.Context, in repository.CreateUserInput) (*domain.User, error) {
			stored = &domain.User{ID: "user-42", Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash}
			return stored, nil
		},
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if stored == nil || stored.Email != email {
				return nil, domain.ErrUserNotFound
			}
			return stored, nil
		},
	}
	tokens, err := auth.NewTokenIssuer([]byte("roundtrip-test-secret-32-chars!!!"), "HS256", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	uc := usecase.NewAuthUsecase(repo, tokens, &fakeOTPService{})

	const password = "hunter2hunter2"
	if _, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name: "Round Trip", Email: "rt@example.com", Password: password,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	signed, _, err := uc.Login(context.Background(), "rt@example.com", password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user-42" || identity.Email != "rt@example.com" {
		t.Errorf("identity = %+v, want the registered user", identity)
	}
}

// ---- SendOTP ----

func TestSendOTP_UnknownIdentity(t *testing.T) {
	uc := usecase.NewAuthUsecase(staticUserRepo(), &fakeTokenIssuer{}, &fakeOTPService{})

	err := uc.SendOTP(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestSendOTP_KnownIdentity_SendsCode(t *testing.T) {
	var sentTo string
	otp := &fakeOTPService{
		send: func(_ context.Context, identity string) error {
			sentTo = identity
			return nil
		},
	}
	uc := usecase.NewAuthUsecase(staticUserRepo(), &fakeTokenIssuer{}, otp)

	if err := uc.SendOTP(context.Background(), testUser.Email); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sentTo != testUser.Email {
		t.Errorf("code sent to %q, want %q", sentTo, testUser.Email)
	}
}

// ---- VerifyOTP ----

func TestVerifyOTP_Success_MarksEmailVerified(t *testing.T) {
	repo := staticUserRepo()
	var markedID string
	repo.markEmailVerified = func(_ context.Context, id string) error {
		markedID = id
		return nil
	}
	otp := &fakeOTPService{
		verify: func(_ context.Context, _, _ string) error { return nil },
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, otp)

	if err := uc.VerifyOTP(context.Background(), testUser.Email, "123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if markedID != testUser.ID {
		t.Errorf("marked user %q, want %q", markedID, testUser.ID)
	}
}

func TestVerifyOTP_Mismatch_DoesNotMarkVerified(t *testing.T) {
	repo := staticUserRepo()
	repo.markEmailVerified = func(_ context.Context, _ string) error {
		t.Error("MarkEmailVerified called after a mismatch")
		return nil
	}
	otp := &fakeOTPService{
		verify: func(_ context.Context, _, _ string) error { return domain.ErrOTPMismatch },
	}
	uc := usecase.NewAuthUsecase(repo, &fakeTokenIssuer{}, otp)

	err := uc.VerifyOTP(context.Background(), testUser.Email, "000000")
	if !errors.Is(err, domain.ErrOTPMismatch) {
		t.Errorf("want ErrOTPMismatch, got %v", err)
	}
}

func TestVerifyOTP_Expired(t *testing.T) {
	otp := &fakeOTPService{
		verify: func(_ context.Context, _, _ string) error { return domain.ErrOTPExpired },
	}
	uc := usecase.NewAuthUsecase(staticUserRepo(), &fakeTokenIssuer{}, otp)

	err := uc.VerifyOTP(context.Background(), testUser.Email, "123456")
	if !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("want ErrOTPExpired, got %v", err)
	}
}

func TestVerifyOTP_UnknownIdentity(t *testing.T) {
	uc := usecase.NewAuthUsecase(staticUserRepo(), &fakeTokenIssuer{}, &fakeOTPService{})

	err := uc.VerifyOTP(context.Background(), "nobody@example.com", "123456")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}
