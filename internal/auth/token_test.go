package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

const tokenTestKey = "token-test-secret-at-least-32ch!!"

var tokenTestIdentity = domain.Identity{UserID: "user-1", Email: "test@example.com"}

// newFrozenIssuer returns an issuer whose clock is pinned to a fixed
// instant, advanceable by the test.
func newFrozenIssuer(t *testing.T, algorithm string) (*TokenIssuer, *time.Time) {
	t.Helper()
	issuer, err := NewTokenIssuer([]byte(tokenTestKey), algorithm, 24*time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }
	return issuer, &now
}

func TestNewTokenIssuer_RejectsNonHMACAlgorithm(t *testing.T) {
	for _, alg := range []string{"RS256", "ES256", "none", "HS999"} {
		if _, err := NewTokenIssuer([]byte(tokenTestKey), alg, time.Hour); err == nil {
			t.Errorf("algorithm %q: want error, got nil", alg)
		}
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		issuer, _ := newFrozenIssuer(t, alg)

		signed, err := issuer.Issue(tokenTestIdentity, time.Hour)
		if err != nil {
			t.Fatalf("%s: issue: %v", alg, err)
		}

		identity, err := issuer.Verify(signed)
		if err != nil {
			t.Fatalf("%s: verify: %v", alg, err)
		}
		if identity != tokenTestIdentity {
			t.Errorf("%s: identity = %+v, want %+v", alg, identity, tokenTestIdentity)
		}
	}
}

func TestVerify_ZeroTTL_IsExpired(t *testing.T) {
	issuer, now := newFrozenIssuer(t, "HS256")

	signed, err := issuer.Issue(tokenTestIdentity, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	*now = now.Add(time.Second)
	if _, err := issuer.Verify(signed); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerify_PastExpiry_IsExpired(t *testing.T) {
	issuer, now := newFrozenIssuer(t, "HS256")

	signed, err := issuer.Issue(tokenTestIdentity, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	*now = now.Add(2 * time.Hour)
	if _, err := issuer.Verify(signed); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongKey_IsInvalid(t *testing.T) {
	issuer, _ := newFrozenIssuer(t, "HS256")
	other, _ := newFrozenIssuer(t, "HS256")
	other.key = []byte("another-secret-also-32-chars-min!")

	signed, err := issuer.Issue(tokenTestIdentity, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_AlgorithmConfusion_IsInvalid(t *testing.T) {
	hs256, _ := newFrozenIssuer(t, "HS256")
	hs512, _ := newFrozenIssuer(t, "HS512")

	signed, err := hs512.Issue(tokenTestIdentity, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := hs256.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Garbage_IsInvalid(t *testing.T) {
	issuer, _ := newFrozenIssuer(t, "HS256")

	for _, raw := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := issuer.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("token %q: want ErrTokenInvalid, got %v", raw, err)
		}
	}
}
