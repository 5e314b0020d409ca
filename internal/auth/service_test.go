package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, opts ...ServiceOption) (Service, *MemoryAdminUserRepository) {
	t.Helper()
	repo := NewMemoryAdminUserRepository()
	base := []ServiceOption{WithBcryptCost(bcrypt.MinCost)}
	svc := NewService(repo, "test-secret", append(base, opts...)...)
	return svc, repo
}

func registerAdmin(t *testing.T, svc Service) *AdminUser {
	t.Helper()
	user, err := svc.Register(context.Background(), "admin@example.com", "Admin", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerAdmin(t, svc)

	session, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("session user %s, want %s", session.UserID, user.ID)
	}

	verified, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.UserID != user.ID || verified.Email != "admin@example.com" {
		t.Fatalf("unexpected verified session %#v", verified)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	registerAdmin(t, svc)

	if _, err := svc.Login(context.Background(), "  Admin@Example.COM ", "correct-horse"); err != nil {
		t.Fatalf("login with unnormalized email: %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	registerAdmin(t, svc)

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService(t)
	registerAdmin(t, svc)

	session, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	tampered := session.Token[:len(session.Token)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	current := time.Now()
	svc, _ := newTestService(t,
		WithClock(func() time.Time { return current }),
		WithSessionTTL(time.Minute),
	)
	registerAdmin(t, svc)

	session, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := svc.Verify(session.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsTokenFromOtherSecret(t *testing.T) {
	svc, _ := newTestService(t)
	other := NewService(NewMemoryAdminUserRepository(), "different-secret", WithBcryptCost(bcrypt.MinCost))
	registerAdmin(t, other)

	session, err := other.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Verify(session.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign token, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	registerAdmin(t, svc)

	_, err := svc.Register(context.Background(), "admin@example.com", "Second", "another-pass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "admin@example.com", "Admin", "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}
