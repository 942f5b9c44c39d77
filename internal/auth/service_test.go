package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/studyhall-live/relay-server/internal/store"
	"github.com/studyhall-live/relay-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return NewService(st, jwtConfig)
}

func TestRegister_RejectsInvalidUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ab", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}

	// Should be validated after trimming whitespace.
	if _, err := svc.Register(ctx, " ab ", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
}

func TestRegister_RejectsInvalidPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "abc", "12345"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestRegister_CreatesStudentWithStudentClaims(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, " alice ", "password123")
	if err != nil {
		t.Fatalf("expected registration success, got %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Username != "alice" || claims.Role != store.RoleStudent {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Should collide because the stored username is trimmed.
	if _, err := svc.Register(ctx, "alice", "password123"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin_CarriesStoredRole(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "prof", "supersecret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	// Idempotent on restart.
	if err := svc.EnsureAdmin(ctx, "prof", "supersecret"); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}

	token, err := svc.Login(ctx, "prof", "supersecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Role != store.RoleAdmin {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}

	if _, err := svc.Login(ctx, "prof", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateToken_RejectsWrongIssuer(t *testing.T) {
	svc := newTestAuthService(t)

	other := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "someone-else",
		Audience: "test",
		TTL:      time.Hour,
	}
	token, err := GenerateToken(other, 1, "alice", store.RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("token with wrong issuer accepted")
	}
}
