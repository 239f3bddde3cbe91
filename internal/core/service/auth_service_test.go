package service

import (
	"context"
	"testing"

	"github.com/ewout/snapvault/internal/core/domain"
	"github.com/ewout/snapvault/internal/infrastructure/sqlite"
)

func setupAuth(t *testing.T) (*AuthService, *sqlite.DB) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create state db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewAuthService(sqlite.NewUserRepository(db), "test-secret", "HS256"), db
}

func seedUser(t *testing.T, svc *AuthService, db *sqlite.DB, username, password string) {
	t.Helper()

	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := domain.NewUser(username, hash)
	if err := sqlite.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc, _ := setupAuth(t)

	hash, err := svc.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("password stored unhashed")
	}
	if !svc.VerifyPassword("hunter2hunter2", hash) {
		t.Error("correct password rejected")
	}
	if svc.VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestAuthenticateAndValidate(t *testing.T) {
	svc, db := setupAuth(t)
	seedUser(t, svc, db, "admin", "correct horse battery")

	token, err := svc.Authenticate(context.Background(), "admin", "correct horse battery")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username admin, got %s", claims.Username)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuth(t)
	seedUser(t, svc, db, "admin", "correct horse battery")

	if _, err := svc.Authenticate(context.Background(), "admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := svc.Authenticate(context.Background(), "ghost", "whatever"); err == nil {
		t.Error("unknown user accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := setupAuth(t)

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	// Token signed with a different secret must be rejected.
	other := NewAuthService(nil, "other-secret", "HS256")
	token, err := other.generateJWT("admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("token with wrong signature accepted")
	}
}
