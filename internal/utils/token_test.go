package utils

import (
	"testing"
	"time"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Name:     "Ada",
		Username: "ada",
		Role:     models.RoleStudent,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "ada" {
		t.Errorf("Username = %s, want ada", claims.Username)
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("Role = %s, want %s", claims.Role, models.RoleStudent)
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %s, want 42", claims.Subject)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := NewTokenManager("other-secret", time.Hour).Parse(token); err == nil {
		t.Error("Parse() with wrong secret should fail")
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)

	token, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Error("Parse() of expired token should fail")
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	if _, err := tm.Parse("not.a.token"); err == nil {
		t.Error("Parse() of malformed token should fail")
	}
}
