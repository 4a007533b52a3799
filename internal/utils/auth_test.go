package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/config"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			ExpirationHours: 1,
		},
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPasswordHash("Admin@123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := &models.User{
		ID:     uuid.New(),
		Email:  "gestor@restaurante.com",
		Role:   models.RoleGestor,
		UnitID: uuid.New(),
	}

	token, err := GenerateJWT(user, cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token, cfg)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %s, want %s", claims.Email, user.Email)
	}
	if claims.Role != models.RoleGestor {
		t.Errorf("Role = %s, want %s", claims.Role, models.RoleGestor)
	}
	if claims.UnitID != user.UnitID {
		t.Errorf("UnitID = %s, want %s", claims.UnitID, user.UnitID)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{ID: uuid.New(), Role: models.RoleOperacional}

	token, err := GenerateJWT(user, cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "another-secret"
	if _, err := ValidateJWT(token, other); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Admin@X.Com "); got != "admin@x.com" {
		t.Errorf("NormalizeEmail = %q, want %q", got, "admin@x.com")
	}
}
