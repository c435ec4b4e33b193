package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vihcare/vihcare/internal/config"
	"github.com/vihcare/vihcare/internal/domain"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	return NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "vihcare-api",
	})
}

func testClaims() *domain.Claims {
	staffID := "3"
	return &domain.Claims{
		UserID:  uuid.New(),
		Email:   "medico@example.org",
		Role:    domain.RoleMedico,
		StaffID: &staffID,
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testManager(t)
	claims := testClaims()

	pair, err := m.GenerateTokenPair(claims)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q", pair.TokenType)
	}

	got, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if got.UserID != claims.UserID || got.Email != claims.Email || got.Role != claims.Role {
		t.Errorf("claims = %+v, want %+v", got, claims)
	}
	if got.StaffID == nil || *got.StaffID != "3" {
		t.Errorf("StaffID = %v", got.StaffID)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager(t)
	pair, err := m.GenerateTokenPair(testClaims())
	if err != nil {
		t.Fatal(err)
	}

	// A refresh token must never pass as an access token, and vice versa.
	if _, err := m.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("refresh as access: err = %v", err)
	}
	if _, err := m.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("access as refresh: err = %v", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	pair, err := testManager(t).GenerateTokenPair(testClaims())
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTManager(config.JWTConfig{
		Secret:         "another-secret-another-secret-ab",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "vihcare-api",
	})
	if _, err := other.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := testManager(t)
	if _, err := m.ValidateAccessToken("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
