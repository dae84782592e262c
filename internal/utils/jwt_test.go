package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-org-site/models"
	"github.com/golang-jwt/jwt/v5"
)

var testPrincipal = models.Principal{UserID: 123, Username: "alice@example.com", Role: models.RoleAdmin}

func TestGenerateJWTToken_AccessClaims(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", testPrincipal, models.AccessToken, time.Hour, "secret-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Fatal("expected non-empty SignedString")
	}

	claims := token.Claims
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %s", claims.Issuer)
	}
	if claims.Subject != "123" {
		t.Errorf("expected subject '123', got %s", claims.Subject)
	}
	if claims.Username != testPrincipal.Username {
		t.Errorf("expected username %s, got %s", testPrincipal.Username, claims.Username)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("expected role ADMIN, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected jti to be set")
	}
	if token.UserID != 123 {
		t.Errorf("expected UserID 123, got %d", token.UserID)
	}
}

func TestGenerateJWTToken_RefreshHasNoRole(t *testing.T) {
	token, err := GenerateJWTToken("iss", testPrincipal, models.RefreshToken, time.Hour, "refresh-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.Claims.Role != "" {
		t.Errorf("refresh token must not carry a role, got %q", token.Claims.Role)
	}

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "refresh-key", "iss")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.Claims.Role != "" {
		t.Errorf("parsed refresh token must not carry a role, got %q", parsed.Claims.Role)
	}
}

func TestGenerateJWTToken_SameSecondTokensDiffer(t *testing.T) {
	a, err := GenerateJWTToken("iss", testPrincipal, models.RefreshToken, time.Hour, "key")
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateJWTToken("iss", testPrincipal, models.RefreshToken, time.Hour, "key")
	if err != nil {
		t.Fatal(err)
	}

	if a.SignedString == b.SignedString {
		t.Fatal("two tokens issued back to back must differ")
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"negative duration", "iss", -time.Minute, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, testPrincipal, models.AccessToken, tt.duration, tt.key)
			if !errors.Is(err, ErrInvalidTokenParams) {
				t.Errorf("expected ErrInvalidTokenParams, got %v", err)
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", testPrincipal, models.AccessToken, 5*time.Minute, "secret-key")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "secret-key", "test-issuer")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.UserID != testPrincipal.UserID {
		t.Errorf("expected UserID %d, got %d", testPrincipal.UserID, parsed.UserID)
	}
	if got := parsed.Principal(); got != testPrincipal {
		t.Errorf("expected principal %+v, got %+v", testPrincipal, got)
	}
}

func TestValidateAndParseJWTToken_WrongKey(t *testing.T) {
	token, _ := GenerateJWTToken("iss", testPrincipal, models.AccessToken, time.Minute, "access-key")

	_, err := ValidateAndParseJWTToken(token.SignedString, "refresh-key", "iss")
	if err == nil {
		t.Fatal("a token signed with another secret must be rejected")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	token, _ := GenerateJWTToken("iss-a", testPrincipal, models.AccessToken, time.Minute, "key")

	_, err := ValidateAndParseJWTToken(token.SignedString, "key", "iss-b")
	if !errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		t.Fatalf("expected ErrTokenInvalidIssuer, got %v", err)
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iss",
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = ValidateAndParseJWTToken(signed, "key", "iss")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateAndParseJWTToken_MissingExpiry(t *testing.T) {
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "iss", Subject: "1"},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))

	if _, err := ValidateAndParseJWTToken(signed, "key", "iss"); err == nil {
		t.Fatal("token without exp must be rejected")
	}
}

func TestValidateAndParseJWTToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iss",
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("key"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateAndParseJWTToken(signed, "key", "iss"); err == nil {
		t.Fatal("HS512 token must be rejected")
	}
}

func TestValidateAndParseJWTToken_BadSubject(t *testing.T) {
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iss",
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))

	_, err := ValidateAndParseJWTToken(signed, "key", "iss")
	if err == nil || !strings.Contains(err.Error(), "converting UserID") {
		t.Fatalf("expected subject conversion error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_Garbage(t *testing.T) {
	if _, err := ValidateAndParseJWTToken("not.a.jwt", "key", "iss"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer tok", want: "tok"},
		{name: "surrounding spaces", header: "  Bearer tok  ", want: "tok"},
		{name: "empty", header: "", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "too many parts", header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
