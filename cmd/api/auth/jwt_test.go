package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portal-noticias/config"
)

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	manager, err := NewJWTManager(config.APIConfig{JWTIssuer: "issuer-for-test"})
	if err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
	if manager != nil {
		t.Fatalf("expected nil manager when env is invalid")
	}
}

func TestNewJWTManagerUsesDefaultIssuer(t *testing.T) {
	manager, err := NewJWTManager(config.APIConfig{JWTSecret: "test-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manager.issuer != "portal-noticias" {
		t.Fatalf("expected default issuer portal-noticias, got %q", manager.issuer)
	}
	if manager.ttl != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", manager.ttl)
	}
}

func TestJWTManagerSignAndParseRoundTrip(t *testing.T) {
	manager, err := NewJWTManager(config.APIConfig{JWTSecret: "test-secret", JWTIssuer: "test-issuer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := manager.Sign("editor-001", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}

	userCode, role, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if userCode != "editor-001" {
		t.Fatalf("expected subject editor-001, got %q", userCode)
	}
	if role != RoleAdmin {
		t.Fatalf("expected role %q, got %q", RoleAdmin, role)
	}
}

func TestJWTManagerParseRejectsInvalidSignature(t *testing.T) {
	manager := &JWTManager{
		secret: []byte("service-secret"),
		issuer: "issuer",
		ttl:    time.Hour,
	}

	forgedClaims := jwt.MapClaims{
		"sub":  "user-001",
		"role": RoleEditor,
		"iss":  "issuer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	forgedToken := jwt.NewWithClaims(jwt.SigningMethodHS256, forgedClaims)
	tokenString, err := forgedToken.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("failed to sign forged token: %v", err)
	}

	_, _, err = manager.Parse(tokenString)
	if err == nil {
		t.Fatalf("expected parse error for invalid signature")
	}
}

func TestJWTManagerParseRejectsMissingSubClaim(t *testing.T) {
	manager := &JWTManager{
		secret: []byte("service-secret"),
		issuer: "issuer",
		ttl:    time.Hour,
	}

	claims := jwt.MapClaims{
		"role": RoleEditor,
		"iss":  "issuer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(manager.secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, _, err = manager.Parse(tokenString)
	if err == nil {
		t.Fatalf("expected parse error for missing sub claim")
	}
	if !strings.Contains(err.Error(), "token missing sub claim") {
		t.Fatalf("expected missing sub error, got %v", err)
	}
}

func TestJWTManagerParseAllowsMissingRoleClaimAsEmptyString(t *testing.T) {
	manager := &JWTManager{
		secret: []byte("service-secret"),
		issuer: "issuer",
		ttl:    time.Hour,
	}

	claims := jwt.MapClaims{
		"sub": "user-001",
		"iss": "issuer",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(manager.secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	userCode, role, err := manager.Parse(tokenString)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if userCode != "user-001" {
		t.Fatalf("expected userCode user-001, got %q", userCode)
	}
	if role != "" {
		t.Fatalf("expected empty role when claim is missing, got %q", role)
	}
}

func TestJWTManagerParseRejectsOtherIssuer(t *testing.T) {
	manager := &JWTManager{secret: []byte("service-secret"), issuer: "issuer", ttl: time.Hour}
	other := &JWTManager{secret: []byte("service-secret"), issuer: "someone-else", ttl: time.Hour}

	tokenString, err := other.Sign("editor-001", RoleAdmin)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, _, err := manager.Parse(tokenString); err == nil {
		t.Fatalf("expected parse error for foreign issuer")
	}
}

func TestJWTManagerParseRejectsExpired(t *testing.T) {
	manager := &JWTManager{secret: []byte("service-secret"), issuer: "issuer", ttl: -time.Minute}

	tokenString, err := manager.Sign("editor-001", RoleAdmin)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, _, err := manager.Parse(tokenString); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}
