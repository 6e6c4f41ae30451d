package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestKeys(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	dir := t.TempDir()
	privPath = filepath.Join(dir, "jwt_private.pem")
	pubPath = filepath.Join(dir, "jwt_public.pem")

	privPem := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(privPath, privPem, 0o600); err != nil {
		t.Fatalf("write private key: %v", err)
	}

	pubDer, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDer})
	if err := os.WriteFile(pubPath, pubPem, 0o600); err != nil {
		t.Fatalf("write public key: %v", err)
	}

	return privPath, pubPath
}

func TestGenerateAndVerifyTokenPair(t *testing.T) {
	privPath, pubPath := writeTestKeys(t)
	mgr, err := NewJWTManager(privPath, pubPath, "brilho-test")
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	pair, err := mgr.GenerateTokenPair("user-123", 15*time.Minute, 24*time.Hour, 3, "local", []string{"admin"})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	claims, err := mgr.VerifyToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken(access): %v", err)
	}
	if claims["sub"] != "user-123" {
		t.Errorf("sub = %v, want user-123", claims["sub"])
	}
	if claims["typ"] != string(AccessToken) {
		t.Errorf("typ = %v, want access", claims["typ"])
	}
	if claims["iss"] != "brilho-test" {
		t.Errorf("iss = %v, want brilho-test", claims["iss"])
	}
	if ver, _ := claims["ver"].(float64); int(ver) != 3 {
		t.Errorf("ver = %v, want 3", claims["ver"])
	}

	refreshClaims, err := mgr.VerifyToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyToken(refresh): %v", err)
	}
	if refreshClaims["typ"] != string(RefreshToken) {
		t.Errorf("refresh typ = %v, want refresh", refreshClaims["typ"])
	}
	if refreshClaims["jti"] != pair.JTI {
		t.Errorf("refresh jti = %v, want %v", refreshClaims["jti"], pair.JTI)
	}
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	privPath, pubPath := writeTestKeys(t)
	mgr, err := NewJWTManager(privPath, pubPath, "brilho-test")
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	if _, err := mgr.VerifyToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	privPath, pubPath := writeTestKeys(t)
	mgr, err := NewJWTManager(privPath, pubPath, "brilho-test")
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	// Expired well past the verification leeway.
	pair, err := mgr.GenerateTokenPair("user-123", -time.Hour, -time.Hour, 1, "local", nil)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := mgr.VerifyToken(pair.AccessToken); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestHashToken_StableAndDistinct(t *testing.T) {
	a := HashToken("token-a")
	if a != HashToken("token-a") {
		t.Error("HashToken not deterministic")
	}
	if a == HashToken("token-b") {
		t.Error("distinct tokens hashed to same value")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
