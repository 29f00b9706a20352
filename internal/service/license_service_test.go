package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signLicense(t *testing.T, secret string, plan string, expires time.Time) string {
	t.Helper()

	claims := licenseClaims{
		Plan:  plan,
		Email: "dev@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test license: %v", err)
	}
	return token
}

func TestVerifyLicense(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc := NewLicenseService("shared-secret", nil, nil, fixedClock{now})

	token := signLicense(t, "shared-secret", "pro", now.Add(30*24*time.Hour))

	info, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !info.Valid || info.Plan != "pro" {
		t.Errorf("unexpected license info: %+v", info)
	}
	if info.Email != "dev@example.com" {
		t.Errorf("Email = %s", info.Email)
	}
}

func TestVerifyLicenseExpired(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc := NewLicenseService("shared-secret", nil, nil, fixedClock{now})

	token := signLicense(t, "shared-secret", "pro", now.Add(-time.Hour))

	if _, err := svc.Verify(token); err == nil {
		t.Error("expected error for expired license")
	}
}

func TestVerifyLicenseWrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc := NewLicenseService("shared-secret", nil, nil, fixedClock{now})

	token := signLicense(t, "other-secret", "pro", now.Add(time.Hour))

	if _, err := svc.Verify(token); err == nil {
		t.Error("expected error for wrong signing secret")
	}
}

func TestVerifyLicenseGarbage(t *testing.T) {
	svc := NewLicenseService("shared-secret", nil, nil, fixedClock{time.Now()})
	if _, err := svc.Verify("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
