package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"codefit/internal/repository"
)

// LicenseInfo is the locally verified view of a license token
type LicenseInfo struct {
	Plan      string    `json:"plan"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Valid     bool      `json:"valid"`
}

type licenseClaims struct {
	Plan  string `json:"plan"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// LicenseService activates license keys against the cloud backend and
// verifies the returned tokens locally. Tokens are HS256 JWTs signed with a
// shared secret, so verification needs no network round trip.
type LicenseService struct {
	secret []byte
	cloud  *CloudService
	state  *repository.StateRepository
	clock  Clock
}

// NewLicenseService creates a license service
func NewLicenseService(secret string, cloud *CloudService, state *repository.StateRepository, clock Clock) *LicenseService {
	return &LicenseService{
		secret: []byte(secret),
		cloud:  cloud,
		state:  state,
		clock:  clock,
	}
}

// Activate exchanges a license key for a signed token and stores it after
// local verification.
func (l *LicenseService) Activate(ctx context.Context, key string) (*LicenseInfo, error) {
	var result struct {
		Token string `json:"token"`
	}
	if err := l.cloud.Call(ctx, FnActivateLicense, map[string]string{"key": key}, &result); err != nil {
		return nil, err
	}

	info, err := l.Verify(result.Token)
	if err != nil {
		return nil, fmt.Errorf("activation returned an invalid token: %w", err)
	}

	if err := l.state.Set(repository.KeyLicense, result.Token); err != nil {
		return nil, fmt.Errorf("storing license: %w", err)
	}
	return info, nil
}

// Current verifies and returns the stored license, or nil if none is stored
func (l *LicenseService) Current() (*LicenseInfo, error) {
	var token string
	found, err := l.state.Get(repository.KeyLicense, &token)
	if err != nil {
		return nil, err
	}
	if !found || token == "" {
		return nil, nil
	}
	return l.Verify(token)
}

// Verify checks a license token's signature and expiry locally
func (l *LicenseService) Verify(token string) (*LicenseInfo, error) {
	claims := &licenseClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return l.secret, nil
	}, jwt.WithTimeFunc(l.clock.Now))
	if err != nil {
		return nil, fmt.Errorf("verifying license: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("license token is not valid")
	}

	info := &LicenseInfo{
		Plan:  claims.Plan,
		Email: claims.Email,
		Valid: true,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
