// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, the
// Role/Permission catalog) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pitchside/clubapi/internal/platform/apperr"
)

// AuthClaims represents the payload embedded inside a signed token.
//
// # Hint, Not Truth
//
// Claims are only a pointer back to the account: every verification re-reads
// the account record and rebuilds the identity from CURRENT state, so a
// role change or deactivation takes effect before the token expires.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenService mints and verifies HS256-signed access and refresh tokens.
//
// # Immutability
//
// The signing secret, issuer, audience, and TTLs are fixed at construction
// from process-wide configuration and never mutated afterwards. Tokens are
// immutable once issued; the only way to change a claim is to reissue.
type TokenService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService from validated configuration.
//
// It fails when the secret is empty or when the access TTL is not strictly
// shorter than the refresh TTL.
func NewTokenService(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token TTLs must be positive")
	}
	if accessTTL >= refreshTTL {
		return nil, fmt.Errorf("sec: access TTL (%s) must be strictly less than refresh TTL (%s)", accessTTL, refreshTTL)
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the wall clock. Test hook only — production code always
// runs on [time.Now].
func (service *TokenService) WithClock(clock func() time.Time) *TokenService {
	service.now = clock
	return service
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// AccessAudience returns the 'aud' claim carried by access tokens.
func (service *TokenService) AccessAudience() string { return service.audience }

// RefreshAudience returns the 'aud' claim carried by refresh tokens.
//
// The suffix keeps the two token families mutually unverifiable: a refresh
// token presented as a bearer credential fails the audience check.
func (service *TokenService) RefreshAudience() string {
	return service.audience + "/refresh"
}

// # Token Issuance

// IssueAccessToken mints a short-lived access token for the given identity.
func (service *TokenService) IssueAccessToken(identity *UserContext) (string, time.Time, error) {
	return service.issue(identity, service.AccessAudience(), service.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the given identity.
func (service *TokenService) IssueRefreshToken(identity *UserContext) (string, time.Time, error) {
	return service.issue(identity, service.RefreshAudience(), service.refreshTTL)
}

// issue signs a claim bundle. Deterministic given identity + clock; the only
// I/O is the clock read.
func (service *TokenService) issue(identity *UserContext, audience string, ttl time.Duration) (string, time.Time, error) {
	currentTime := service.now()
	expiresAt := currentTime.Add(ttl)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:    identity.Email,
		Username: identity.Username,
		Role:     string(identity.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// # Token Verification

// Decode checks the signature, structure, issuer, audience, and expiry of a
// token string and returns its claims.
//
// # Error Classification
//
//   - Expired token → [apperr.TokenExpired]
//   - Anything else (bad signature, wrong audience, garbage input) → [apperr.TokenInvalid]
//
// Expiry is checked strictly: a token presented at exactly its expiry instant
// is already expired. No leeway is applied to 'exp'.
func (service *TokenService) Decode(tokenString, expectedAudience string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(expectedAudience),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.TokenInvalid()
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperr.TokenInvalid()
	}

	return claims, nil
}
