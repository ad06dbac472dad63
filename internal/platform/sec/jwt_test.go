// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

const (
	testSecret   = "test-secret-0123456789"
	testIssuer   = "pitchside.club"
	testAudience = "clubapi"
)

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, testIssuer, testAudience, time.Hour, 168*time.Hour)
	require.NoError(t, err)
	return service
}

func testIdentity() *sec.UserContext {
	return &sec.UserContext{
		ID:       "0190a9e4-2f3b-7000-8000-000000000001",
		Email:    "coach@pitchside.club",
		Username: "coach",
		Role:     sec.RoleCoach,
		Status:   sec.StatusActive,
	}
}

/*
TestTokenService_RoundTrip verifies that an issued access token decodes back
to the identity it was minted for.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestService(t)
	identity := testIdentity()

	token, expiresAt, err := service.IssueAccessToken(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.Decode(token, service.AccessAudience())
	require.NoError(t, err)

	assert.Equal(t, identity.ID, claims.Subject)
	assert.Equal(t, identity.Email, claims.Email)
	assert.Equal(t, identity.Username, claims.Username)
	assert.Equal(t, string(sec.RoleCoach), claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_ExpiryBoundary pins down the exact expiry semantics: one
second before expiry the token is valid, at the expiry instant it is already
expired.
*/
func TestTokenService_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	currentTime := issuedAt

	service := newTestService(t).WithClock(func() time.Time { return currentTime })

	token, expiresAt, err := service.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	// 1. One second before expiry: still valid.
	currentTime = expiresAt.Add(-time.Second)
	_, err = service.Decode(token, service.AccessAudience())
	assert.NoError(t, err)

	// 2. At the exact expiry instant: expired, no leeway.
	currentTime = expiresAt
	_, err = service.Decode(token, service.AccessAudience())
	require.Error(t, err)
	assert.Equal(t, "TOKEN_EXPIRED", apperr.Code(err))

	// 3. Well past expiry: same classification.
	currentTime = expiresAt.Add(time.Hour)
	_, err = service.Decode(token, service.AccessAudience())
	assert.Equal(t, "TOKEN_EXPIRED", apperr.Code(err))
}

/*
TestTokenService_ForeignSignature ensures a token signed with a different
secret is rejected as invalid, not expired.
*/
func TestTokenService_ForeignSignature(t *testing.T) {
	service := newTestService(t)

	foreign, err := sec.NewTokenService("another-secret-entirely", testIssuer, testAudience, time.Hour, 168*time.Hour)
	require.NoError(t, err)

	token, _, err := foreign.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = service.Decode(token, service.AccessAudience())
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperr.Code(err))
}

/*
TestTokenService_GarbageInput checks classification of structurally broken
token strings.
*/
func TestTokenService_GarbageInput(t *testing.T) {
	service := newTestService(t)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := service.Decode(input, service.AccessAudience())
		require.Error(t, err)
		assert.Equal(t, "TOKEN_INVALID", apperr.Code(err))
	}
}

/*
TestTokenService_AudienceIsolation proves the two token families are mutually
unverifiable: a refresh token fails access verification and vice versa.
*/
func TestTokenService_AudienceIsolation(t *testing.T) {
	service := newTestService(t)
	identity := testIdentity()

	accessToken, _, err := service.IssueAccessToken(identity)
	require.NoError(t, err)
	refreshToken, _, err := service.IssueRefreshToken(identity)
	require.NoError(t, err)

	// 1. Each family verifies against its own audience.
	_, err = service.Decode(accessToken, service.AccessAudience())
	assert.NoError(t, err)
	_, err = service.Decode(refreshToken, service.RefreshAudience())
	assert.NoError(t, err)

	// 2. Cross-family verification fails as invalid.
	_, err = service.Decode(refreshToken, service.AccessAudience())
	assert.Equal(t, "TOKEN_INVALID", apperr.Code(err))
	_, err = service.Decode(accessToken, service.RefreshAudience())
	assert.Equal(t, "TOKEN_INVALID", apperr.Code(err))
}

/*
TestNewTokenService_Validation covers constructor rejection of unusable
configurations.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		accessTTL  time.Duration
		refreshTTL time.Duration
	}{
		{"empty_secret", "", time.Hour, 168 * time.Hour},
		{"zero_access_ttl", testSecret, 0, time.Hour},
		{"access_equals_refresh", testSecret, time.Hour, time.Hour},
		{"access_exceeds_refresh", testSecret, 2 * time.Hour, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.secret, testIssuer, testAudience, tt.accessTTL, tt.refreshTTL)
			assert.Error(t, err)
		})
	}
}
