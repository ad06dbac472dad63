// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clubapi/internal/auth"
	"github.com/pitchside/clubapi/internal/platform/authz"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// newAuthAPI assembles the auth handler behind the guard chain the way the
// composition root does, on a controllable clock and with direct access to
// the backing account store.
func newAuthAPI(t *testing.T) (http.Handler, *func() time.Time, *memoryAccountRepository) {
	t.Helper()

	currentTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return currentTime }
	clockPtr := &clock

	tokens, err := sec.NewTokenService("test-secret", "pitchside.club", "clubapi", time.Hour, 168*time.Hour)
	require.NoError(t, err)
	tokens.WithClock(func() time.Time { return (*clockPtr)() })

	repo := newMemoryRepository()
	service := auth.NewService(repo, tokens).
		WithClock(func() time.Time { return (*clockPtr)() })
	handler := auth.NewHandler(service)

	registry := authz.NewRegistry()
	registry.MustDeclare("POST /api/v1/auth/register", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/login", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/refresh", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/logout", authz.RoutePolicy{Public: true})
	engine := authz.NewEngine(registry, service)

	router := chi.NewRouter()
	router.Use(engine.Middleware())
	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", handler.Routes())
	})

	return router, clockPtr, repo
}

type sessionBody struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	TokenType    string          `json:"tokenType"`
	ExpiresIn    int64           `json:"expiresIn"`
	User         sec.UserContext `json:"user"`
	IsFirstLogin bool            `json:"isFirstLogin"`
}

func postJSON(t *testing.T, handler http.Handler, path string, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest("POST", path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func getWithToken(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest("GET", path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthAPI_Lifecycle walks the full journey: register, login, read the
profile, then watch the token expire and the refresh flow recover it.
*/
func TestAuthAPI_Lifecycle(t *testing.T) {
	handler, clockPtr, _ := newAuthAPI(t)

	// 1. Register: 201 with a full session and the default viewer role.
	registered := postJSON(t, handler, "/api/v1/auth/register", map[string]string{
		"email": "alex@pitchside.club", "username": "alex",
		"password": "str0ng-passw0rd", "firstName": "Alex", "lastName": "Keeper",
	})
	require.Equal(t, http.StatusCreated, registered.Code, registered.Body.String())

	var regSession sessionBody
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &regSession))
	assert.Equal(t, "Bearer", regSession.TokenType)
	assert.Equal(t, int64(3600), regSession.ExpiresIn)
	assert.Equal(t, "viewer", string(regSession.User.Role))
	assert.True(t, regSession.IsFirstLogin)

	// 2. Login: 200, same account.
	loggedIn := postJSON(t, handler, "/api/v1/auth/login", map[string]string{
		"email": "alex@pitchside.club", "password": "str0ng-passw0rd",
	})
	require.Equal(t, http.StatusOK, loggedIn.Code)

	var loginSession sessionBody
	require.NoError(t, json.Unmarshal(loggedIn.Body.Bytes(), &loginSession))
	assert.Equal(t, regSession.User.ID, loginSession.User.ID)
	assert.True(t, loginSession.IsFirstLogin)

	// 3. Authenticated profile read through the guard chain.
	profile := getWithToken(t, handler, "/api/v1/auth/profile", loginSession.AccessToken)
	require.Equal(t, http.StatusOK, profile.Code)

	var identity sec.UserContext
	require.NoError(t, json.Unmarshal(profile.Body.Bytes(), &identity))
	assert.Equal(t, loginSession.User.ID, identity.ID)

	// 4. Advance past the access TTL: the token expires precisely.
	*clockPtr = func() time.Time { return time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC) }

	expired := getWithToken(t, handler, "/api/v1/auth/profile", loginSession.AccessToken)
	require.Equal(t, http.StatusUnauthorized, expired.Code)
	assert.Contains(t, expired.Body.String(), "TOKEN_EXPIRED")

	// 5. The refresh token is still good and mints a working access token.
	refreshed := postJSON(t, handler, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": loginSession.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refreshed.Code)

	var refreshBody struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(refreshed.Body.Bytes(), &refreshBody))

	recovered := getWithToken(t, handler, "/api/v1/auth/me", refreshBody.AccessToken)
	assert.Equal(t, http.StatusOK, recovered.Code)
}

/*
TestAuthAPI_LoginFailures verifies identical failure bodies for unknown email
and wrong password, and validation of malformed input.
*/
func TestAuthAPI_LoginFailures(t *testing.T) {
	handler, _, _ := newAuthAPI(t)

	postJSON(t, handler, "/api/v1/auth/register", map[string]string{
		"email": "alex@pitchside.club", "username": "alex",
		"password": "str0ng-passw0rd", "firstName": "Alex", "lastName": "Keeper",
	})

	unknown := postJSON(t, handler, "/api/v1/auth/login", map[string]string{
		"email": "ghost@pitchside.club", "password": "str0ng-passw0rd",
	})
	wrongPass := postJSON(t, handler, "/api/v1/auth/login", map[string]string{
		"email": "alex@pitchside.club", "password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())

	missing := postJSON(t, handler, "/api/v1/auth/login", map[string]string{
		"email": "alex@pitchside.club",
	})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Contains(t, missing.Body.String(), "VALIDATION_ERROR")
}

/*
TestAuthAPI_RefreshDeniedGeneric verifies account-level failures at the
refresh endpoint answer with the same generic 401 as the guard chain, never
their precise internal classification.
*/
func TestAuthAPI_RefreshDeniedGeneric(t *testing.T) {
	handler, _, repo := newAuthAPI(t)

	registered := postJSON(t, handler, "/api/v1/auth/register", map[string]string{
		"email": "alex@pitchside.club", "username": "alex",
		"password": "str0ng-passw0rd", "firstName": "Alex", "lastName": "Keeper",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	var session sessionBody
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &session))

	// Deactivate after issuance: a structurally valid refresh token now fails.
	repo.accounts[session.User.ID].IsActive = false

	denied := postJSON(t, handler, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
	assert.Contains(t, denied.Body.String(), "UNAUTHORIZED")
	assert.NotContains(t, denied.Body.String(), "ACCOUNT_INACTIVE")

	// Soft-delete the account: same generic answer, never ACCOUNT_NOT_FOUND.
	repo.accounts[session.User.ID].IsActive = true
	require.NoError(t, repo.SoftDelete(context.Background(), session.User.ID))

	gone := postJSON(t, handler, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, gone.Code)
	assert.NotContains(t, gone.Body.String(), "ACCOUNT_NOT_FOUND")
}

/*
TestAuthAPI_RegisterValidation exercises the input rules on the registration
surface.
*/
func TestAuthAPI_RegisterValidation(t *testing.T) {
	handler, _, _ := newAuthAPI(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"bad_email", map[string]string{
			"email": "not-an-email", "username": "alex",
			"password": "str0ng-passw0rd", "firstName": "A", "lastName": "B",
		}},
		{"short_password", map[string]string{
			"email": "a@pitchside.club", "username": "alex",
			"password": "short", "firstName": "A", "lastName": "B",
		}},
		{"short_username", map[string]string{
			"email": "a@pitchside.club", "username": "ab",
			"password": "str0ng-passw0rd", "firstName": "A", "lastName": "B",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, handler, "/api/v1/auth/register", tt.payload)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

/*
TestAuthAPI_ProtectedWithoutToken verifies the guard chain closes the
profile surface to anonymous callers.
*/
func TestAuthAPI_ProtectedWithoutToken(t *testing.T) {
	handler, _, _ := newAuthAPI(t)

	recorder := getWithToken(t, handler, "/api/v1/auth/profile", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAuthAPI_Logout verifies the stateless logout acknowledgement.
*/
func TestAuthAPI_Logout(t *testing.T) {
	handler, _, _ := newAuthAPI(t)

	recorder := postJSON(t, handler, "/api/v1/auth/logout", map[string]string{})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Logged out")
}
