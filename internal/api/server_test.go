// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clubapi/internal/api"
	"github.com/pitchside/clubapi/internal/auth"
	"github.com/pitchside/clubapi/internal/club/team"
	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/authz"
	"github.com/pitchside/clubapi/internal/platform/config"
	"github.com/pitchside/clubapi/internal/platform/ratelimit"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// # Test Fixtures

// stubVerifier resolves fixed tokens to fixed identities, standing in for
// the store-backed auth service.
type stubVerifier struct {
	identities map[string]*sec.UserContext
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, tokenString string) (*sec.UserContext, error) {
	if identity, ok := s.identities[tokenString]; ok {
		return identity, nil
	}
	return nil, apperr.TokenInvalid()
}

// stubAccounts satisfies [auth.AccountRepository] for wiring; the server
// tests never reach the auth store.
type stubAccounts struct{}

func (stubAccounts) FindByID(context.Context, string) (*auth.Account, error) {
	return nil, apperr.NotFound("account")
}
func (stubAccounts) FindByEmail(context.Context, string) (*auth.Account, error) {
	return nil, apperr.NotFound("account")
}
func (stubAccounts) FindByUsername(context.Context, string) (*auth.Account, error) {
	return nil, apperr.NotFound("account")
}
func (stubAccounts) Create(context.Context, *auth.Account) error          { return nil }
func (stubAccounts) UpdatePassword(context.Context, string, string) error { return nil }
func (stubAccounts) UpdateLastLogin(context.Context, string, time.Time) error {
	return nil
}
func (stubAccounts) SoftDelete(context.Context, string) error { return nil }

// stubTeams accepts every write so a request that clears the guard chain is
// observable as a success status.
type stubTeams struct{}

func (stubTeams) List(context.Context, team.TeamFilter, int, int) ([]*team.Team, int, error) {
	return nil, 0, nil
}
func (stubTeams) FindByID(context.Context, string) (*team.Team, error) {
	return nil, apperr.NotFound("Team")
}
func (stubTeams) FindBySlug(context.Context, string) (*team.Team, error) {
	return nil, apperr.NotFound("Team")
}
func (stubTeams) Create(context.Context, *team.Team) error { return nil }
func (stubTeams) Update(context.Context, *team.Team) error { return nil }
func (stubTeams) SoftDelete(context.Context, string) error { return nil }

// newTestServer composes the real router, middleware chain, and route
// policies over stub stores and a stub verifier.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limits, err := ratelimit.DefaultTable()
	require.NoError(t, err)

	tokens, err := sec.NewTokenService("test-secret", "pitchside.club", "clubapi", time.Hour, 168*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	verifier := &stubVerifier{identities: map[string]*sec.UserContext{
		"viewer-token": {ID: "id-viewer", Role: sec.RoleViewer, Status: sec.StatusActive},
		"admin-token":  {ID: "id-admin", Role: sec.RoleAdmin, Status: sec.StatusActive},
	}}
	engine := authz.NewEngine(api.RoutePolicies(), verifier)

	cfg := &config.Config{ServerPort: "0", Environment: "development"}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ok := func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) }
	server := api.NewServer(ctx, cfg, logger, engine, limits, ratelimit.NewRedisLimiter(client), api.Handlers{
		Liveness:  ok,
		Readiness: ok,
		Auth:      auth.NewHandler(auth.NewService(stubAccounts{}, tokens)),
		Team:      team.NewHandler(team.NewService(stubTeams{}, logger)),
	})

	return server.Handler()
}

func doServerRequest(t *testing.T, handler http.Handler, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Middleware Chain

/*
TestServer_PolicyCoversUnnormalizedPaths proves the path the guard engine
authorizes is the path the router serves: a doubled slash or dot segment in
the request target resolves to the declared team policies, never to the
authenticated-any fallback that would let a viewer mutate the roster.
*/
func TestServer_PolicyCoversUnnormalizedPaths(t *testing.T) {
	handler := newTestServer(t)
	body := map[string]string{"name": "Red Lions"}

	// Control: the canonical path denies a viewer the write:teams permission.
	canonical := doServerRequest(t, handler, "POST", "/api/v1/teams", "viewer-token", body)
	require.Equal(t, http.StatusForbidden, canonical.Code, canonical.Body.String())

	for _, dirty := range []string{"//api/v1/teams", "/api/v1/./teams", "/api//v1/teams"} {
		recorder := doServerRequest(t, handler, "POST", dirty, "viewer-token", body)
		assert.Equal(t, http.StatusForbidden, recorder.Code,
			"path %q: %s", dirty, recorder.Body.String())
	}

	// An authorized caller clears the same chain and reaches the handler,
	// through the canonical and the dirty spelling alike.
	created := doServerRequest(t, handler, "POST", "/api/v1/teams", "admin-token", body)
	assert.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	createdDirty := doServerRequest(t, handler, "POST", "//api/v1/teams", "admin-token", body)
	assert.Equal(t, http.StatusCreated, createdDirty.Code, createdDirty.Body.String())
}

/*
TestServer_CORSPreflight verifies a browser preflight, which carries no
Authorization header, is answered by the CORS layer instead of being
rejected by the fail-closed guard engine.
*/
func TestServer_CORSPreflight(t *testing.T) {
	handler := newTestServer(t)

	request := httptest.NewRequest("OPTIONS", "/api/v1/teams", nil)
	request.Header.Set("Origin", "https://app.pitchside.club")
	request.Header.Set("Access-Control-Request-Method", "POST")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code, recorder.Body.String())
	assert.Equal(t, "https://app.pitchside.club", recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestServer_HealthProbes verifies the infrastructure probes stay public
through the full chain.
*/
func TestServer_HealthProbes(t *testing.T) {
	handler := newTestServer(t)

	assert.Equal(t, http.StatusOK, doServerRequest(t, handler, "GET", "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, doServerRequest(t, handler, "GET", "/ready", "", nil).Code)
}
