// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/constants"
	"github.com/pitchside/clubapi/internal/platform/ctxutil"
	"github.com/pitchside/clubapi/internal/platform/respond"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// TokenVerifier is the collaborator that turns a bearer token into a live
// identity. The implementation must re-derive the identity from the account
// store — a verifier that trusts embedded claims alone is not acceptable here.
//
// # Why an interface?
//
// Defining TokenVerifier where it is consumed decouples the guard chain from
// the auth service implementation and lets tests inject a stub.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, tokenString string) (*sec.UserContext, error)
}

// decision accumulates per-request guard state. Guards run strictly in order
// and communicate only through this struct.
type decision struct {
	policy   RoutePolicy
	identity *sec.UserContext

	// admitted short-circuits the remaining guards (public bypass).
	admitted bool

	// reason records the precise internal failure for the audit log when the
	// client-facing error has been collapsed to a generic message.
	reason string
}

// guard is one stage of the pipeline. A non-nil return is terminal: no later
// stage runs and the error is written to the client.
type guard func(request *http.Request, state *decision) *apperr.AppError

// # Engine

// Engine evaluates the guard chain against the policy registry.
type Engine struct {
	registry *Registry
	verifier TokenVerifier
	guards   []guard
}

// NewEngine wires the pipeline in its mandatory order. The order is a
// correctness requirement — authentication must precede role and permission
// checks — so it is fixed here rather than configurable.
func NewEngine(registry *Registry, verifier TokenVerifier) *Engine {
	engine := &Engine{
		registry: registry,
		verifier: verifier,
	}
	engine.guards = []guard{
		engine.publicBypass,
		engine.authenticate,
		engine.checkRole,
		engine.checkPermissions,
	}
	return engine
}

// Middleware adapts the engine to the router. It resolves the route policy,
// runs the chain sequentially, and on success hands the verified identity to
// the downstream handler via the request context.
func (engine *Engine) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			state := &decision{
				policy: engine.registry.Lookup(request.Method, request.URL.Path),
			}

			for _, stage := range engine.guards {
				if state.admitted {
					break
				}
				if appErr := stage(request, state); appErr != nil {
					engine.audit(request, state, appErr)
					respond.Error(writer, request, appErr)
					return
				}
			}

			ctx := request.Context()
			if state.identity != nil {
				ctx = ctxutil.WithAuthUser(ctx, state.identity)
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Guard Stages

// publicBypass admits tagged-public routes unauthenticated and skips the rest
// of the chain.
func (engine *Engine) publicBypass(_ *http.Request, state *decision) *apperr.AppError {
	if state.policy.Public {
		state.admitted = true
	}
	return nil
}

// authenticate extracts the bearer token, verifies it, and attaches the
// re-derived identity to the decision state.
//
// # Enumeration Safety
//
// Account-level failures discovered during re-derivation (account deleted or
// deactivated since issuance) are collapsed into the same generic 401 as a
// bad token; the precise reason goes to the audit log only.
func (engine *Engine) authenticate(request *http.Request, state *decision) *apperr.AppError {
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return apperr.Unauthorized("Authentication required")
	}

	scheme, tokenString, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) || tokenString == "" {
		return apperr.Unauthorized("Invalid authorization format")
	}

	identity, err := engine.verifier.VerifyAccessToken(request.Context(), tokenString)
	if err != nil {
		state.reason = apperr.Code(err)

		// Token-shaped failures are safe to surface precisely; clients need
		// TOKEN_EXPIRED to know a refresh is worth attempting.
		switch apperr.Code(err) {
		case "TOKEN_EXPIRED":
			return apperr.TokenExpired()
		case "TOKEN_INVALID":
			return apperr.TokenInvalid()
		default:
			return apperr.Unauthorized("Invalid or expired token")
		}
	}

	state.identity = identity
	return nil
}

// checkRole enforces the route's allowed-role set. An empty set means any
// authenticated role passes.
func (engine *Engine) checkRole(_ *http.Request, state *decision) *apperr.AppError {
	if state.policy.allowsRole(state.identity.Role) {
		return nil
	}
	state.reason = "role " + string(state.identity.Role) + " not in allowed set"
	return apperr.Forbidden("Insufficient role")
}

// checkPermissions enforces required ⊆ granted via the static permission
// catalog. Administrative roles hold an implicit wildcard.
func (engine *Engine) checkPermissions(_ *http.Request, state *decision) *apperr.AppError {
	if sec.HasPermissions(state.identity.Role, state.policy.Permissions) {
		return nil
	}
	state.reason = "missing required permissions for role " + string(state.identity.Role)
	return apperr.Forbidden("Insufficient permissions")
}

// audit records the precise denial reason server-side, independent of
// whatever collapsed message the client received.
func (engine *Engine) audit(request *http.Request, state *decision, appErr *apperr.AppError) {
	logger := ctxutil.GetLogger(request.Context())

	attrs := []any{
		slog.String("code", appErr.Code),
		slog.String("path", request.URL.Path),
	}
	if state.reason != "" {
		attrs = append(attrs, slog.String("reason", state.reason))
	}
	if state.identity != nil {
		attrs = append(attrs, slog.String("user_id", state.identity.ID))
	}

	logger.WarnContext(request.Context(), "request_denied", attrs...)
}
