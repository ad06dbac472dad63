// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package authz implements the request authorization engine.

It has two halves:

  - A policy Registry: an explicit side-table mapping route patterns to
    declarative access policies (public flag, allowed roles, required
    permissions), populated once at startup.
  - A guard chain: an ordered, short-circuiting pipeline of predicates
    (PublicBypass → Authentication → Role → Permission) that evaluates the
    resolved policy against the caller on every request.

No reflection, no route annotations: what a route requires is written down in
one place and validated against the closed role and permission catalogs
before the server accepts traffic.
*/
package authz

import (
	"fmt"

	"github.com/pitchside/clubapi/internal/platform/routematch"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// RoutePolicy declares what a route requires from its caller.
type RoutePolicy struct {
	// Public admits the request without authentication and skips every
	// remaining guard.
	Public bool

	// Roles is the allowed-role set. Empty means any authenticated role.
	Roles []sec.UserRole

	// Permissions is the required-permission set. The caller's role must be
	// granted every entry (administrative roles hold an implicit wildcard).
	Permissions []sec.Permission
}

// allowsRole reports whether the policy's role set admits the given role.
func (p RoutePolicy) allowsRole(role sec.UserRole) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, allowed := range p.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// validate rejects policies referencing unknown roles or permissions, and
// contradictory public+requirement combinations.
func (p RoutePolicy) validate() error {
	if p.Public && (len(p.Roles) > 0 || len(p.Permissions) > 0) {
		return fmt.Errorf("authz: a public route cannot declare roles or permissions")
	}
	for _, role := range p.Roles {
		if !role.IsValid() {
			return fmt.Errorf("authz: unknown role %q in route policy", role)
		}
	}
	for _, perm := range p.Permissions {
		if !perm.IsValid() {
			return fmt.Errorf("authz: unknown permission %q in route policy", perm)
		}
	}
	return nil
}

// # Policy Registry

// Registry is the startup-populated side-table of route policies.
//
// # Defaults
//
// An unregistered route falls back to "authenticated, any role": access
// control fails closed, never open. Public routes must opt in explicitly.
type Registry struct {
	routes *routematch.Table[RoutePolicy]
}

// NewRegistry creates an empty registry with the authenticated-only default.
func NewRegistry() *Registry {
	return &Registry{routes: routematch.New(RoutePolicy{})}
}

// Declare attaches a policy to a "METHOD /path" (or "METHOD /path/*") route
// pattern. Unknown roles, unknown permissions, and malformed patterns are
// rejected so a misdeclared route cannot reach production silently.
func (r *Registry) Declare(pattern string, policy RoutePolicy) error {
	if err := policy.validate(); err != nil {
		return fmt.Errorf("%w (route %q)", err, pattern)
	}
	return r.routes.Set(pattern, policy)
}

// MustDeclare is Declare for static startup tables, panicking on error.
func (r *Registry) MustDeclare(pattern string, policy RoutePolicy) {
	if err := r.Declare(pattern, policy); err != nil {
		panic(err)
	}
}

// Lookup resolves the effective policy for a request; most specific route wins.
func (r *Registry) Lookup(method, path string) RoutePolicy {
	policy, _ := r.routes.Lookup(method, path)
	return policy
}
