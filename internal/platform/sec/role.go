// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package sec

import "fmt"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set of roles is closed: any role string outside this enumeration is
// rejected at config/registry load time rather than silently denied at
// request time.
type UserRole string

const (
	// Unrestricted system access. Granted an implicit permission wildcard.
	RoleAdmin UserRole = "admin"

	// Runs the club: manages teams, tournaments, players, and media
	RoleManager UserRole = "manager"

	// Manages rosters and match reporting for assigned teams
	RoleCoach UserRole = "coach"

	// A registered club member participating in teams and matches
	RolePlayer UserRole = "player"

	// Default role for newly registered accounts; read-only access
	RoleViewer UserRole = "viewer"
)

// DefaultRole is assigned at registration when no role is supplied.
const DefaultRole = RoleViewer

// allRoles is the closed role catalog.
var allRoles = map[UserRole]struct{}{
	RoleAdmin:   {},
	RoleManager: {},
	RoleCoach:   {},
	RolePlayer:  {},
	RoleViewer:  {},
}

// IsValid reports whether the role belongs to the closed catalog.
func (r UserRole) IsValid() bool {
	_, ok := allRoles[r]
	return ok
}

// IsAdministrative reports whether the role carries the implicit
// permission wildcard.
func (r UserRole) IsAdministrative() bool {
	return r == RoleAdmin
}

// ParseRole validates a raw role string against the closed catalog.
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}
