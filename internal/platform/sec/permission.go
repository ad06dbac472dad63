// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package sec

import "fmt"

// # Permission Catalog

// Permission is a fine-grained capability string in "verb:resource" form.
type Permission string

const (
	PermReadTeams        Permission = "read:teams"
	PermWriteTeams       Permission = "write:teams"
	PermDeleteTeams      Permission = "delete:teams"
	PermReadTournaments  Permission = "read:tournaments"
	PermWriteTournaments Permission = "write:tournaments"
	PermReadPlayers      Permission = "read:players"
	PermWritePlayers     Permission = "write:players"
	PermReadMatches      Permission = "read:matches"
	PermWriteMatches     Permission = "write:matches"
	PermReadUsers        Permission = "read:users"
	PermWriteUsers       Permission = "write:users"
	PermDeleteUsers      Permission = "delete:users"
	PermReadMedia        Permission = "read:media"
	PermWriteMedia       Permission = "write:media"
)

// permissionCatalog is the fixed set of valid capability strings. Route
// policies referencing anything outside it are rejected at startup.
var permissionCatalog = map[Permission]struct{}{
	PermReadTeams:        {},
	PermWriteTeams:       {},
	PermDeleteTeams:      {},
	PermReadTournaments:  {},
	PermWriteTournaments: {},
	PermReadPlayers:      {},
	PermWritePlayers:     {},
	PermReadMatches:      {},
	PermWriteMatches:     {},
	PermReadUsers:        {},
	PermWriteUsers:       {},
	PermDeleteUsers:      {},
	PermReadMedia:        {},
	PermWriteMedia:       {},
}

// IsValid reports whether the permission belongs to the fixed catalog.
func (p Permission) IsValid() bool {
	_, ok := permissionCatalog[p]
	return ok
}

// ParsePermission validates a raw capability string against the catalog.
func ParsePermission(raw string) (Permission, error) {
	perm := Permission(raw)
	if !perm.IsValid() {
		return "", fmt.Errorf("sec: unknown permission %q", raw)
	}
	return perm, nil
}

// # Role → Permission Resolution

// rolePermissions is the static role→permission-set table, built once at
// package init and immutable thereafter.
//
// [RoleAdmin] is intentionally absent: administrative roles receive an
// implicit wildcard in [HasPermissions] instead of an exhaustive row that
// would silently drift as the catalog grows.
var rolePermissions = map[UserRole][]Permission{
	RoleManager: {
		PermReadTeams, PermWriteTeams,
		PermReadTournaments, PermWriteTournaments,
		PermReadPlayers, PermWritePlayers,
		PermReadMatches, PermWriteMatches,
		PermReadUsers,
		PermReadMedia, PermWriteMedia,
	},
	RoleCoach: {
		PermReadTeams,
		PermReadTournaments,
		PermReadPlayers, PermWritePlayers,
		PermReadMatches, PermWriteMatches,
		PermReadMedia,
	},
	RolePlayer: {
		PermReadTeams,
		PermReadTournaments,
		PermReadPlayers,
		PermReadMatches,
		PermReadMedia,
	},
	RoleViewer: {
		PermReadTeams,
		PermReadTournaments,
		PermReadMatches,
	},
}

// PermissionsFor returns the set of permissions granted to a role.
//
// # Deny By Default
//
// An unknown role resolves to the empty set, never to an error: authorization
// decisions must fail closed.
func PermissionsFor(role UserRole) map[Permission]struct{} {
	perms := rolePermissions[role]
	granted := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		granted[p] = struct{}{}
	}
	return granted
}

// HasPermissions reports whether the role is granted every permission in
// required. Administrative roles pass unconditionally (implicit wildcard).
func HasPermissions(role UserRole, required []Permission) bool {
	if role.IsAdministrative() {
		return true
	}

	granted := PermissionsFor(role)
	for _, p := range required {
		if _, ok := granted[p]; !ok {
			return false
		}
	}
	return true
}
