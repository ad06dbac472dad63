// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package auth implements the identity and access management core of ClubAPI.

It owns credential validation, the dual-token (access + refresh) lifecycle,
and the re-derivation of identity from the account store that backs every
authorization decision.

# Architecture

  - Service: Orchestrates business logic (Register, Login, Refresh, Verify).
  - Repository: Abstracted interface over the PostgreSQL account store.
  - Security: Delegates hashing and HS256 signing to the platform sec package.

The business modules (teams, tournaments, matches, media) are consumers of
this package's verified identities, never the other way around.
*/
package auth

import (
	"net/http"
	"time"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered member of the club platform.
//
// This core reads the full record but writes only the password hash (on
// create/reset) and the last-login timestamp; every other field is owned by
// the profile and admin modules.
type Account struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Phone        string       `json:"phone,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"isActive"`
	LastLoginAt  *time.Time   `json:"lastLogin,omitempty"`
	DeletedAt    *time.Time   `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// UserContext builds the request-scoped identity from the account's CURRENT
// state. This is the only constructor for [sec.UserContext] — identities are
// always derived from the store, never from token claims.
func (account *Account) UserContext() *sec.UserContext {
	status := sec.StatusActive
	if !account.IsActive {
		status = sec.StatusInactive
	}

	return &sec.UserContext{
		ID:          account.ID,
		Email:       account.Email,
		Username:    account.Username,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Role:        account.Role,
		Status:      status,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// # Failure Classification

// Precise internal classifications. The HTTP boundary collapses the
// enumeration-sensitive ones into [ErrInvalidCredentials] before responding;
// the precise value is logged for audit.
var (
	// ErrInvalidCredentials is the single externally observable failure for
	// unknown email and wrong password alike.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid email or password")

	// ErrAccountInactive marks a known account that has been deactivated.
	ErrAccountInactive = &apperr.AppError{
		Code:       "ACCOUNT_INACTIVE",
		Message:    "Account is inactive",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrAccountNotFound marks a token whose subject no longer exists.
	ErrAccountNotFound = &apperr.AppError{
		Code:       "ACCOUNT_NOT_FOUND",
		Message:    "Account no longer exists",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail     = "email"
	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldPhone     = "phone"
	FieldRole      = "role"
	FieldToken     = "token"
	FieldRefresh   = "refreshToken"
	FieldCurrent   = "currentPassword"
	FieldNew       = "newPassword"
)
