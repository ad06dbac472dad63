// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for user accounts.
//
// Implementations must exclude soft-deleted rows from every lookup: a deleted
// account is indistinguishable from one that never existed.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(ctx context.Context, username string) (*Account, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict on a unique-constraint race, or persistence failures
	*/
	Create(ctx context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(ctx context.Context, accountID, newHash string) error

	/*
		UpdateLastLogin stamps the account's last successful authentication.

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error

	/*
		SoftDelete marks the account as deleted without removing the row.

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(ctx context.Context, id string) error
}
