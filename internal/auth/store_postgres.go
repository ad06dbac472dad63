// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

// PostgreSQL implementation of the account store.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values via the dberr bridge so nothing
// above this layer sees a driver error.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/dberr"
)

// accountColumns is the canonical SELECT column list for club.account.
const accountColumns = `id, email, username, passwordhash, firstname, lastname, phone,
	role, isactive, lastloginat, deletedat, createdat, updatedat`

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account record into the club.account table.

Description: Initializes timestamps when absent and maps a unique-constraint
violation (duplicate email/username race) to a client-safe Conflict.
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO club.account (
			id, email, username, passwordhash, firstname, lastname, phone,
			role, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.Username,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Role,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email or username is already registered")
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.

Description: Performs a lookup on club.account, filtering out soft-deleted rows.
*/
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM club.account
		WHERE email = $1 AND deletedat IS NULL`

	return repository.scanOne(ctx, query, email)
}

/*
FindByUsername retrieves an account by its unique username.
*/
func (repository *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM club.account
		WHERE username = $1 AND deletedat IS NULL`

	return repository.scanOne(ctx, query, username)
}

/*
FindByID retrieves an account by its primary key.
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM club.account
		WHERE id = $1 AND deletedat IS NULL`

	return repository.scanOne(ctx, query, id)
}

/*
UpdatePassword updates only the password hash for a specific account.
*/
func (repository *PostgresAccountRepository) UpdatePassword(ctx context.Context, accountID, newHash string) error {
	const query = `
		UPDATE club.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(ctx, query, accountID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
UpdateLastLogin stamps the account's most recent successful authentication.
*/
func (repository *PostgresAccountRepository) UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error {
	const query = `
		UPDATE club.account
		SET lastloginat = $2, updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(ctx, query, accountID, at)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_last_login_failed: %w", err)
	}

	return nil
}

/*
SoftDelete marks an account as deleted using its ID.

Description: Retention-friendly deletion by setting deletedat.
*/
func (repository *PostgresAccountRepository) SoftDelete(ctx context.Context, id string) error {
	const query = "UPDATE club.account SET deletedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}
	return nil
}

// scanOne executes a single-row account query and hydrates the entity.
func (repository *PostgresAccountRepository) scanOne(ctx context.Context, query string, arg any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.Phone,
		&account.Role,
		&account.IsActive,
		&account.LastLoginAt,
		&account.DeletedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return account, nil
}
