// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/sec"
	"github.com/pitchside/clubapi/pkg/uuid"
)

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, credential
// validation, or token verification logic must be reviewed by the security
// owners.
type Service struct {
	accounts AccountRepository
	tokens   *sec.TokenService
	now      func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accounts AccountRepository, tokens *sec.TokenService) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock. Test hook only.
func (service *Service) WithClock(clock func() time.Time) *Service {
	service.now = clock
	return service
}

// AccessTTL exposes the configured access-token lifetime for response bodies.
func (service *Service) AccessTTL() time.Duration { return service.tokens.AccessTTL() }

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string

	// Role is optional; empty defaults to [sec.DefaultRole].
	Role string
}

// AuthSession is a freshly established dual-token session.
type AuthSession struct {
	AccessToken  string
	RefreshToken string

	// ExpiresAt is the access token's expiry instant.
	ExpiresAt time.Time

	User *sec.UserContext

	// IsFirstLogin reports whether this authentication is the account's
	// first ever (last-login was previously unset).
	IsFirstLogin bool
}

/*
Register validates, hashes, and persists a brand new account, then issues its
first token pair.

Returns:
  - *AuthSession: Tokens plus the created identity, IsFirstLogin always true
  - error: Conflict (duplicate email/username) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	if _, err := service.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	if _, err := service.accounts.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// New accounts default to the read-only viewer role; a supplied role must
	// belong to the closed catalog.
	role := sec.DefaultRole
	if input.Role != "" {
		parsed, err := sec.ParseRole(input.Role)
		if err != nil {
			return nil, apperr.ValidationError("Unknown role", apperr.FieldError{
				Field:   FieldRole,
				Message: "Must be a known role",
			})
		}
		role = parsed
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new account. Time-sortable ID to prevent PG index fragmentation.
	account := &Account{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         role,
		IsActive:     true,
	}

	// Persist. The repository maps a lost uniqueness race to Conflict, and no
	// row is created when that happens.
	if err := service.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return service.openSession(account, true)
}

// # Authentication Flow

/*
Login validates credentials and issues a fresh dual-token session.

Description: On success the account's last-login is stamped; IsFirstLogin
reports whether the stamp was previously unset.

Returns:
  - *AuthSession: Transport-ready session
  - error: ErrInvalidCredentials, ErrAccountInactive, or internal failures
*/
func (service *Service) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	account, err := service.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	isFirstLogin := account.LastLoginAt == nil

	loginTime := service.now()
	if err := service.accounts.UpdateLastLogin(ctx, account.ID, loginTime); err != nil {
		return nil, fmt.Errorf("auth_service_update_last_login_failed: %w", err)
	}
	account.LastLoginAt = &loginTime

	return service.openSession(account, isFirstLogin)
}

/*
ValidateCredentials verifies an email/password pair without side effects.

Description: Unknown email and wrong password produce the identical
[ErrInvalidCredentials]; a deactivated account is classified internally as
[ErrAccountInactive] (callers at the HTTP boundary collapse it before
responding).

Returns:
  - *sec.UserContext: Identity derived from the stored account
  - error: ErrInvalidCredentials or ErrAccountInactive
*/
func (service *Service) ValidateCredentials(ctx context.Context, email, password string) (*sec.UserContext, error) {
	account, err := service.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return account.UserContext(), nil
}

// checkCredentials is the shared lookup + password verification path.
func (service *Service) checkCredentials(ctx context.Context, email, password string) (*Account, error) {
	account, err := service.accounts.FindByEmail(ctx, email)
	if err != nil {
		// A store failure is not a credential failure; it must surface as an
		// internal error, never as a 401 the caller would retry forever.
		if apperr.Code(err) != "NOT_FOUND" {
			return nil, fmt.Errorf("auth_service_account_lookup_failed: %w", err)
		}

		// Unknown email: burn the same bcrypt work as a real comparison, then
		// answer exactly like a wrong password, so a caller cannot enumerate
		// which addresses hold accounts by response or by timing.
		sec.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}

	// bcrypt comparison is constant-time over the digest.
	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	return account, nil
}

// # Token Verification

/*
VerifyAccessToken validates a bearer token and re-derives the caller identity.

Description: After signature/expiry checks, the account is RE-READ by the
claim subject and the identity rebuilt from its current role and active flag.
A downgraded or deactivated account therefore loses its privilege immediately,
not at token expiry. This method implements the guard chain's TokenVerifier.

Returns:
  - *sec.UserContext: Current identity from the account store
  - error: TokenExpired/TokenInvalid (apperr), ErrAccountNotFound, ErrAccountInactive
*/
func (service *Service) VerifyAccessToken(ctx context.Context, tokenString string) (*sec.UserContext, error) {
	return service.verify(ctx, tokenString, service.tokens.AccessAudience())
}

// VerifyRefreshToken validates a refresh token and re-derives the identity.
// The audience check rejects access tokens presented at the refresh endpoint.
func (service *Service) VerifyRefreshToken(ctx context.Context, tokenString string) (*sec.UserContext, error) {
	return service.verify(ctx, tokenString, service.tokens.RefreshAudience())
}

func (service *Service) verify(ctx context.Context, tokenString, expectedAudience string) (*sec.UserContext, error) {
	claims, err := service.tokens.Decode(tokenString, expectedAudience)
	if err != nil {
		return nil, err
	}

	// The mandatory account re-read. Claims are a hint; the store is truth.
	account, err := service.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	return account.UserContext(), nil
}

// # Session Management

// TokenRefresh is the result of exchanging a refresh token: a new access
// token only — the refresh token itself is not rotated.
type TokenRefresh struct {
	AccessToken string
	ExpiresAt   time.Time
}

/*
Refresh exchanges a valid refresh token for a new access token.

Description: The refresh token is verified (signature, expiry, refresh
audience) and the account re-read, so a deactivated account cannot mint new
access tokens. No new refresh token is issued.

Returns:
  - *TokenRefresh: New access credentials
  - error: Token or account verification failures
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*TokenRefresh, error) {
	identity, err := service.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := service.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &TokenRefresh{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// # Password Management

/*
ChangePassword allows an authenticated member to rotate their credentials.

Description: Verifies the current password before hashing and storing the new
one. The password hash is the only account field this operation writes.

Returns:
  - error: Unauthorized (wrong current password) or storage failures
*/
func (service *Service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, account.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.accounts.UpdatePassword(ctx, accountID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// openSession issues the dual token pair for a verified account.
func (service *Service) openSession(account *Account, isFirstLogin bool) (*AuthSession, error) {
	identity := account.UserContext()

	accessToken, accessExpiresAt, err := service.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, _, err := service.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiresAt,
		User:         identity,
		IsFirstLogin: isFirstLogin,
	}, nil
}
