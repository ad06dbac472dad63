// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package auth provides the HTTP delivery layer for member identity management.

It implements the gateway for the authentication lifecycle, from account
creation through session refresh.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates the dual-token (access/refresh) lifecycle.
  - Verification: Enforces strict input validation before passing to [Service].

Authentication responses are flat camelCase bodies rather than the generic
data envelope; the token payload shape is part of the external contract and
consumed by mobile clients directly.
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/constants"
	"github.com/pitchside/clubapi/internal/platform/ctxutil"
	requestutil "github.com/pitchside/clubapi/internal/platform/request"
	"github.com/pitchside/clubapi/internal/platform/respond"
	"github.com/pitchside/clubapi/internal/platform/sec"
	"github.com/pitchside/clubapi/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the member lifecycle entry
// points (registration, login, token refresh, password rotation).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and opens a session.
//   - POST /login    : Authenticates and returns a dual token pair.
//
// Access control is enforced upstream by the route policy guard chain, so the
// router itself carries no auth middleware.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints (guard chain requires an authenticated identity)
	router.Post("/verify", handler.verify)
	router.Get("/profile", handler.profile)
	router.Get("/me", handler.profile)
	router.Post("/change-password", handler.changePassword)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// # Response Payloads

// sessionResponse is the flat dual-token body returned by register and login.
type sessionResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	TokenType    string           `json:"tokenType"`
	ExpiresIn    int64            `json:"expiresIn"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	User         *sec.UserContext `json:"user"`
	Message      string           `json:"message"`
	IsFirstLogin bool             `json:"isFirstLogin"`
}

type refreshResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int64     `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (handler *Handler) sessionBody(session *AuthSession, message string) sessionResponse {
	return sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    constants.BearerScheme,
		ExpiresIn:    int64(handler.authService.AccessTTL() / time.Second),
		ExpiresAt:    session.ExpiresAt,
		User:         session.User,
		Message:      message,
		IsFirstLogin: session.IsFirstLogin,
	}
}

/*
Register handles the creation of a new member account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists the new
account, and opens its first session.

Request:
  - Body: registerRequest (Email, Username, Password, FirstName, LastName, Phone, Role?)

Response:
  - 201: sessionResponse: Token pair plus the created identity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email or username already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 50).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, handler.sessionBody(session, "Account registered successfully"))
}

/*
Login authenticates a member and establishes a dual-token session.

POST /api/v1/auth/login

Description: Verifies credentials, stamps last-login, and returns access and
refresh tokens.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionResponse: Token pair and member profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		// A deactivated account answers exactly like bad credentials; the
		// precise reason stays in the audit log, not the response body.
		if err == ErrAccountInactive {
			auditDeniedLogin(request, input.Email)
			err = ErrInvalidCredentials
		}
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, handler.sessionBody(session, "Login successful"))
}

// auditDeniedLogin records the true rejection reason for an inactive account
// before the response collapses it to a generic credential failure.
func auditDeniedLogin(request *http.Request, email string) {
	ctxutil.GetLogger(request.Context()).Warn("login_denied",
		"reason", "account_inactive",
		"email", email,
	)
}

// auditDeniedRefresh records the precise account-level rejection before the
// response collapses it to a generic token failure.
func auditDeniedRefresh(request *http.Request, cause error) {
	ctxutil.GetLogger(request.Context()).Warn("refresh_denied",
		"reason", apperr.Code(cause),
	)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Validates the refresh token from the request body and issues a
fresh access token. The refresh token is not rotated.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: refreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing, expired, or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefresh, "is required"))
		return
	}

	refreshed, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		// Account-level failures collapse to the same generic 401 the guard
		// chain returns; the precise classification stays in the audit log.
		if err == ErrAccountInactive || err == ErrAccountNotFound {
			auditDeniedRefresh(request, err)
			err = apperr.Unauthorized("Invalid or expired token")
		}
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, refreshResponse{
		AccessToken: refreshed.AccessToken,
		TokenType:   constants.BearerScheme,
		ExpiresIn:   int64(handler.authService.AccessTTL() / time.Second),
		ExpiresAt:   refreshed.ExpiresAt,
	})
}

/*
Logout acknowledges the end of a client session.

POST /api/v1/auth/logout

Description: Tokens are stateless and carry no server-side session record, so
logout is a client-side discard; the endpoint exists for client symmetry.

Response:
  - 200: Success: Logout acknowledged
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldMessage: "Logged out successfully",
	})
}

/*
Verify confirms the presented access token is currently valid.

POST /api/v1/auth/verify

Description: The guard chain has already verified the token and re-read the
account by the time this handler runs, so reaching it means the token is good.

Response:
  - 200: Success: Token valid, current identity echoed
  - 401: ErrUnauthorized: Token missing, expired, or invalid
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		constants.FieldMessage: "Token is valid",
		"user":                 identity,
	})
}

/*
Profile returns the authenticated member's current identity.

GET /api/v1/auth/profile
GET /api/v1/auth/me

Description: The identity is re-derived from the account store on every
verified request, so role or status changes are visible immediately.

Response:
  - 200: UserContext: Current member profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, identity)
}

/*
ChangePassword updates the authenticated member's password.

POST /api/v1/auth/change-password

Description: Verifies the current password before applying the new one.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Wrong current password or authentication required
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrent, input.CurrentPassword).
		Required(FieldNew, input.NewPassword).
		MinLen(FieldNew, input.NewPassword, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		identity.ID,
		input.CurrentPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldMessage: "Password changed successfully",
	})
}
