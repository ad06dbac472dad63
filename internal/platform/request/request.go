// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/clubapi/internal/platform/apperr"
	"github.com/pitchside/clubapi/internal/platform/ctxutil"
	"github.com/pitchside/clubapi/internal/platform/sec"
	"github.com/pitchside/clubapi/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// It returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Identity extracts the verified identity from the request context.
//
// Returns nil if the request is not authenticated.
func Identity(request *http.Request) *sec.UserContext {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredIdentity ensures the request is authenticated and returns the
// verified identity, or [apperr.Unauthorized] otherwise.
func RequiredIdentity(request *http.Request) (*sec.UserContext, error) {
	identity := ctxutil.GetAuthUser(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}
