// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package team

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pitchside/clubapi/internal/platform/request"
	"github.com/pitchside/clubapi/internal/platform/respond"
	"github.com/pitchside/clubapi/internal/platform/validate"
	"github.com/pitchside/clubapi/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for team management.
//
// Access control lives in the route policy registry: reads require
// read:teams, mutations write:teams, removal delete:teams. The handler
// itself carries no auth logic.
type Handler struct {
	service *Service
}

// NewHandler constructs a new team [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the team endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{ref}", handler.get)
	router.Put("/{ref}", handler.update)
	router.Delete("/{ref}", handler.remove)

	return router
}

// # Request Payloads

type teamRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AgeGroup    string  `json:"ageGroup"`
	Division    string  `json:"division"`
	CoachID     *string `json:"coachId"`
}

/*
GET /api/v1/teams

Description: Returns a paginated roster of teams, optionally filtered by a
name search, age group, or active status.

Request:
  - q: string (name substring)
  - ageGroup: string
  - active: "true" to exclude retired teams
  - page, limit: pagination

Response:
  - 200: Paginated []Team
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := TeamFilter{
		Search:     request.URL.Query().Get("q"),
		AgeGroup:   request.URL.Query().Get("ageGroup"),
		ActiveOnly: request.URL.Query().Get("active") == "true",
	}

	teams, total, err := handler.service.ListTeams(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, teams, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/teams/{ref}

Description: Retrieves a single team by UUID or slug.

Response:
  - 200: Team
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ref := requestutil.Param(request, "ref")

	team, err := handler.service.GetTeam(request.Context(), ref)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, team)
}

/*
POST /api/v1/teams

Description: Creates a new team. The slug is derived from the name.

Request:
  - Body: teamRequest

Response:
  - 201: Team: Created record with generated identity
  - 400: ErrInvalidJSON: Validation failure
  - 409: ErrConflict: Name slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input teamRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	team := &Team{
		Name:        input.Name,
		Description: input.Description,
		AgeGroup:    input.AgeGroup,
		Division:    input.Division,
		CoachID:     input.CoachID,
	}

	if err := handler.service.CreateTeam(request.Context(), team); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, team)
}

/*
PUT /api/v1/teams/{ref}

Description: Replaces the mutable attributes of an existing team.

Response:
  - 200: Team: Updated record
  - 404: ErrNotFound
  - 409: ErrConflict: Renamed into an existing slug
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ref := requestutil.Param(request, "ref")

	current, err := handler.service.GetTeam(request.Context(), ref)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input teamRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	current.Name = input.Name
	current.Description = input.Description
	current.AgeGroup = input.AgeGroup
	current.Division = input.Division
	current.CoachID = input.CoachID

	if err := handler.service.UpdateTeam(request.Context(), current); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, current)
}

/*
DELETE /api/v1/teams/{ref}

Description: Retires a team (soft delete).

Response:
  - 204: No Content
  - 404: ErrNotFound
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	ref := requestutil.Param(request, "ref")

	team, err := handler.service.GetTeam(request.Context(), ref)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTeam(request.Context(), team.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
