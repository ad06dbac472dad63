// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package team

import (
	"context"
	"log/slog"

	"github.com/pitchside/clubapi/internal/platform/validate"
	"github.com/pitchside/clubapi/pkg/slug"
	"github.com/pitchside/clubapi/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for teams.
type Service struct {
	teamRepo TeamRepository
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(teamRepo TeamRepository, logger *slog.Logger) *Service {
	return &Service{
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// # Team Operations

/*
ListTeams retrieves a filtered, paginated roster of teams.

Parameters:
  - ctx: context.Context
  - filter: TeamFilter (search, age group, active flag)
  - limit: int
  - offset: int

Returns:
  - []*Team: Matched teams
  - int: Total match count for the given filter
  - error: Storage or execution errors
*/
func (service *Service) ListTeams(ctx context.Context, filter TeamFilter, limit, offset int) ([]*Team, int, error) {
	return service.teamRepo.List(ctx, filter, limit, offset)
}

/*
GetTeam retrieves a single team by ID or slug.

Description: A 36-character reference is treated as a UUID, anything else as
a slug, so both /teams/{uuid} and /teams/red-lions-fc resolve.

Returns:
  - *Team: The hydrated domain entity
  - error: ErrNotFound if not found
*/
func (service *Service) GetTeam(ctx context.Context, ref string) (*Team, error) {
	if isUUID(ref) {
		return service.teamRepo.FindByID(ctx, ref)
	}
	return service.teamRepo.FindBySlug(ctx, ref)
}

/*
CreateTeam initialises a new team entry.

Description: Generates identity and slug, applies business validation, and
persists the record. The slug is derived from the team name.

Returns:
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) CreateTeam(ctx context.Context, team *Team) error {

	// Identity & mandatory field generation
	if team.ID == "" {
		team.ID = uuid.New()
	}
	if team.Slug == "" {
		team.Slug = slug.From(team.Name)
	}
	team.IsActive = true

	validator := &validate.Validator{}
	validator.Required(FieldName, team.Name).
		MaxLen(FieldName, team.Name, 100)

	if team.CoachID != nil {
		validator.UUID(FieldCoachID, *team.CoachID)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.teamRepo.Create(ctx, team); err != nil {
		return err
	}

	service.logger.Info("team_created",
		slog.String("team_id", team.ID),
		slog.String("slug", team.Slug),
	)

	return nil
}

/*
UpdateTeam applies metadata changes to an existing team.

Description: The slug follows the name; renaming a team re-derives it.

Returns:
  - error: Validation, not-found, conflict, or persistence errors
*/
func (service *Service) UpdateTeam(ctx context.Context, team *Team) error {

	validator := &validate.Validator{}
	validator.Required(FieldName, team.Name).
		MaxLen(FieldName, team.Name, 100)

	if team.CoachID != nil {
		validator.UUID(FieldCoachID, *team.CoachID)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	team.Slug = slug.From(team.Name)

	if err := service.teamRepo.Update(ctx, team); err != nil {
		return err
	}

	service.logger.Info("team_updated", slog.String("team_id", team.ID))
	return nil
}

/*
DeleteTeam retires a team from the active roster.

Description: Soft delete; the record stays for match history and reporting.

Returns:
  - error: ErrNotFound or persistence errors
*/
func (service *Service) DeleteTeam(ctx context.Context, id string) error {
	if err := service.teamRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	service.logger.Info("team_deleted", slog.String("team_id", id))
	return nil
}

// # Internal Helpers

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
