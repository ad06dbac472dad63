// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package team_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clubapi/internal/club/team"
	"github.com/pitchside/clubapi/internal/platform/apperr"
)

// memoryTeamRepository is an in-memory [team.TeamRepository] for service tests.
type memoryTeamRepository struct {
	teams map[string]*team.Team
}

func newMemoryTeamRepository() *memoryTeamRepository {
	return &memoryTeamRepository{teams: make(map[string]*team.Team)}
}

func (repo *memoryTeamRepository) List(_ context.Context, filter team.TeamFilter, limit, offset int) ([]*team.Team, int, error) {
	var matched []*team.Team
	for _, t := range repo.teams {
		if t.DeletedAt != nil {
			continue
		}
		if filter.ActiveOnly && !t.IsActive {
			continue
		}
		matched = append(matched, t)
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (repo *memoryTeamRepository) FindByID(_ context.Context, id string) (*team.Team, error) {
	if t, ok := repo.teams[id]; ok && t.DeletedAt == nil {
		return t, nil
	}
	return nil, apperr.NotFound("team")
}

func (repo *memoryTeamRepository) FindBySlug(_ context.Context, slug string) (*team.Team, error) {
	for _, t := range repo.teams {
		if t.Slug == slug && t.DeletedAt == nil {
			return t, nil
		}
	}
	return nil, apperr.NotFound("team")
}

func (repo *memoryTeamRepository) Create(_ context.Context, t *team.Team) error {
	if _, err := repo.FindBySlug(context.Background(), t.Slug); err == nil {
		return apperr.Conflict("A team with this name already exists")
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	repo.teams[t.ID] = t
	return nil
}

func (repo *memoryTeamRepository) Update(_ context.Context, t *team.Team) error {
	if _, ok := repo.teams[t.ID]; !ok {
		return apperr.NotFound("team")
	}
	t.UpdatedAt = time.Now()
	repo.teams[t.ID] = t
	return nil
}

func (repo *memoryTeamRepository) SoftDelete(_ context.Context, id string) error {
	t, ok := repo.teams[id]
	if !ok || t.DeletedAt != nil {
		return apperr.NotFound("team")
	}
	deletedAt := time.Now()
	t.DeletedAt = &deletedAt
	t.IsActive = false
	return nil
}

func newTeamService() (*team.Service, *memoryTeamRepository) {
	repo := newMemoryTeamRepository()
	return team.NewService(repo, slog.Default()), repo
}

/*
TestService_CreateTeam verifies identity generation, slug derivation, and
name validation.
*/
func TestService_CreateTeam(t *testing.T) {
	service, _ := newTeamService()
	ctx := context.Background()

	created := &team.Team{Name: "Red Lions FC", AgeGroup: "U17"}
	require.NoError(t, service.CreateTeam(ctx, created))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "red-lions-fc", created.Slug)
	assert.True(t, created.IsActive)

	// Missing name is rejected before any storage call.
	err := service.CreateTeam(ctx, &team.Team{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.Code(err))

	// Same name derives the same slug: conflict.
	err = service.CreateTeam(ctx, &team.Team{Name: "Red Lions FC"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.Code(err))
}

/*
TestService_GetTeam verifies reference dispatch: UUIDs resolve by ID,
anything else by slug.
*/
func TestService_GetTeam(t *testing.T) {
	service, _ := newTeamService()
	ctx := context.Background()

	created := &team.Team{Name: "Red Lions FC"}
	require.NoError(t, service.CreateTeam(ctx, created))

	byID, err := service.GetTeam(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	bySlug, err := service.GetTeam(ctx, "red-lions-fc")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = service.GetTeam(ctx, "no-such-team")
	assert.Equal(t, "NOT_FOUND", apperr.Code(err))
}

/*
TestService_UpdateTeam verifies the slug follows a rename.
*/
func TestService_UpdateTeam(t *testing.T) {
	service, _ := newTeamService()
	ctx := context.Background()

	created := &team.Team{Name: "Red Lions FC"}
	require.NoError(t, service.CreateTeam(ctx, created))

	created.Name = "Blue Falcons"
	require.NoError(t, service.UpdateTeam(ctx, created))
	assert.Equal(t, "blue-falcons", created.Slug)

	_, err := service.GetTeam(ctx, "blue-falcons")
	assert.NoError(t, err)
}

/*
TestService_DeleteTeam verifies soft deletion hides the team from reads.
*/
func TestService_DeleteTeam(t *testing.T) {
	service, _ := newTeamService()
	ctx := context.Background()

	created := &team.Team{Name: "Red Lions FC"}
	require.NoError(t, service.CreateTeam(ctx, created))
	require.NoError(t, service.DeleteTeam(ctx, created.ID))

	_, err := service.GetTeam(ctx, created.ID)
	assert.Equal(t, "NOT_FOUND", apperr.Code(err))

	teams, total, err := service.ListTeams(ctx, team.TeamFilter{}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Zero(t, total)
}
