// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchside/clubapi/internal/platform/dberr"
)

// # PostgreSQL Repository

// teamColumns is the canonical SELECT column list for club.team.
const teamColumns = `id, name, slug, description, agegroup, division, coachid,
	isactive, deletedat, createdat, updatedat`

// teamRepository implements [TeamRepository] using pgx.
type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs a PostgreSQL backed team store.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

// scanTeam hydrates a single row into the domain entity.
func scanTeam(row pgx.Row) (*Team, error) {
	var team Team
	err := row.Scan(
		&team.ID, &team.Name, &team.Slug, &team.Description, &team.AgeGroup,
		&team.Division, &team.CoachID, &team.IsActive, &team.DeletedAt,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

/*
List retrieves teams matching the filter with pagination.

Description: Uses a window function to compute the total match count in the
same round-trip as the page itself.

Returns:
  - []*Team: Page of matching teams, newest first
  - int: Total matches across all pages
  - error: Storage failures
*/
func (repository *teamRepository) List(ctx context.Context, filter TeamFilter, limit, offset int) ([]*Team, int, error) {

	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(`
		SELECT ` + teamColumns + `, COUNT(*) OVER() AS total_count
		FROM club.team
		WHERE deletedat IS NULL`)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", len(args)))
	}

	if filter.AgeGroup != "" {
		args = append(args, filter.AgeGroup)
		queryBuilder.WriteString(fmt.Sprintf(" AND agegroup = $%d", len(args)))
	}

	if filter.ActiveOnly {
		queryBuilder.WriteString(" AND isactive = TRUE")
	}

	args = append(args, limit)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY createdat DESC LIMIT $%d", len(args)))

	args = append(args, offset)
	queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "teams", "")
	}
	defer rows.Close()

	var teams []*Team
	var total int

	for rows.Next() {
		var team Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.Slug, &team.Description, &team.AgeGroup,
			&team.Division, &team.CoachID, &team.IsActive, &team.DeletedAt,
			&team.CreatedAt, &team.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "teams", "")
		}
		teams = append(teams, &team)
	}

	return teams, total, rows.Err()
}

// FindByID retrieves a single team by primary key.
func (repository *teamRepository) FindByID(ctx context.Context, id string) (*Team, error) {
	row := repository.pool.QueryRow(ctx, `
		SELECT `+teamColumns+`
		FROM club.team
		WHERE id = $1 AND deletedat IS NULL`, id)

	team, err := scanTeam(row)
	if err != nil {
		return nil, dberr.Wrap(err, "team", "")
	}
	return team, nil
}

// FindBySlug retrieves a single team by its URL identifier.
func (repository *teamRepository) FindBySlug(ctx context.Context, slug string) (*Team, error) {
	row := repository.pool.QueryRow(ctx, `
		SELECT `+teamColumns+`
		FROM club.team
		WHERE slug = $1 AND deletedat IS NULL`, slug)

	team, err := scanTeam(row)
	if err != nil {
		return nil, dberr.Wrap(err, "team", "")
	}
	return team, nil
}

// Create persists a new team. Slug collisions surface as Conflict.
func (repository *teamRepository) Create(ctx context.Context, team *Team) error {
	row := repository.pool.QueryRow(ctx, `
		INSERT INTO club.team
			(id, name, slug, description, agegroup, division, coachid, isactive)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING createdat, updatedat`,
		team.ID, team.Name, team.Slug, team.Description, team.AgeGroup,
		team.Division, team.CoachID, team.IsActive,
	)

	if err := row.Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
		return dberr.Wrap(err, "team", "A team with this name already exists")
	}
	return nil
}

// Update rewrites the mutable attributes of an existing team.
func (repository *teamRepository) Update(ctx context.Context, team *Team) error {
	row := repository.pool.QueryRow(ctx, `
		UPDATE club.team
		SET name = $2, slug = $3, description = $4, agegroup = $5,
			division = $6, coachid = $7, isactive = $8, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`,
		team.ID, team.Name, team.Slug, team.Description, team.AgeGroup,
		team.Division, team.CoachID, team.IsActive,
	)

	if err := row.Scan(&team.UpdatedAt); err != nil {
		return dberr.Wrap(err, "team", "A team with this name already exists")
	}
	return nil
}

// SoftDelete marks a team as removed. Already-deleted rows map to NotFound.
func (repository *teamRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := repository.pool.Exec(ctx, `
		UPDATE club.team
		SET deletedat = NOW(), isactive = FALSE, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`, id)

	if err != nil {
		return dberr.Wrap(err, "team", "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "team", "")
	}
	return nil
}
