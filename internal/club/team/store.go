// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package team

import (
	"context"
)

// # Repository Contracts

/*
TeamRepository defines the persistence boundary for team records.

Description: Implementations are expected to enforce slug uniqueness and to
hide soft-deleted rows from every read path.
*/
type TeamRepository interface {
	// List returns teams matching the filter plus the total match count.
	List(ctx context.Context, filter TeamFilter, limit, offset int) ([]*Team, int, error)

	// FindByID retrieves a single team by primary key.
	FindByID(ctx context.Context, id string) (*Team, error)

	// FindBySlug retrieves a single team by its URL identifier.
	FindBySlug(ctx context.Context, slug string) (*Team, error)

	// Create persists a new team record.
	Create(ctx context.Context, team *Team) error

	// Update rewrites the mutable attributes of an existing team.
	Update(ctx context.Context, team *Team) error

	// SoftDelete marks a team as removed without destroying history.
	SoftDelete(ctx context.Context, id string) error
}
