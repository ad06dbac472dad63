// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package team implements the club's team roster domain.

It manages the lifecycle of teams (creation, metadata updates, retirement) and
their public discovery surface.

# Architecture

  - Service: Orchestrates business logic and slug assignment.
  - Repository: Abstracted interface over the PostgreSQL team store.
  - Handler: RESTful JSON delivery, access controlled by route policies.
*/
package team

import (
	"time"
)

// # Domain Entities

// Team represents a single squad within the club.
type Team struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	AgeGroup    string     `json:"ageGroup,omitempty"`
	Division    string     `json:"division,omitempty"`
	CoachID     *string    `json:"coachId,omitempty"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TeamFilter narrows list queries.
type TeamFilter struct {
	// Search matches against team name (case-insensitive substring).
	Search string

	// AgeGroup filters by exact age bracket label (e.g. "U17").
	AgeGroup string

	// ActiveOnly excludes retired teams when set.
	ActiveOnly bool
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAgeGroup    = "ageGroup"
	FieldDivision    = "division"
	FieldCoachID     = "coachId"
)
