// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package sec

import "time"

// # Account Status

const (
	// StatusActive marks an account that may authenticate and act.
	StatusActive = "active"

	// StatusInactive marks a suspended or deactivated account.
	StatusInactive = "inactive"
)

// UserContext is the authenticated identity derived at verification time.
//
// # Lifecycle
//
// A UserContext is reconstructed from the CURRENT account record on every
// authenticated request and discarded when the request completes. It is never
// persisted and never rebuilt from token claims alone — a token's embedded
// role is only a hint, the account store is authoritative.
type UserContext struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        UserRole   `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsActive reports whether the identity may act on the system.
func (u *UserContext) IsActive() bool {
	return u.Status == StatusActive
}
