// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package ratelimit implements declarative per-route abuse control.

It separates two concerns:

  - Policy declaration: a static table attaching {points, window, block
    duration} to route patterns, with most-specific-route-wins precedence.
  - Enforcement: a Redis-backed fixed-window limiter with atomic
    increment-and-compare semantics, safe under concurrent requests.

The sensitive authentication routes (login, register, refresh) carry much
tighter budgets than the rest of the API; everything else falls through to
the table default.
*/
package ratelimit

import (
	"fmt"
	"time"

	"github.com/pitchside/clubapi/internal/platform/routematch"
)

// Policy is the declarative abuse-control budget for a route.
type Policy struct {
	// Points is the number of requests allowed within one Window.
	Points int

	// Window is the fixed counting window.
	Window time.Duration

	// BlockDuration is how long a client stays rejected after exhausting its
	// points. Zero means the client recovers as soon as the window rolls over.
	BlockDuration time.Duration
}

// Validate checks that the policy describes an enforceable budget.
func (p Policy) Validate() error {
	if p.Points <= 0 {
		return fmt.Errorf("ratelimit: points must be positive, got %d", p.Points)
	}
	if p.Window < time.Second {
		return fmt.Errorf("ratelimit: window must be at least 1s, got %s", p.Window)
	}
	if p.BlockDuration < 0 {
		return fmt.Errorf("ratelimit: block duration must not be negative, got %s", p.BlockDuration)
	}
	return nil
}

// Table is the per-route policy table.
type Table struct {
	routes *routematch.Table[Policy]
}

// NewTable creates a policy table with the given default budget.
func NewTable(fallback Policy) (*Table, error) {
	if err := fallback.Validate(); err != nil {
		return nil, err
	}
	return &Table{routes: routematch.New(fallback)}, nil
}

// Declare attaches a policy to a "METHOD /path" route pattern.
// Invalid policies and malformed patterns are rejected at startup.
func (t *Table) Declare(pattern string, policy Policy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("%w (route %q)", err, pattern)
	}
	return t.routes.Set(pattern, policy)
}

// Lookup resolves the effective policy for a request. The most specific
// declared route wins over the default.
func (t *Table) Lookup(method, path string) Policy {
	policy, _ := t.routes.Lookup(method, path)
	return policy
}

// # Default Catalog

// DefaultTable declares the abuse budgets for the authentication surface:
// login 5 attempts / 15 min with a 15 min block, register 3 / hour,
// refresh 10 / min.
func DefaultTable() (*Table, error) {
	table, err := NewTable(Policy{Points: 300, Window: time.Minute})
	if err != nil {
		return nil, err
	}

	declarations := map[string]Policy{
		"POST /api/v1/auth/login":    {Points: 5, Window: 15 * time.Minute, BlockDuration: 15 * time.Minute},
		"POST /api/v1/auth/register": {Points: 3, Window: time.Hour, BlockDuration: time.Hour},
		"POST /api/v1/auth/refresh":  {Points: 10, Window: time.Minute, BlockDuration: time.Minute},
	}

	for pattern, policy := range declarations {
		if err := table.Declare(pattern, policy); err != nil {
			return nil, err
		}
	}

	return table, nil
}
