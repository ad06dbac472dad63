// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clubapi/internal/platform/ratelimit"
)

func newTestLimiter(t *testing.T) (*ratelimit.RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimit.NewRedisLimiter(client), server
}

/*
TestRedisLimiter_BudgetExhaustion walks a small budget to zero and verifies
the rejection carries a retry hint.
*/
func TestRedisLimiter_BudgetExhaustion(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	policy := ratelimit.Policy{Points: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		result, err := limiter.Consume(ctx, "login:10.0.0.1", policy)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "attempt %d should pass", i+1)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.Consume(ctx, "login:10.0.0.1", policy)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

/*
TestRedisLimiter_KeyIsolation proves one caller's exhaustion never affects
another key's budget.
*/
func TestRedisLimiter_KeyIsolation(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	policy := ratelimit.Policy{Points: 1, Window: time.Minute}

	first, err := limiter.Consume(ctx, "login:10.0.0.1", policy)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.Consume(ctx, "login:10.0.0.1", policy)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.Consume(ctx, "login:10.0.0.2", policy)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

/*
TestRedisLimiter_BlockDuration verifies that exhausting a blocking policy arms
the block for its full duration, outlasting the counting window.
*/
func TestRedisLimiter_BlockDuration(t *testing.T) {
	limiter, server := newTestLimiter(t)
	ctx := context.Background()

	policy := ratelimit.Policy{
		Points:        1,
		Window:        time.Minute,
		BlockDuration: 15 * time.Minute,
	}

	_, err := limiter.Consume(ctx, "login:attacker", policy)
	require.NoError(t, err)

	rejected, err := limiter.Consume(ctx, "login:attacker", policy)
	require.NoError(t, err)
	assert.False(t, rejected.Allowed)
	assert.Equal(t, 15*time.Minute, rejected.RetryAfter)

	// After the window elapses the block must still hold.
	server.FastForward(2 * time.Minute)

	stillBlocked, err := limiter.Consume(ctx, "login:attacker", policy)
	require.NoError(t, err)
	assert.False(t, stillBlocked.Allowed)

	// Once the block itself lapses, the budget resets.
	server.FastForward(15 * time.Minute)

	recovered, err := limiter.Consume(ctx, "login:attacker", policy)
	require.NoError(t, err)
	assert.True(t, recovered.Allowed)
}

/*
TestRedisLimiter_WindowReset checks the fixed window resets the counter after
its TTL passes.
*/
func TestRedisLimiter_WindowReset(t *testing.T) {
	limiter, server := newTestLimiter(t)
	ctx := context.Background()

	policy := ratelimit.Policy{Points: 1, Window: time.Minute}

	first, err := limiter.Consume(ctx, "refresh:10.0.0.1", policy)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	server.FastForward(61 * time.Second)

	second, err := limiter.Consume(ctx, "refresh:10.0.0.1", policy)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
}
