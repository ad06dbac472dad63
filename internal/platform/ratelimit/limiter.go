// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitchside/clubapi/internal/platform/constants"
)

// Result is the outcome of one consume attempt against a policy.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the number of points left in the current window.
	Remaining int

	// RetryAfter is how long the client must wait when rejected.
	RetryAfter time.Duration
}

// Limiter enforces a [Policy] for a caller key.
//
// Keys combine the client identity (account id or IP) with the route, so one
// abusive caller cannot exhaust another caller's budget.
type Limiter interface {
	// Consume spends one point. It must be atomic under concurrent access:
	// two racing requests for the same key never both observe the last point.
	Consume(ctx context.Context, key string, policy Policy) (Result, error)
}

// # Redis Enforcement

// consumeScript runs the whole increment-and-compare cycle server-side in one
// atomic step:
//
//  1. A live block key rejects immediately with its remaining TTL.
//  2. The window counter is incremented; the first hit arms the window TTL.
//  3. Exhausting the budget arms the block key (when the policy declares a
//     block duration) and rejects.
var consumeScript = redis.NewScript(`
local counter = KEYS[1]
local block = KEYS[2]
local points = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local blockSeconds = tonumber(ARGV[3])

local blockTTL = redis.call("TTL", block)
if blockTTL > 0 then
  return {0, 0, blockTTL}
end

local count = redis.call("INCR", counter)
if count == 1 then
  redis.call("EXPIRE", counter, window)
end

if count > points then
  local retry = redis.call("TTL", counter)
  if blockSeconds > 0 then
    redis.call("SET", block, "1", "EX", blockSeconds)
    retry = blockSeconds
  end
  return {0, 0, retry}
end

return {1, points - count, 0}
`)

// RedisLimiter implements [Limiter] on a shared Redis instance, so the budget
// holds across all API replicas.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Consume spends one point for key under policy.
func (limiter *RedisLimiter) Consume(ctx context.Context, key string, policy Policy) (Result, error) {
	counterKey := constants.RedisPrefixRateLimit + key
	blockKey := constants.RedisPrefixRateBlock + key

	raw, err := consumeScript.Run(ctx, limiter.client,
		[]string{counterKey, blockKey},
		policy.Points,
		int(policy.Window.Seconds()),
		int(policy.BlockDuration.Seconds()),
	).Int64Slice()

	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: consume failed: %w", err)
	}

	if len(raw) != 3 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script reply length %d", len(raw))
	}

	return Result{
		Allowed:    raw[0] == 1,
		Remaining:  int(raw[1]),
		RetryAfter: time.Duration(raw[2]) * time.Second,
	}, nil
}
