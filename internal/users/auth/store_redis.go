// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/sec"
)

// RedisLoginAttemptRepository implements [LoginAttemptRepository] with expiring counters.
type RedisLoginAttemptRepository struct {
	client redis.Cmdable
}

// NewLoginAttemptRepository creates a new Redis-backed LoginAttemptRepository.
func NewLoginAttemptRepository(client redis.Cmdable) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

// attemptKey hashes the identifier so raw emails never appear in Redis keys.
func attemptKey(identifier string) string {
	return constants.RedisPrefixLoginAttempt + sec.HashToken(identifier)
}

/*
Failures returns the failure count and remaining window for identifier.

Returns:
  - int: 0 when no window is open
  - time.Duration: remaining TTL of the window
  - error: connectivity errors
*/
func (repository *RedisLoginAttemptRepository) Failures(context context.Context, identifier string) (int, time.Duration, error) {
	key := attemptKey(identifier)

	pipe := repository.client.Pipeline()
	countCmd := pipe.Get(context, key)
	ttlCmd := pipe.TTL(context, key)
	if _, err := pipe.Exec(context); err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("redis_login_attempt_get_failed: %w", err)
	}

	count, err := countCmd.Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("redis_login_attempt_parse_failed: %w", err)
	}

	return count, ttlCmd.Val(), nil
}

/*
RecordFailure increments the counter. The first failure opens the window;
later failures do not extend it.
*/
func (repository *RedisLoginAttemptRepository) RecordFailure(context context.Context, identifier string, window time.Duration) (int, error) {
	key := attemptKey(identifier)

	pipe := repository.client.TxPipeline()
	incrCmd := pipe.Incr(context, key)
	pipe.ExpireNX(context, key, window)
	if _, err := pipe.Exec(context); err != nil {
		return 0, fmt.Errorf("redis_login_attempt_incr_failed: %w", err)
	}

	return int(incrCmd.Val()), nil
}

/*
Reset deletes the counter for identifier.
*/
func (repository *RedisLoginAttemptRepository) Reset(context context.Context, identifier string) error {
	if err := repository.client.Del(context, attemptKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_reset_failed: %w", err)
	}
	return nil
}
