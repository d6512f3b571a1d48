// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/media"
	"github.com/taibuivan/yomira-id/internal/users/auth"
)

func newRedisAttempts(t *testing.T) (*auth.RedisLoginAttemptRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewLoginAttemptRepository(client), server
}

/*
TestRedisLoginAttempts_Window verifies counting, the fixed window and reset.
*/
func TestRedisLoginAttempts_Window(t *testing.T) {
	repository, server := newRedisAttempts(t)
	ctx := context.Background()
	const window = time.Minute

	failures, remaining, err := repository.Failures(ctx, "email:v@x.com")
	require.NoError(t, err)
	assert.Zero(t, failures)
	assert.Zero(t, remaining)

	// 1. Counting opens the window once
	for want := 1; want <= 3; want++ {
		count, err := repository.RecordFailure(ctx, "email:v@x.com", window)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	failures, remaining, err = repository.Failures(ctx, "email:v@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, failures)
	assert.Positive(t, remaining)
	assert.LessOrEqual(t, remaining, window)

	// 2. Later failures do not extend the window
	server.FastForward(40 * time.Second)
	_, err = repository.RecordFailure(ctx, "email:v@x.com", window)
	require.NoError(t, err)

	_, remaining, err = repository.Failures(ctx, "email:v@x.com")
	require.NoError(t, err)
	assert.LessOrEqual(t, remaining, 20*time.Second)

	// 3. The window expires
	server.FastForward(21 * time.Second)
	failures, _, err = repository.Failures(ctx, "email:v@x.com")
	require.NoError(t, err)
	assert.Zero(t, failures)

	// 4. Reset clears an open window
	_, err = repository.RecordFailure(ctx, "username:victim", window)
	require.NoError(t, err)
	require.NoError(t, repository.Reset(ctx, "username:victim"))

	failures, _, err = repository.Failures(ctx, "username:victim")
	require.NoError(t, err)
	assert.Zero(t, failures)
}

/*
TestRedisLoginAttempts_KeysAreHashed verifies raw identifiers never reach Redis.
*/
func TestRedisLoginAttempts_KeysAreHashed(t *testing.T) {
	repository, server := newRedisAttempts(t)

	_, err := repository.RecordFailure(context.Background(), "email:v@x.com", time.Minute)
	require.NoError(t, err)

	keys := server.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], constants.RedisPrefixLoginAttempt))
	assert.NotContains(t, keys[0], "v@x.com")
}

/*
TestLogin_ThrottleStoreDown verifies logins proceed when the counter store fails.
*/
func TestLogin_ThrottleStoreDown(t *testing.T) {
	attempts, server := newRedisAttempts(t)
	f := newFixture(t)
	service := auth.NewService(f.users, attempts, f.tokens, media.NewMemoryUploader())

	f.register(t, "alice", "a@x.com", "p1")
	server.Close()

	session, err := service.Login(context.Background(), auth.LoginInput{Username: "alice", Password: "p1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.RefreshToken)
}
