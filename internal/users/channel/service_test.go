// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/users/auth"
	"github.com/taibuivan/yomira-id/internal/users/channel"
)

const (
	idA = "01900000-0000-7000-8000-00000000000a"
	idB = "01900000-0000-7000-8000-00000000000b"
	idC = "01900000-0000-7000-8000-00000000000c"
	idZ = "01900000-0000-7000-8000-00000000001a"
)

func newService(t *testing.T) *channel.Service {
	t.Helper()

	users := auth.NewMemoryUserRepository()
	for id, name := range map[string]string{idA: "anna", idB: "bruno", idC: "carol", idZ: "zed"} {
		require.NoError(t, users.Create(context.Background(), &auth.User{
			ID: id, Username: name, Email: name + "@x.com", FullName: name,
			AvatarURL: "memory://" + name, PasswordHash: "hash",
		}))
	}
	return channel.NewService(channel.NewMemoryChannelRepository(users))
}

/*
TestGetProfile_Aggregation covers counts and the viewer-relative flag.
*/
func TestGetProfile_Aggregation(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Subscribe(ctx, idA, "carol")
	require.NoError(t, err)
	_, err = service.Subscribe(ctx, idB, "carol")
	require.NoError(t, err)
	_, err = service.Subscribe(ctx, idC, "anna")
	require.NoError(t, err)

	tests := []struct {
		name           string
		viewer         string
		wantSubscribed bool
	}{
		{"subscriber_viewer", idA, true},
		{"other_viewer", idZ, false},
		{"anonymous", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := service.GetProfile(ctx, "Carol", tt.viewer)
			require.NoError(t, err)

			assert.Equal(t, "carol", profile.UserName)
			assert.Equal(t, int64(2), profile.SubscribersCount)
			assert.Equal(t, int64(1), profile.SubscribedToCount)
			assert.Equal(t, tt.wantSubscribed, profile.IsSubscribed)
		})
	}
}

/*
TestGetProfile_Errors covers blank and unknown channels.
*/
func TestGetProfile_Errors(t *testing.T) {
	service := newService(t)

	_, err := service.GetProfile(context.Background(), "  ", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.GetProfile(context.Background(), "ghost", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestSubscribe verifies idempotency, self-subscription and unsubscribe.
*/
func TestSubscribe(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		profile, err := service.Subscribe(ctx, idA, "bruno")
		require.NoError(t, err)
		assert.Equal(t, int64(1), profile.SubscribersCount)
		assert.True(t, profile.IsSubscribed)
	}

	_, err := service.Subscribe(ctx, idA, "anna")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Subscribe(ctx, idA, "ghost")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	profile, err := service.Unsubscribe(ctx, idA, "bruno")
	require.NoError(t, err)
	assert.Zero(t, profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)

	_, err = service.Unsubscribe(ctx, idA, "bruno")
	assert.NoError(t, err)
}

/*
TestSubscribe_Concurrent verifies concurrent subscribers are all counted once.
*/
func TestSubscribe_Concurrent(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, subscriber := range []string{idA, idB, idZ, idA, idB, idZ} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := service.Subscribe(ctx, id, "carol")
			assert.NoError(t, err)
		}(subscriber)
	}
	wg.Wait()

	profile, err := service.GetProfile(ctx, "carol", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.SubscribersCount)
}

/*
TestSubscribe_DeletedSubscriber verifies a token that outlived its account is
rejected as an invalid token rather than a server error.
*/
func TestSubscribe_DeletedSubscriber(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	const deletedID = "01900000-0000-7000-8000-0000000000ff"

	_, err := service.Subscribe(ctx, deletedID, "carol")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken), "got %v", err)

	profile, err := service.GetProfile(ctx, "carol", "")
	require.NoError(t, err)
	assert.Zero(t, profile.SubscribersCount)
}
