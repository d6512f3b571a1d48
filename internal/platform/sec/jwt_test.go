// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	service, err := NewTokenService(
		TokenSettings{Secret: "access-secret", TimeToLive: 15 * time.Minute},
		TokenSettings{Secret: "refresh-secret", TimeToLive: 240 * time.Hour},
		"id.test",
	)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that each token kind verifies under its own kind.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	pair, err := service.IssuePair("user-1")
	require.NoError(t, err)

	access, err := service.Verify(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "user-1", access.Subject)
	assert.Equal(t, KindAccess, access.Kind)

	refresh, err := service.Verify(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.UserID)
	assert.Equal(t, KindRefresh, refresh.Kind)
}

/*
TestTokenService_UniqueTokens verifies that two refresh tokens issued in the same second differ.
*/
func TestTokenService_UniqueTokens(t *testing.T) {
	service := newTestTokenService(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	first, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)
	second, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestTokenService_Rejections covers the failure paths of Verify.
*/
func TestTokenService_Rejections(t *testing.T) {
	service := newTestTokenService(t)

	access, err := service.IssueAccessToken("user-1")
	require.NoError(t, err)
	refresh, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	other, err := NewTokenService(
		TokenSettings{Secret: "another-access", TimeToLive: time.Minute},
		TokenSettings{Secret: "another-refresh", TimeToLive: time.Hour},
		"id.test",
	)
	require.NoError(t, err)
	foreign, err := other.IssueAccessToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		kind  TokenKind
	}{
		{"access_as_refresh", access, KindRefresh},
		{"refresh_as_access", refresh, KindAccess},
		{"wrong_secret", foreign, KindAccess},
		{"malformed", "not.a.jwt", KindAccess},
		{"empty", "", KindRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token, tt.kind)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

/*
TestTokenService_Expired verifies that a token past its lifetime is rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)
	issuedAt := time.Now().Add(-time.Hour)
	service.now = func() time.Time { return issuedAt }

	token, err := service.IssueAccessToken("user-1")
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

/*
TestNewTokenService_Validation rejects unusable configurations.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		access  TokenSettings
		refresh TokenSettings
	}{
		{"shared_secret", TokenSettings{"same", time.Minute}, TokenSettings{"same", time.Hour}},
		{"empty_secret", TokenSettings{"", time.Minute}, TokenSettings{"r", time.Hour}},
		{"zero_ttl", TokenSettings{"a", 0}, TokenSettings{"r", time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(tt.access, tt.refresh, "id.test")
			assert.Error(t, err)
		})
	}
}

/*
TestHashToken verifies the refresh token digest helpers.
*/
func TestHashToken(t *testing.T) {
	digest := HashToken("token-a")

	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashToken("token-a"))
	assert.True(t, TokenHashEqual("token-a", digest))
	assert.False(t, TokenHashEqual("token-b", digest))
	assert.False(t, TokenHashEqual("token-a", ""))
}

/*
TestPasswordHash verifies bcrypt hashing round trips.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret#123")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret#123", hash)
	assert.True(t, CheckPasswordHash("Secret#123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
