// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/yomira")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

/*
TestLoad_Defaults verifies token lifetimes and server defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiry)
	assert.NotEmpty(t, cfg.UploadTempDir)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_SharedSecretRejected verifies that both token kinds cannot share a key.
*/
func TestLoad_SharedSecretRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_TOKEN_SECRET", "access-secret")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrSharedTokenSecret)
}

/*
TestLoad_MissingSecret verifies that required secrets are enforced.
*/
func TestLoad_MissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestConfig_IsAllowedOrigin checks the CORS allow-list parsing.
*/
func TestConfig_IsAllowedOrigin(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://app.yomira.app, https://studio.yomira.app")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsAllowedOrigin("https://studio.yomira.app"))
	assert.False(t, cfg.IsAllowedOrigin("https://evil.example"))
}
