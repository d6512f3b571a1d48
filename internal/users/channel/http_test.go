// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	"github.com/taibuivan/yomira-id/internal/platform/sec"
	"github.com/taibuivan/yomira-id/internal/users/channel"
)

/*
TestHTTP_Channel verifies optional auth on reads and required auth on writes.
*/
func TestHTTP_Channel(t *testing.T) {
	tokens, err := sec.NewTokenService(
		sec.TokenSettings{Secret: "access-secret", TimeToLive: time.Minute},
		sec.TokenSettings{Secret: "refresh-secret", TimeToLive: time.Hour},
		constants.AuthIssuer,
	)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1/users/c", channel.NewHandler(newService(t)).Routes())

	annaToken, err := tokens.IssueAccessToken(idA)
	require.NoError(t, err)

	do := func(method, path, token string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, nil)
		if token != "" {
			request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	profileOf := func(recorder *httptest.ResponseRecorder) channel.Profile {
		var envelope struct {
			Data channel.Profile `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		return envelope.Data
	}

	// Anonymous writes are rejected
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/api/v1/users/c/carol/subscribe", "").Code)

	recorder := do(http.MethodPost, "/api/v1/users/c/carol/subscribe", annaToken)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, profileOf(recorder).IsSubscribed)

	recorder = do(http.MethodGet, "/api/v1/users/c/carol", annaToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, profileOf(recorder).IsSubscribed)
	assert.Equal(t, int64(1), profileOf(recorder).SubscribersCount)

	recorder = do(http.MethodGet, "/api/v1/users/c/carol", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, profileOf(recorder).IsSubscribed)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/users/c/ghost", "").Code)

	recorder = do(http.MethodDelete, "/api/v1/users/c/carol/subscribe", annaToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, profileOf(recorder).SubscribersCount)
}
