// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	"github.com/taibuivan/yomira-id/internal/platform/sec"
	"github.com/taibuivan/yomira-id/internal/users/account"
)

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	service, _, _ := seed(t)

	tokens, err := sec.NewTokenService(
		sec.TokenSettings{Secret: "access-secret", TimeToLive: time.Minute},
		sec.TokenSettings{Secret: "refresh-secret", TimeToLive: time.Hour},
		constants.AuthIssuer,
	)
	require.NoError(t, err)

	accessToken, err := tokens.IssueAccessToken(aliceID)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Route("/api/v1/users", account.NewHandler(service, t.TempDir()).RegisterRoutes)
	return router, accessToken
}

func authorized(request *http.Request, token string) *http.Request {
	request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	return request
}

func dataOf(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
		Code string         `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestHTTP_CurrentUser verifies authentication is required and credentials never leak.
*/
func TestHTTP_CurrentUser(t *testing.T) {
	router, token := newRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, authorized(httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil), token))
	require.Equal(t, http.StatusOK, recorder.Code)

	data := dataOf(t, recorder)
	assert.Equal(t, "alice", data["userName"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "refreshToken")
}

/*
TestHTTP_UpdateAccount verifies a JSON detail update.
*/
func TestHTTP_UpdateAccount(t *testing.T) {
	router, token := newRouter(t)

	request := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-account",
		strings.NewReader(`{"fullName":"Alice Liddell","email":"liddell@x.com"}`))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authorized(request, token))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	data := dataOf(t, recorder)
	assert.Equal(t, "Alice Liddell", data["fullName"])
	assert.Equal(t, "liddell@x.com", data["email"])
}

/*
TestHTTP_UpdateAvatar verifies the multipart image endpoints.
*/
func TestHTTP_UpdateAvatar(t *testing.T) {
	router, token := newRouter(t)

	send := func(path, field string, withFile bool) *httptest.ResponseRecorder {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		if withFile {
			part, err := form.CreateFormFile(field, "new.png")
			require.NoError(t, err)
			_, err = part.Write([]byte("\x89PNG\r\n\x1a\nnew"))
			require.NoError(t, err)
		}
		require.NoError(t, form.Close())

		request := httptest.NewRequest(http.MethodPatch, path, &body)
		request.Header.Set("Content-Type", form.FormDataContentType())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authorized(request, token))
		return recorder
	}

	recorder := send("/api/v1/users/avatar", "avatar", false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = send("/api/v1/users/avatar", "avatar", true)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.NotEqual(t, "memory://old-avatar", dataOf(t, recorder)["avatar"])

	recorder = send("/api/v1/users/cover-image", "coverImage", true)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.NotEmpty(t, dataOf(t, recorder)["coverImage"])
}
