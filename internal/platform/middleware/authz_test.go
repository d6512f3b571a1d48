// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	"github.com/taibuivan/yomira-id/internal/platform/sec"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token == "good" {
		return &sec.AuthClaims{UserID: "user-1", Kind: sec.KindAccess}, nil
	}
	return nil, errors.New("bad token")
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.GetUserID(request.Context())))
	})
}

/*
TestAuthenticate covers token sources and rejection paths.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", "", http.StatusOK, ""},
		{"cookie", "good", "", http.StatusOK, "user-1"},
		{"bearer", "", "Bearer good", http.StatusOK, "user-1"},
		{"cookie_wins_over_header", "good", "Bearer bad", http.StatusOK, "user-1"},
		{"invalid_bearer", "", "Bearer bad", http.StatusUnauthorized, ""},
		{"invalid_cookie", "bad", "", http.StatusUnauthorized, ""},
	}

	handler := middleware.Authenticate(stubVerifier{})(echoUser())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			} else {
				assert.Contains(t, recorder.Body.String(), "INVALID_TOKEN")
			}
		})
	}
}

/*
TestRequireAuth verifies anonymous requests are rejected with 401.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{})(middleware.RequireAuth(echoUser()))

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Contains(t, anonymous.Body.String(), "UNAUTHORIZED")

	request := httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer good")
	authenticated := httptest.NewRecorder()
	handler.ServeHTTP(authenticated, request)
	assert.Equal(t, http.StatusOK, authenticated.Code)
}
