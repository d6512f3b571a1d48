// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-id/internal/platform/request"
	"github.com/taibuivan/yomira-id/internal/platform/respond"
)

// # Definitions & Constructors

// HandlerConfig carries the transport settings of the session endpoints.
type HandlerConfig struct {
	// UploadDir is where multipart files are spooled before upload.
	UploadDir string

	// AccessTokenTTL and RefreshTokenTTL set the cookie lifetimes.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Handler implements the session lifecycle HTTP endpoints.
//
// # Scope
//
// Registration, login, token refresh, logout and password change. Both
// tokens travel as HttpOnly+Secure cookies and in the JSON body, so
// browser and non-browser clients are served by the same endpoints.
type Handler struct {
	authService *Service
	config      HandlerConfig
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, config HandlerConfig) *Handler {
	return &Handler{authService: service, config: config}
}

// RegisterPublicRoutes attaches the endpoints that never read an access token.
//
// They must stay outside [middleware.Authenticate]: a client refreshing its
// session usually still sends the expired access token.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart).
//   - POST /login           : Authenticates and sets both cookies.
//   - POST /refresh-token   : Rotates the token pair.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)
}

// RegisterSecuredRoutes attaches the endpoints that act on the caller's
// session. The router must already run [middleware.Authenticate].
//
// # Endpoints
//   - POST /logout          : Revokes the refresh token.
//   - POST /change-password : Replaces the password.
func (handler *Handler) RegisterSecuredRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})
}

// # Request Payloads

type loginRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confPassword"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Request:
  - Body: multipart form (fullName, email, userName, password, avatar, coverImage)

Response:
  - 201: User: Created user profile (no credential fields)
  - 400: VALIDATION_ERROR: Missing field or avatar
  - 409: CONFLICT: Username or Email already exists
  - 502: UPSTREAM_FAILURE: Avatar upload failed
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatarPath, cleanupAvatar, err := requestutil.SpoolFile(request, FieldAvatar, handler.config.UploadDir)
	defer cleanupAvatar()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	coverPath, cleanupCover, err := requestutil.SpoolFile(request, FieldCoverImage, handler.config.UploadDir)
	defer cleanupCover()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName:       request.FormValue(FieldFullName),
		Email:          request.FormValue(FieldEmail),
		Username:       request.FormValue(FieldUserName),
		Password:       request.FormValue(FieldPassword),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Request:
  - Body: loginRequest (userName or email, password)

Response:
  - 200: Session: user, accessToken, refreshToken (+ both cookies)
  - 401: INVALID_CREDENTIALS: Wrong password
  - 404: NOT_FOUND: Unknown user
  - 429: RATE_LIMITED: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.UserName,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OKMessage(writer, session, "User logged in successfully")
}

/*
Refresh rotates the session using a valid refresh token.

POST /api/v1/users/refresh-token

Description: Reads the refreshToken cookie, falling back to the JSON body.

Response:
  - 200: Session: new accessToken and refreshToken (+ both cookies)
  - 401: UNAUTHORIZED / INVALID_TOKEN / TOKEN_REUSED_OR_EXPIRED
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presented := requestutil.CookieValue(request, constants.RefreshTokenCookieName)
	if presented == "" {
		var input refreshRequest
		if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		presented = input.RefreshToken
	}

	session, err := handler.authService.Refresh(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OKMessage(writer, session, "Access token refreshed")
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Response:
  - 200: Session terminated, both cookies cleared
  - 401: UNAUTHORIZED: No valid access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OKMessage(writer, struct{}{}, "User logged out")
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/users/change-password

Request:
  - Body: changePasswordRequest (oldPassword, newPassword, confPassword)

Response:
  - 200: Password changed; the session is revoked and cookies cleared
  - 400: PASSWORD_MISMATCH: newPassword differs from confPassword
  - 401: INVALID_CREDENTIALS: Wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), ChangePasswordInput{
		UserID:          userID,
		OldPassword:     input.OldPassword,
		NewPassword:     input.NewPassword,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OKMessage(writer, struct{}{}, "Password changed successfully")
}

// # Cookies

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, sessionCookie(constants.AccessTokenCookieName, session.AccessToken, handler.config.AccessTokenTTL))
	http.SetCookie(writer, sessionCookie(constants.RefreshTokenCookieName, session.RefreshToken, handler.config.RefreshTokenTTL))
}

func clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, sessionCookie(constants.AccessTokenCookieName, "", -1))
	http.SetCookie(writer, sessionCookie(constants.RefreshTokenCookieName, "", -1))
}

// sessionCookie builds an HttpOnly+Secure cookie. A negative ttl deletes it.
func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	switch {
	case ttl < 0:
		cookie.MaxAge = -1
	case ttl > 0:
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}
