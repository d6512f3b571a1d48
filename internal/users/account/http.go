// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-id/internal/platform/request"
	"github.com/taibuivan/yomira-id/internal/platform/respond"
	"github.com/taibuivan/yomira-id/internal/users/auth"
)

// Handler implements the HTTP layer for profile management.
//
// # Security
//
// All endpoints require an active access token; the RequireAuth middleware
// is applied in [Handler.RegisterRoutes].
type Handler struct {
	accountService *Service
	uploadDir      string
}

// NewHandler constructs a new account [Handler]. Multipart files are spooled to uploadDir.
func NewHandler(service *Service, uploadDir string) *Handler {
	return &Handler{accountService: service, uploadDir: uploadDir}
}

// RegisterRoutes attaches the profile endpoints to a users router.
//
// # Endpoints
//   - GET   /current-user   : The authenticated user's record.
//   - PATCH /update-account : Replace fullName and email.
//   - PATCH /avatar         : Replace the avatar (multipart "avatar").
//   - PATCH /cover-image    : Replace the cover image (multipart "coverImage").
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/current-user", handler.currentUser)
		r.Patch("/update-account", handler.updateAccount)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
	})
}

// # Profile Endpoints

/*
GET /api/v1/users/current-user.

Response:
  - 200: User: The sanitized profile
  - 401: UNAUTHORIZED / INVALID_TOKEN
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, user, "User fetched successfully")
}

// updateAccountRequest defines the expected JSON payload for detail updates.
type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

/*
PATCH /api/v1/users/update-account.

Request:
  - body: updateAccountRequest

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR: Missing or malformed field
  - 409: CONFLICT: Email already registered
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateDetails(request.Context(), userID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, user, "Account details updated successfully")
}

/*
PATCH /api/v1/users/avatar.

Response:
  - 200: User: Profile with the new avatar
  - 400: VALIDATION_ERROR: File missing
  - 502: UPSTREAM_FAILURE: Upload failed
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar, "Avatar image updated successfully")
}

/*
PATCH /api/v1/users/cover-image.

Response:
  - 200: User: Profile with the new cover image
  - 400: VALIDATION_ERROR: File missing
  - 502: UPSTREAM_FAILURE: Upload failed
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID, localPath string) (*auth.User, error)

func (handler *Handler) replaceImage(writer http.ResponseWriter, request *http.Request, field string, update imageUpdater, message string) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	localPath, cleanup, err := requestutil.SpoolFile(request, field, handler.uploadDir)
	defer cleanup()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := update(request.Context(), userID, localPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, user, message)
}
