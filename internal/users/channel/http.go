// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-id/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-id/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-id/internal/platform/request"
	"github.com/taibuivan/yomira-id/internal/platform/respond"
)

// Handler implements the HTTP layer for channel profiles.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new channel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Routes returns a [chi.Router] configured with the channel endpoints.
//
// # Endpoints
//   - GET    /{userName}           : Channel profile (optional auth).
//   - POST   /{userName}/subscribe : Subscribe (auth).
//   - DELETE /{userName}/subscribe : Unsubscribe (auth).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{userName}", handler.getProfile)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{userName}/subscribe", handler.subscribe)
		r.Delete("/{userName}/subscribe", handler.unsubscribe)
	})

	return router
}

/*
GET /api/v1/users/c/{userName}.

Description: Anonymous viewers receive isSubscribed=false.

Response:
  - 200: Profile
  - 404: NOT_FOUND: Channel does not exist
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.channelService.GetProfile(
		request.Context(),
		requestutil.Param(request, FieldUserName),
		ctxutil.GetUserID(request.Context()),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, profile, "User channel fetched successfully")
}

/*
POST /api/v1/users/c/{userName}/subscribe.

Response:
  - 200: Profile: The channel after subscribing
  - 400: VALIDATION_ERROR: Own channel
  - 404: NOT_FOUND: Channel does not exist
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.Subscribe(request.Context(), userID, requestutil.Param(request, FieldUserName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, profile, "Subscribed successfully")
}

// DELETE /api/v1/users/c/{userName}/subscribe.
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.Unsubscribe(request.Context(), userID, requestutil.Param(request, FieldUserName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, profile, "Unsubscribed successfully")
}
