// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-id/internal/platform/validate"
	"github.com/taibuivan/yomira-id/pkg/handle"
)

const (
	msgUserNameMissing = "Username is missing"
	msgSelfSubscribe   = "You cannot subscribe to your own channel"
	msgAccountGone     = "Invalid access token"
)

// # Service Layer

// Service implements channel profile reads and subscription changes.
type Service struct {
	channelRepository Repository
}

// NewService constructs a new [Service].
func NewService(channelRepo Repository) *Service {
	return &Service{channelRepository: channelRepo}
}

/*
GetProfile returns the channel named userName as seen by viewerID.

Parameters:
  - context: context.Context
  - userName: string (any case)
  - viewerID: string ("" for anonymous viewers, isSubscribed is then false)

Returns:
  - *Profile: The aggregated projection
  - error: ValidationError for a blank name, NotFound for an unknown channel
*/
func (service *Service) GetProfile(context context.Context, userName, viewerID string) (*Profile, error) {
	normalized := handle.Username(userName)
	if normalized == "" {
		return nil, validate.RequiredError(FieldUserName, msgUserNameMissing)
	}

	profile, err := service.channelRepository.Profile(context, normalized, viewerID)
	if err != nil {
		return nil, wrap(err, "channel_service_get_profile_failed")
	}
	return profile, nil
}

/*
Subscribe makes subscriberID follow the channel named userName.

Returns:
  - *Profile: The channel as seen by the subscriber afterwards
  - error: ValidationError (blank name or own channel), NotFound,
    InvalidToken when the subscriber account no longer exists
*/
func (service *Service) Subscribe(context context.Context, subscriberID, userName string) (*Profile, error) {
	normalized, channelID, err := service.resolve(context, subscriberID, userName)
	if err != nil {
		return nil, err
	}

	if err := service.channelRepository.Subscribe(context, subscriberID, channelID); err != nil {
		// The access token outlived its account.
		if errors.Is(err, ErrSubscriberNotFound) {
			return nil, apperr.InvalidToken(msgAccountGone).WithCause(err)
		}
		return nil, wrap(err, "channel_service_subscribe_failed")
	}

	ctxutil.GetLogger(context).InfoContext(context, "channel_subscribed",
		slog.String("subscriber_id", subscriberID), slog.String("channel_id", channelID))
	return service.GetProfile(context, normalized, subscriberID)
}

// Unsubscribe removes the subscription of subscriberID to userName, if any.
func (service *Service) Unsubscribe(context context.Context, subscriberID, userName string) (*Profile, error) {
	normalized, channelID, err := service.resolve(context, subscriberID, userName)
	if err != nil {
		return nil, err
	}

	if err := service.channelRepository.Unsubscribe(context, subscriberID, channelID); err != nil {
		return nil, wrap(err, "channel_service_unsubscribe_failed")
	}

	ctxutil.GetLogger(context).InfoContext(context, "channel_unsubscribed",
		slog.String("subscriber_id", subscriberID), slog.String("channel_id", channelID))
	return service.GetProfile(context, normalized, subscriberID)
}

func (service *Service) resolve(context context.Context, subscriberID, userName string) (string, string, error) {
	normalized := handle.Username(userName)
	if normalized == "" {
		return "", "", validate.RequiredError(FieldUserName, msgUserNameMissing)
	}

	channelID, err := service.channelRepository.ResolveID(context, normalized)
	if err != nil {
		return "", "", wrap(err, "channel_service_resolve_failed")
	}
	if channelID == subscriberID {
		return "", "", apperr.ValidationError(msgSelfSubscribe)
	}
	return normalized, channelID, nil
}

func wrap(err error, action string) error {
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}
