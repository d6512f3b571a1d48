// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel exposes users as channels: public profiles with
subscriber counts and a subscription graph.

# Architecture

  - Entities: Profile (read model).
  - Persistence: The aggregation runs as one statement so that the counts
    and the viewer flag come from the same snapshot.
  - Domain: Channels are plain accounts; see the auth package for the User entity.
*/
package channel

import (
	"context"
	"errors"
)

// ErrSubscriberNotFound is returned by [Repository.Subscribe] when the
// subscriber account no longer exists.
var ErrSubscriberNotFound = errors.New("channel: subscriber account not found")

// # Domain Entities

// Profile is the public projection of a channel as seen by one viewer.
type Profile struct {
	FullName          string `json:"fullName"`
	UserName          string `json:"userName"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	Email             string `json:"email"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// # Repository Contracts

// Repository defines the persistence contract for channels and subscriptions.
type Repository interface {
	/*
		Profile aggregates the channel named userName.

		Parameters:
		  - context: context.Context
		  - userName: string (normalized)
		  - viewerID: string ("" for anonymous viewers)

		Returns:
		  - *Profile: Counts plus the viewer-relative flag
		  - error: apperr.NotFound or storage failures
	*/
	Profile(context context.Context, userName, viewerID string) (*Profile, error)

	// ResolveID returns the account id of the channel named userName.
	ResolveID(context context.Context, userName string) (string, error)

	// Subscribe records that subscriberID follows channelID. Repeated calls are no-ops.
	// A missing subscriber yields [ErrSubscriberNotFound], a missing channel apperr.NotFound.
	Subscribe(context context.Context, subscriberID, channelID string) error

	// Unsubscribe removes the edge if present.
	Unsubscribe(context context.Context, subscriberID, channelID string) error
}

// # Field Identifiers

const (
	FieldUserName = "userName"

	resourceChannel = "Channel"
)
