// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"sync"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/users/auth"
)

// AccountFinder is the part of the credential store the in-memory channel repository reads.
type AccountFinder interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByUsernameOrEmail(context context.Context, username, email string) (*auth.User, error)
}

type edge struct {
	subscriberID string
	channelID    string
}

// MemoryChannelRepository keeps subscription edges in memory on top of an account store.
//
// Intended for tests and local development.
type MemoryChannelRepository struct {
	accounts AccountFinder

	mu    sync.RWMutex
	edges map[edge]struct{}
}

// NewMemoryChannelRepository creates an empty subscription graph over accounts.
func NewMemoryChannelRepository(accounts AccountFinder) *MemoryChannelRepository {
	return &MemoryChannelRepository{accounts: accounts, edges: make(map[edge]struct{})}
}

// Profile resolves the account, then computes both counts and the flag under one read lock.
func (repository *MemoryChannelRepository) Profile(context context.Context, userName, viewerID string) (*Profile, error) {
	user, err := repository.find(context, userName)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		FullName:   user.FullName,
		UserName:   user.Username,
		Avatar:     user.AvatarURL,
		CoverImage: user.CoverImageURL,
		Email:      user.Email,
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for e := range repository.edges {
		if e.channelID == user.ID {
			profile.SubscribersCount++
			if viewerID != "" && e.subscriberID == viewerID {
				profile.IsSubscribed = true
			}
		}
		if e.subscriberID == user.ID {
			profile.SubscribedToCount++
		}
	}
	return profile, nil
}

func (repository *MemoryChannelRepository) ResolveID(context context.Context, userName string) (string, error) {
	user, err := repository.find(context, userName)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (repository *MemoryChannelRepository) Subscribe(context context.Context, subscriberID, channelID string) error {
	if _, err := repository.accounts.FindByID(context, subscriberID); err != nil {
		if apperr.IsNotFound(err) {
			return ErrSubscriberNotFound
		}
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.edges[edge{subscriberID: subscriberID, channelID: channelID}] = struct{}{}
	return nil
}

func (repository *MemoryChannelRepository) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.edges, edge{subscriberID: subscriberID, channelID: channelID})
	return nil
}

func (repository *MemoryChannelRepository) find(context context.Context, userName string) (*auth.User, error) {
	if userName == "" {
		return nil, apperr.NotFound(resourceChannel)
	}
	user, err := repository.accounts.FindByUsernameOrEmail(context, userName, "")
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(resourceChannel)
		}
		return nil, err
	}
	return user, nil
}
