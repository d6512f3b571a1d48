// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
)

// MemoryUserRepository is a mutex-guarded [UserRepository] for tests and local development.
//
// It enforces the same uniqueness rules as the database constraints and also
// implements the profile update methods used by the account package.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserRepository creates an empty in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*User)}
}

func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	clone := *user
	return &clone, nil
}

func (repository *MemoryUserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if user := repository.lookup(username, email, ""); user != nil {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound(resourceUser)
}

func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if existing := repository.lookup(user.Username, "", ""); existing != nil {
		return conflictFor("account_username_key")
	}
	if existing := repository.lookup("", user.Email, ""); existing != nil {
		return conflictFor("account_email_key")
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *MemoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	return repository.mutate(userID, func(user *User) error {
		user.PasswordHash = newHash
		user.RefreshTokenHash = ""
		user.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (repository *MemoryUserRepository) SetRefreshTokenHash(_ context.Context, userID, digest string) error {
	return repository.mutate(userID, func(user *User) error {
		user.RefreshTokenHash = digest
		return nil
	})
}

func (repository *MemoryUserRepository) SwapRefreshTokenHash(_ context.Context, userID, expected, next string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok || user.RefreshTokenHash == "" || user.RefreshTokenHash != expected {
		return false, nil
	}
	user.RefreshTokenHash = next
	return true, nil
}

// # Profile Updates

// UpdateDetails replaces the full name and email of an account.
func (repository *MemoryUserRepository) UpdateDetails(_ context.Context, userID, fullName, email string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	if existing := repository.lookup("", email, userID); existing != nil {
		return nil, conflictFor("account_email_key")
	}

	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = time.Now().UTC()

	clone := *user
	return &clone, nil
}

// UpdateAvatar replaces the avatar URL and storage reference.
func (repository *MemoryUserRepository) UpdateAvatar(_ context.Context, userID, url, ref string) (*User, error) {
	return repository.mutateAndGet(userID, func(user *User) {
		user.AvatarURL, user.AvatarRef = url, ref
	})
}

// UpdateCoverImage replaces the cover image URL and storage reference.
func (repository *MemoryUserRepository) UpdateCoverImage(_ context.Context, userID, url, ref string) (*User, error) {
	return repository.mutateAndGet(userID, func(user *User) {
		user.CoverImageURL, user.CoverImageRef = url, ref
	})
}

// # Helpers

// lookup must be called with the lock held. excludeID skips one account.
func (repository *MemoryUserRepository) lookup(username, email, excludeID string) *User {
	for _, user := range repository.users {
		if user.ID == excludeID {
			continue
		}
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return user
		}
	}
	return nil
}

func (repository *MemoryUserRepository) mutate(userID string, apply func(*User) error) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound(resourceUser)
	}
	return apply(user)
}

func (repository *MemoryUserRepository) mutateAndGet(userID string, apply func(*User)) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[userID]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	apply(user)
	user.UpdatedAt = time.Now().UTC()

	clone := *user
	return &clone, nil
}

// # Login Attempts

type attemptWindow struct {
	count     int
	expiresAt time.Time
}

// MemoryLoginAttemptRepository is an in-process [LoginAttemptRepository] for tests and local development.
type MemoryLoginAttemptRepository struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
	now     func() time.Time
}

// NewMemoryLoginAttemptRepository creates an empty in-memory counter store.
func NewMemoryLoginAttemptRepository() *MemoryLoginAttemptRepository {
	return &MemoryLoginAttemptRepository{windows: make(map[string]*attemptWindow), now: time.Now}
}

func (repository *MemoryLoginAttemptRepository) Failures(_ context.Context, identifier string) (int, time.Duration, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	window := repository.active(identifier)
	if window == nil {
		return 0, 0, nil
	}
	return window.count, window.expiresAt.Sub(repository.now()), nil
}

func (repository *MemoryLoginAttemptRepository) RecordFailure(_ context.Context, identifier string, ttl time.Duration) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	window := repository.active(identifier)
	if window == nil {
		window = &attemptWindow{expiresAt: repository.now().Add(ttl)}
		repository.windows[identifier] = window
	}
	window.count++
	return window.count, nil
}

func (repository *MemoryLoginAttemptRepository) Reset(_ context.Context, identifier string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.windows, identifier)
	return nil
}

// active must be called with the lock held.
func (repository *MemoryLoginAttemptRepository) active(identifier string) *attemptWindow {
	window, ok := repository.windows[identifier]
	if !ok {
		return nil
	}
	if !repository.now().Before(window.expiresAt) {
		delete(repository.windows, identifier)
		return nil
	}
	return window
}
