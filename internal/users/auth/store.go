// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the credential store contract.
//
// Implementations must report a missing row as apperr.NotFound and a
// duplicate username or email as apperr.Conflict.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsernameOrEmail returns the account whose username equals username
		or whose email equals email. Empty arguments never match.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsernameOrEmail(context context.Context, username, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict on a duplicate username/email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces the password hash and clears the stored
		refresh token digest in the same write.
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SetRefreshTokenHash unconditionally stores digest ("" clears it).
		Used by Login (last writer wins) and Logout.
	*/
	SetRefreshTokenHash(context context.Context, userID, digest string) error

	/*
		SwapRefreshTokenHash replaces expected with next only if the stored
		digest still equals expected.

		Returns:
		  - bool: false if another writer rotated or revoked the token first
		  - error: persistence failures
	*/
	SwapRefreshTokenHash(context context.Context, userID, expected, next string) (bool, error)
}

// # Volatile Data Access

// LoginAttemptRepository counts failed logins per identifier within a window.
type LoginAttemptRepository interface {

	/*
		Failures returns the current failure count and the time left in the window.
	*/
	Failures(context context.Context, identifier string) (int, time.Duration, error)

	/*
		RecordFailure increments the counter, starting a new window if none is open.
	*/
	RecordFailure(context context.Context, identifier string, window time.Duration) (int, error)

	/*
		Reset clears the counter after a successful login.
	*/
	Reset(context context.Context, identifier string) error
}
