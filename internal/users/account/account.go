// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management for the authenticated user.

It lets users read their own record, change their display details and
replace their avatar or cover image.

# Architecture

  - Entities: none of its own. The package reuses [auth.User].
  - Domain: Depends on the auth package for the User entity and on the
    media package for image storage.
  - Security: Every operation is scoped to the caller's user id.
*/
package account

import (
	"context"

	"github.com/taibuivan/yomira-id/internal/users/auth"
)

// # Repository Contracts

// Repository defines the persistence contract for profile updates.
//
// [auth.MemoryUserRepository] and [PostgresAccountRepository] both satisfy it.
type Repository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateDetails replaces the full name and email of an account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fullName: string
		  - email: string (already normalized)

		Returns:
		  - *auth.User: The updated record
		  - error: apperr.Conflict for a taken email, apperr.NotFound, storage failures
	*/
	UpdateDetails(context context.Context, userID, fullName, email string) (*auth.User, error)

	// UpdateAvatar stores a new avatar URL and storage reference.
	UpdateAvatar(context context.Context, userID, url, ref string) (*auth.User, error)

	// UpdateCoverImage stores a new cover image URL and storage reference.
	UpdateCoverImage(context context.Context, userID, url, ref string) (*auth.User, error)
}

// # Inputs

// UpdateDetailsInput carries the editable text fields of a profile.
type UpdateDetailsInput struct {
	FullName string
	Email    string
}

// imageSlot names which of the two profile images an operation replaces.
type imageSlot int

const (
	slotAvatar imageSlot = iota
	slotCoverImage
)

func (slot imageSlot) field() string {
	if slot == slotCoverImage {
		return auth.FieldCoverImage
	}
	return auth.FieldAvatar
}
