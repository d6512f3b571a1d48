// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Login Throttle

const (
	// MaxFailedLogins is the number of failed attempts per identifier allowed within one window.
	MaxFailedLogins = 5

	// LoginFailureWindow is how long failed attempts are remembered.
	LoginFailureWindow = 15 * time.Minute
)

// # Client Messages

const (
	msgUserExists          = "User with email or username already exists"
	msgAvatarRequired      = "Avatar file is required"
	msgAvatarUploadFailed  = "Failed to upload avatar"
	msgIdentifierRequired  = "Username or email is required"
	msgInvalidCredentials  = "Invalid user credentials"
	msgUnauthorized        = "Unauthorized request"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgRefreshTokenReused  = "Refresh token is expired or used"
	msgPasswordMismatch    = "New password and confirm password do not match"
	msgInvalidOldPassword  = "Invalid old password"
)
