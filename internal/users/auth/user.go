// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential and session lifecycle.

It owns the account record (credentials, profile fields, current refresh
token digest) and the operations that move a client between the
Anonymous, Authenticated and Revoked states: Register, Login, Refresh,
Logout and ChangePassword.

# Architecture

  - Entity: [User], the single account record.
  - Repository: [UserRepository] (PostgreSQL, in-memory) and [LoginAttemptRepository] (Redis, in-memory).
  - Service: [Service], the session lifecycle controller.
  - Handler: [Handler], cookies and JSON over chi.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered account.
//
// PasswordHash and RefreshTokenHash never leave the process: they are
// excluded from JSON and zeroed by [User.Sanitized].
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"userName"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	AvatarURL        string    `json:"avatar"`
	AvatarRef        string    `json:"-"`
	CoverImageURL    string    `json:"coverImage"`
	CoverImageRef    string    `json:"-"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Sanitized returns a copy without credential material.
func (user *User) Sanitized() *User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	clean.RefreshTokenHash = ""
	return &clean
}

// Session is the result of a successful Login or Refresh.
type Session struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// # Field Identifiers

// JSON and form field names of the authentication endpoints.
const (
	FieldUserName        = "userName"
	FieldEmail           = "email"
	FieldFullName        = "fullName"
	FieldPassword        = "password"
	FieldAvatar          = "avatar"
	FieldCoverImage      = "coverImage"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confPassword"
	FieldAccessToken     = "accessToken"
	FieldRefreshToken    = "refreshToken"
	FieldUser            = "user"
)
