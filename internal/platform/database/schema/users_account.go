// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the users schema.
//
// Repositories build their SQL from these definitions so that a column
// rename touches one file.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Username         string
	Email            string
	FullName         string
	Password         string
	AvatarURL        string
	AvatarRef        string
	CoverImageURL    string
	CoverImageRef    string
	RefreshTokenHash string
	CreatedAt        string
	UpdatedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	FullName:         "fullname",
	Password:         "passwordhash",
	AvatarURL:        "avatarurl",
	AvatarRef:        "avatarref",
	CoverImageURL:    "coverimageurl",
	CoverImageRef:    "coverimageref",
	RefreshTokenHash: "refreshtokenhash",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// Columns returns every column in the order used by user scans.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Password,
		t.AvatarURL, t.AvatarRef, t.CoverImageURL, t.CoverImageRef,
		t.RefreshTokenHash, t.CreatedAt, t.UpdatedAt,
	}
}
