// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/users/auth"
)

const userColumns = `id, username, email, fullname, passwordhash, avatarurl, avatarref, ` +
	`coverimageurl, coverimageref, COALESCE\(refreshtokenhash, ''\), createdat, updatedat`

func newMockUserRepository(t *testing.T) (*auth.PostgresUserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return auth.NewUserRepository(mock), mock
}

/*
TestSelectUserColumns verifies the select list follows the scan order.
*/
func TestSelectUserColumns(t *testing.T) {
	assert.Regexp(t, "^"+userColumns+"$", auth.SelectUserColumns())
}

/*
TestPostgresFindByUsernameOrEmail verifies empty identifiers are bound as NULL
and the row hydrates every field.
*/
func TestPostgresFindByUsernameOrEmail(t *testing.T) {
	repository, mock := newMockUserRepository(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT `+userColumns+` FROM users\.account\s+WHERE username = NULLIF\(\$1, ''\) OR email = NULLIF\(\$2, ''\)`).
		WithArgs("", "a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "username", "email", "fullname", "passwordhash", "avatarurl", "avatarref",
			"coverimageurl", "coverimageref", "refreshtokenhash", "createdat", "updatedat",
		}).AddRow("u1", "alice", "a@x.com", "Alice", "hash", "https://cdn/a.png", "avatars/a",
			"", "", "digest", createdAt, createdAt))

	user, err := repository.FindByUsernameOrEmail(context.Background(), "", "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "avatars/a", user.AvatarRef)
	assert.Equal(t, "digest", user.RefreshTokenHash)
	assert.Equal(t, createdAt, user.CreatedAt)
}

/*
TestPostgresSwapRefreshTokenHash verifies the compare-and-set reports whether it won.
*/
func TestPostgresSwapRefreshTokenHash(t *testing.T) {
	const query = `UPDATE users\.account SET refreshtokenhash = \$3 WHERE id = \$1 AND refreshtokenhash = \$2`

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"current_digest", 1, true},
		{"stale_digest", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository, mock := newMockUserRepository(t)
			mock.ExpectExec(query).
				WithArgs("u1", "old", "new").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			swapped, err := repository.SwapRefreshTokenHash(context.Background(), "u1", "old", "new")
			require.NoError(t, err)
			assert.Equal(t, tt.want, swapped)
		})
	}
}

/*
TestPostgresCreate_Conflict verifies constraint names become client-safe messages.
*/
func TestPostgresCreate_Conflict(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"account_username_key", "Username is already taken"},
		{"account_email_key", "Email is already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repository, mock := newMockUserRepository(t)

			args := make([]any, 11)
			for i := range args {
				args[i] = pgxmock.AnyArg()
			}
			mock.ExpectExec(`INSERT INTO users\.account`).
				WithArgs(args...).
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			err := repository.Create(context.Background(), &auth.User{ID: "u1", Username: "alice", Email: "a@x.com"})
			require.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
			assert.Equal(t, tt.want, apperr.As(err).Message)
		})
	}
}
