// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/database/schema"
	"github.com/taibuivan/yomira-id/internal/platform/dberr"
	"github.com/taibuivan/yomira-id/internal/platform/postgres"
)

// resourceUser is the resource name used in NotFound/Conflict messages.
const resourceUser = "User"

// userSelectColumns lists the account columns in scan order. The nullable
// digest is read through COALESCE so it scans into a plain string.
var userSelectColumns = selectList(schema.UserAccount.Columns())

func selectList(columns []string) string {
	list := make([]string, len(columns))
	for i, column := range columns {
		if column == schema.UserAccount.RefreshTokenHash {
			column = "COALESCE(" + column + ", '')"
		}
		list[i] = column
	}
	return strings.Join(list, ", ")
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// ScanUser hydrates a [User] from a row selected with the account column list.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.AvatarRef,
		&user.CoverImageURL,
		&user.CoverImageRef,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SelectUserColumns returns the column list understood by [ScanUser].
func SelectUserColumns() string {
	return userSelectColumns
}

/*
FindByID retrieves an account by primary key.

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userSelectColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := ScanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_find_by_id_failed")
	}
	return user, nil
}

/*
FindByUsernameOrEmail retrieves the account matching either identifier.

Both values must already be normalized. An empty argument is bound as
NULL so that it can never match.
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(context context.Context, username, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = NULLIF($1, '') OR %s = NULLIF($2, '')
		ORDER BY %s
		LIMIT 1`,
		userSelectColumns, schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.CreatedAt,
	)

	user, err := ScanUser(repository.db.QueryRow(context, query, username, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_find_by_identity_failed")
	}
	return user, nil
}

/*
Create inserts a new account.

The UNIQUE constraints on username and email are the source of truth for
uniqueness; a violation is reported as apperr.Conflict.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FullName, schema.UserAccount.Password,
		schema.UserAccount.AvatarURL, schema.UserAccount.AvatarRef,
		schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImageRef,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.AvatarRef,
		user.CoverImageURL,
		user.CoverImageRef,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return conflictFor(dberr.ConstraintName(err)).WithCause(err)
		}
		return dberr.Wrap(err, resourceUser, "postgres_user_repo_create_failed")
	}

	return nil
}

/*
UpdatePassword replaces the password hash and revokes the stored refresh token.
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NULL, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.RefreshTokenHash, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	return repository.execOne(context, query, "postgres_user_repo_update_password_failed", userID, newHash)
}

/*
SetRefreshTokenHash stores digest unconditionally ("" stores NULL).
*/
func (repository *PostgresUserRepository) SetRefreshTokenHash(context context.Context, userID, digest string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULLIF($2, '') WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshTokenHash, schema.UserAccount.ID)

	return repository.execOne(context, query, "postgres_user_repo_set_refresh_failed", userID, digest)
}

/*
SwapRefreshTokenHash performs the compare-and-set used by token rotation.

The WHERE clause carries the expected digest, so of two concurrent refreshes
presenting the same token exactly one row update succeeds.
*/
func (repository *PostgresUserRepository) SwapRefreshTokenHash(context context.Context, userID, expected, next string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshTokenHash,
		schema.UserAccount.ID, schema.UserAccount.RefreshTokenHash,
	)

	tag, err := repository.db.Exec(context, query, userID, expected, next)
	if err != nil {
		return false, dberr.Wrap(err, resourceUser, "postgres_user_repo_swap_refresh_failed")
	}
	return tag.RowsAffected() == 1, nil
}

// execOne runs an UPDATE that must touch exactly one account row.
func (repository *PostgresUserRepository) execOne(context context.Context, query, action string, args ...any) error {
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, resourceUser, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}
	return nil
}

// conflictFor turns a violated constraint into a client-safe message.
func conflictFor(constraint string) *apperr.AppError {
	switch constraint {
	case "account_username_key":
		return apperr.Conflict("Username is already taken")
	case "account_email_key":
		return apperr.Conflict("Email is already registered")
	default:
		return apperr.Conflict(msgUserExists)
	}
}
