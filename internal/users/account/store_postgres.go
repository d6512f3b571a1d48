// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/database/schema"
	"github.com/taibuivan/yomira-id/internal/platform/dberr"
	"github.com/taibuivan/yomira-id/internal/platform/postgres"
	"github.com/taibuivan/yomira-id/internal/users/auth"
)

const resourceAccount = "Account"

// # Persistence Implementation

// PostgresAccountRepository implements [Repository] using pgx.
type PostgresAccountRepository struct {
	db postgres.Querier
}

// NewAccountRepository creates a new PostgreSQL implementation of the Repository.
func NewAccountRepository(db postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

/*
FindByID retrieves a user record from the users.account table.

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.SelectUserColumns(), schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceAccount, "postgres_account_repo_find_by_id_failed")
	}
	return user, nil
}

/*
UpdateDetails modifies the full name and email of a user.

Description: The email UNIQUE constraint decides conflicts; the updated
row is returned in the same statement.
*/
func (repository *PostgresAccountRepository) UpdateDetails(context context.Context, userID, fullName, email string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.FullName, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		auth.SelectUserColumns(),
	)

	user, err := auth.ScanUser(repository.db.QueryRow(context, query, userID, fullName, email))
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(msgEmailTaken).WithCause(err)
		}
		return nil, dberr.Wrap(err, resourceAccount, "postgres_account_repo_update_details_failed")
	}
	return user, nil
}

// UpdateAvatar stores a new avatar URL and storage reference.
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, userID, url, ref string) (*auth.User, error) {
	return repository.updateImage(context, userID, schema.UserAccount.AvatarURL, schema.UserAccount.AvatarRef, url, ref)
}

// UpdateCoverImage stores a new cover image URL and storage reference.
func (repository *PostgresAccountRepository) UpdateCoverImage(context context.Context, userID, url, ref string) (*auth.User, error) {
	return repository.updateImage(context, userID, schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImageRef, url, ref)
}

func (repository *PostgresAccountRepository) updateImage(context context.Context, userID, urlColumn, refColumn, url, ref string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		urlColumn, refColumn, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		auth.SelectUserColumns(),
	)

	user, err := auth.ScanUser(repository.db.QueryRow(context, query, userID, url, ref))
	if err != nil {
		return nil, dberr.Wrap(err, resourceAccount, "postgres_account_repo_update_image_failed")
	}
	return user, nil
}
