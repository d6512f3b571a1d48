// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/database/schema"
	"github.com/taibuivan/yomira-id/internal/platform/dberr"
	"github.com/taibuivan/yomira-id/internal/platform/postgres"
)

// PostgresChannelRepository implements [Repository] using pgx.
type PostgresChannelRepository struct {
	db postgres.Querier
}

// NewChannelRepository creates a new PostgreSQL implementation of the Repository.
func NewChannelRepository(db postgres.Querier) *PostgresChannelRepository {
	return &PostgresChannelRepository{db: db}
}

/*
Profile aggregates a channel in a single statement.

Description: Both counts and the viewer flag are correlated subqueries on
the same row, so they are evaluated against one snapshot. An empty viewer
is bound as NULL and never matches.
*/
func (repository *PostgresChannelRepository) Profile(context context.Context, userName, viewerID string) (*Profile, error) {
	account := schema.UserAccount
	edge := schema.UserSubscription

	query := fmt.Sprintf(`
		SELECT
			a.%[3]s, a.%[4]s, a.%[5]s, a.%[6]s, a.%[7]s,
			(SELECT COUNT(*) FROM %[2]s s WHERE s.%[9]s = a.%[8]s),
			(SELECT COUNT(*) FROM %[2]s s WHERE s.%[10]s = a.%[8]s),
			EXISTS (
				SELECT 1 FROM %[2]s s
				WHERE s.%[9]s = a.%[8]s AND s.%[10]s = NULLIF($2, '')::uuid
			)
		FROM %[1]s a
		WHERE a.%[4]s = $1`,
		account.Table, edge.Table,
		account.FullName, account.Username, account.AvatarURL, account.CoverImageURL, account.Email,
		account.ID, edge.ChannelID, edge.SubscriberID,
	)

	profile := &Profile{}
	err := repository.db.QueryRow(context, query, userName, viewerID).Scan(
		&profile.FullName,
		&profile.UserName,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.Email,
		&profile.SubscribersCount,
		&profile.SubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceChannel, "postgres_channel_repo_profile_failed")
	}
	return profile, nil
}

// ResolveID returns the account id of the channel named userName.
func (repository *PostgresChannelRepository) ResolveID(context context.Context, userName string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Table, schema.UserAccount.Username)

	var id string
	if err := repository.db.QueryRow(context, query, userName).Scan(&id); err != nil {
		return "", dberr.Wrap(err, resourceChannel, "postgres_channel_repo_resolve_failed")
	}
	return id, nil
}

/*
Subscribe inserts a subscription edge.

Description: Uses 'ON CONFLICT DO NOTHING' so that repeated subscriptions
leave exactly one edge. A foreign key violation means one of the accounts
was deleted after it was resolved.
*/
func (repository *PostgresChannelRepository) Subscribe(context context.Context, subscriberID, channelID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID, schema.UserSubscription.ChannelID)

	if _, err := repository.db.Exec(context, query, subscriberID, channelID); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			if dberr.ConstraintName(err) == schema.UserSubscription.SubscriberForeignKey {
				return fmt.Errorf("%w: %w", ErrSubscriberNotFound, err)
			}
			return apperr.NotFound(resourceChannel)
		}
		return dberr.Wrap(err, resourceChannel, "postgres_channel_repo_subscribe_failed")
	}
	return nil
}

// Unsubscribe deletes the subscription edge if present.
func (repository *PostgresChannelRepository) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserSubscription.Table, schema.UserSubscription.SubscriberID, schema.UserSubscription.ChannelID)

	if _, err := repository.db.Exec(context, query, subscriberID, channelID); err != nil {
		return dberr.Wrap(err, resourceChannel, "postgres_channel_repo_unsubscribe_failed")
	}
	return nil
}
