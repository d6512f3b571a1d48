// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-id/internal/platform/media"
	"github.com/taibuivan/yomira-id/internal/platform/validate"
	"github.com/taibuivan/yomira-id/internal/users/auth"
	"github.com/taibuivan/yomira-id/pkg/handle"
)

const (
	msgEmailTaken        = "Email is already registered"
	msgImageRequired     = "Image file is missing"
	msgImageUploadFailed = "Failed to upload image"
	msgAccountGone       = "Invalid access token"
)

// # Service Layer

// Service orchestrates profile reads and updates for the current user.
type Service struct {
	accountRepository Repository
	uploader          media.Uploader
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo Repository, uploader media.Uploader) *Service {
	return &Service{
		accountRepository: accountRepo,
		uploader:          uploader,
	}
}

// # Profile Management

/*
GetCurrentUser retrieves the sanitized record of the authenticated user.

Returns:
  - *auth.User: The user without credential fields
  - error: InvalidToken when the account no longer exists
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, service.lookupError(err, "account_service_get_current_failed")
	}
	return user.Sanitized(), nil
}

/*
UpdateDetails replaces the full name and email of the current user.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateDetailsInput (both fields required)

Returns:
  - *auth.User: The updated, sanitized record
  - error: ValidationError, Conflict or storage failures
*/
func (service *Service) UpdateDetails(context context.Context, userID string, input UpdateDetailsInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(auth.FieldFullName, input.FullName).
		Required(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldFullName, input.FullName, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	validator.Email(auth.FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateDetails(context, userID, input.FullName, handle.Email(input.Email))
	if err != nil {
		return nil, service.lookupError(err, "account_service_update_details_failed")
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_details_updated", slog.String("user_id", userID))
	return user.Sanitized(), nil
}

// # Profile Images

// UpdateAvatar uploads localPath and makes it the current user's avatar.
func (service *Service) UpdateAvatar(context context.Context, userID, localPath string) (*auth.User, error) {
	return service.replaceImage(context, userID, localPath, slotAvatar)
}

// UpdateCoverImage uploads localPath and makes it the current user's cover image.
func (service *Service) UpdateCoverImage(context context.Context, userID, localPath string) (*auth.User, error) {
	return service.replaceImage(context, userID, localPath, slotCoverImage)
}

/*
replaceImage uploads a new image and swaps it in for the old one.

Description: The previous asset is deleted only after the record points at
the new one. If the record update fails the new asset is deleted instead.
Delete failures are logged and never surface to the caller.
*/
func (service *Service) replaceImage(ctx context.Context, userID, localPath string, slot imageSlot) (*auth.User, error) {
	logger := ctxutil.GetLogger(ctx)

	if localPath == "" {
		return nil, validate.RequiredError(slot.field(), msgImageRequired)
	}

	current, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, service.lookupError(err, "account_service_replace_image_lookup_failed")
	}

	asset, err := service.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, apperr.UpstreamFailure(msgImageUploadFailed, err)
	}

	var (
		updated *auth.User
		oldRef  string
	)
	switch slot {
	case slotCoverImage:
		oldRef = current.CoverImageRef
		updated, err = service.accountRepository.UpdateCoverImage(ctx, userID, asset.URL, asset.PublicID)
	default:
		oldRef = current.AvatarRef
		updated, err = service.accountRepository.UpdateAvatar(ctx, userID, asset.URL, asset.PublicID)
	}
	if err != nil {
		service.deleteAsset(ctx, asset.PublicID)
		return nil, service.lookupError(err, "account_service_replace_image_failed")
	}

	if oldRef != "" && oldRef != asset.PublicID {
		service.deleteAsset(ctx, oldRef)
	}

	logger.InfoContext(ctx, "account_image_updated",
		slog.String("user_id", userID), slog.String("field", slot.field()))
	return updated.Sanitized(), nil
}

func (service *Service) deleteAsset(ctx context.Context, publicID string) {
	if err := service.uploader.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "account_asset_delete_failed",
			slog.String("public_id", publicID), slog.Any("error", err))
	}
}

// lookupError maps a missing account to InvalidToken: the caller holds a
// token for a user that no longer exists.
func (service *Service) lookupError(err error, action string) error {
	if apperr.IsNotFound(err) {
		return apperr.InvalidToken(msgAccountGone)
	}
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}
