// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/taibuivan/yomira-id/internal/platform/apperr"
	"github.com/taibuivan/yomira-id/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-id/internal/platform/media"
	"github.com/taibuivan/yomira-id/internal/platform/sec"
	"github.com/taibuivan/yomira-id/internal/platform/validate"
	"github.com/taibuivan/yomira-id/pkg/handle"
	"github.com/taibuivan/yomira-id/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying session tokens.
//
// [sec.TokenService] is the production implementation.
type TokenProvider interface {
	// IssuePair creates a fresh access/refresh pair for userID.
	IssuePair(userID string) (sec.TokenPair, error)

	// Verify checks a token of the given kind and returns its claims.
	Verify(token string, kind sec.TokenKind) (*sec.AuthClaims, error)
}

// Service implements the session lifecycle use cases.
//
// # Invariant
//
// At most one refresh token per user is valid at any time: the one whose
// digest is stored on the account. Login overwrites it, Refresh rotates it
// with compare-and-set, Logout and ChangePassword clear it.
type Service struct {
	userRepository    UserRepository
	attemptRepository LoginAttemptRepository
	tokenProvider     TokenProvider
	uploader          media.Uploader
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	attemptRepo LoginAttemptRepository,
	tokenProv TokenProvider,
	uploader media.Uploader,
) *Service {
	return &Service{
		userRepository:    userRepo,
		attemptRepository: attemptRepo,
		tokenProvider:     tokenProv,
		uploader:          uploader,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
//
// Image paths point at local files spooled by the HTTP layer.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

/*
Register validates, uploads images for, and persists a new account.

Description: The existence check is only a fast path; the store's unique
constraints decide. Uploaded images are removed again if the insert fails.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity, sanitized
  - error: ValidationError, Conflict, UpstreamFailure or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	logger := ctxutil.GetLogger(context)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldEmail, input.Email).
		Required(FieldUserName, input.Username).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	validator.Email(FieldEmail, input.Email).Username(FieldUserName, input.Username)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	username := handle.Username(input.Username)
	email := handle.Email(input.Email)

	_, err := service.userRepository.FindByUsernameOrEmail(context, username, email)
	if err == nil {
		return nil, apperr.Conflict(msgUserExists)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	if input.AvatarPath == "" {
		return nil, validate.RequiredError(FieldAvatar, msgAvatarRequired)
	}

	avatar, err := service.uploader.Upload(context, input.AvatarPath)
	if err != nil {
		return nil, apperr.UpstreamFailure(msgAvatarUploadFailed, err)
	}

	// The cover image is optional; a failed upload leaves it empty.
	cover := &media.Asset{}
	if input.CoverImagePath != "" {
		uploaded, err := service.uploader.Upload(context, input.CoverImagePath)
		if err != nil {
			logger.WarnContext(context, "cover_image_upload_failed", slog.Any("error", err))
		} else {
			cover = uploaded
		}
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		service.discardAssets(context, avatar, cover)
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		FullName:      input.FullName,
		PasswordHash:  hashedPassword,
		AvatarURL:     avatar.URL,
		AvatarRef:     avatar.PublicID,
		CoverImageURL: cover.URL,
		CoverImageRef: cover.PublicID,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		service.discardAssets(context, avatar, cover)
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user.Sanitized(), nil
}

// discardAssets deletes images uploaded for a registration that did not complete.
func (service *Service) discardAssets(ctx context.Context, assets ...*media.Asset) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, asset := range assets {
		if asset == nil || asset.PublicID == "" {
			continue
		}
		if err := service.uploader.Delete(cleanupCtx, asset.PublicID); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "orphan_asset_delete_failed",
				slog.String("public_id", asset.PublicID), slog.Any("error", err))
		}
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
// Either Username or Email identifies the account.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

/*
Login validates credentials and opens a new session.

Description: The new refresh token digest replaces any previous one
unconditionally, which revokes the older token. Tokens are issued before
any write, so a signing failure leaves the previous session intact.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: sanitized user plus both tokens
  - error: ValidationError, NotFound, InvalidCredentials, RateLimited or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	username := handle.Username(input.Username)
	email := handle.Email(input.Email)

	if username == "" && email == "" {
		return nil, validate.RequiredError(FieldUserName, msgIdentifierRequired)
	}
	if input.Password == "" {
		return nil, validate.RequiredError(FieldPassword, "This field is required")
	}

	presented := throttleKeys(username, email)
	if err := service.checkThrottle(context, presented...); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByUsernameOrEmail(context, username, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.recordFailure(context, presented...)
			return nil, apperr.NotFound(resourceUser)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// The lookup matches username OR email, so failures also count against
	// the resolved account whatever identifiers were presented.
	keys := append([]string{throttleKeyAccount + user.ID}, presented...)
	if err := service.checkThrottle(context, keys[0]); err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, keys...)
		return nil, apperr.InvalidCredentials(msgInvalidCredentials)
	}

	pair, err := service.tokenProvider.IssuePair(user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	if err := service.userRepository.SetRefreshTokenHash(context, user.ID, sec.HashToken(pair.RefreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_login_persist_failed: %w", err)
	}

	service.resetThrottle(context, append(keys, throttleKeys(user.Username, user.Email)...)...)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &Session{
		User:         user.Sanitized(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// # Session Rotation

/*
Refresh exchanges a valid refresh token for a brand-new token pair.

Description: The presented token must verify as a refresh token AND match
the stored digest. The rotation is persisted with compare-and-set, so of
two concurrent refreshes with the same token only one succeeds.

Parameters:
  - context: context.Context
  - presented: string (refresh token from cookie or body)

Returns:
  - *Session: the new token pair (User is nil)
  - error: Unauthorized, InvalidToken, TokenReuse or storage errors
*/
func (service *Service) Refresh(context context.Context, presented string) (*Session, error) {
	if presented == "" {
		return nil, apperr.Unauthorized(msgUnauthorized)
	}

	claims, err := service.tokenProvider.Verify(presented, sec.KindRefresh)
	if err != nil {
		return nil, apperr.InvalidToken(msgInvalidRefreshToken).WithCause(err)
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidToken(msgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if !sec.TokenHashEqual(presented, user.RefreshTokenHash) {
		ctxutil.GetLogger(context).WarnContext(context, "refresh_token_rejected", slog.String("user_id", user.ID))
		return nil, apperr.TokenReuse(msgRefreshTokenReused)
	}

	pair, err := service.tokenProvider.IssuePair(user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	swapped, err := service.userRepository.SwapRefreshTokenHash(context, user.ID, user.RefreshTokenHash, sec.HashToken(pair.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_persist_failed: %w", err)
	}
	if !swapped {
		return nil, apperr.TokenReuse(msgRefreshTokenReused)
	}

	ctxutil.GetLogger(context).InfoContext(context, "session_refreshed", slog.String("user_id", user.ID))

	return &Session{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// # Revocation

/*
Logout clears the stored refresh token of the authenticated user.

Returns:
  - error: InvalidToken if the account no longer exists, or storage errors
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.SetRefreshTokenHash(context, userID, ""); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.InvalidToken("Invalid access token")
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// ChangePasswordInput holds the password change request of an authenticated user.
type ChangePasswordInput struct {
	UserID          string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

/*
ChangePassword verifies the old password and stores a new hash.

Description: The confirmation check runs before anything is read, so a
mismatch never touches the stored hash. A successful change also revokes
the stored refresh token.

Returns:
  - error: ValidationError, Mismatch, InvalidCredentials, InvalidToken or storage errors
*/
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		Required(FieldConfirmPassword, input.ConfirmPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	if input.NewPassword != input.ConfirmPassword {
		return apperr.Mismatch(msgPasswordMismatch)
	}

	user, err := service.userRepository.FindByID(context, input.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.InvalidToken("Invalid access token")
		}
		return fmt.Errorf("auth_service_change_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return apperr.InvalidCredentials(msgInvalidOldPassword)
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "password_changed", slog.String("user_id", user.ID))
	return nil
}

// # Login Throttle

const (
	throttleKeyAccount  = "account:"
	throttleKeyUsername = "username:"
	throttleKeyEmail    = "email:"
)

// throttleKeys returns the failure counters of the identifiers a client presented.
func throttleKeys(username, email string) []string {
	keys := make([]string, 0, 2)
	if username != "" {
		keys = append(keys, throttleKeyUsername+username)
	}
	if email != "" {
		keys = append(keys, throttleKeyEmail+email)
	}
	return keys
}

// checkThrottle rejects the attempt once any of keys reached MaxFailedLogins.
// Store failures are logged and the attempt proceeds.
func (service *Service) checkThrottle(ctx context.Context, keys ...string) error {
	if service.attemptRepository == nil {
		return nil
	}

	for _, key := range keys {
		failures, remaining, err := service.attemptRepository.Failures(ctx, key)
		if err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_store_failed", slog.Any("error", err))
			continue
		}

		if failures >= MaxFailedLogins {
			if remaining <= 0 {
				remaining = LoginFailureWindow
			}
			return apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
		}
	}
	return nil
}

func (service *Service) recordFailure(ctx context.Context, keys ...string) {
	if service.attemptRepository == nil {
		return
	}
	for _, key := range keys {
		if _, err := service.attemptRepository.RecordFailure(ctx, key, LoginFailureWindow); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_store_failed", slog.Any("error", err))
		}
	}
}

func (service *Service) resetThrottle(ctx context.Context, keys ...string) {
	if service.attemptRepository == nil {
		return
	}
	for _, key := range keys {
		if err := service.attemptRepository.Reset(ctx, key); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_store_failed", slog.Any("error", err))
		}
	}
}
