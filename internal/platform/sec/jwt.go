// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth.TokenProvider interface.
//
// # Token Kinds
//
// Access and refresh tokens are signed with different secrets and carry a
// "typ" claim. A token of one kind never verifies as the other kind, so a
// leaked access token cannot be replayed against the refresh endpoint.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature, expiry, algorithm or kind checks.
var ErrInvalidToken = errors.New("sec: invalid token")

// TokenKind distinguishes the two token families issued by [TokenService].
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// AuthClaims represents the payload embedded inside both token kinds.
//
// Custom claims are abbreviated to keep the JWT payload small; the user id is
// also mirrored in the registered "sub" claim.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string    `json:"uid"`
	Kind   TokenKind `json:"typ"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenSettings is the signing secret and lifetime of one token kind.
type TokenSettings struct {
	Secret     string
	TimeToLive time.Duration
}

// TokenService handles generation and verification of HS256 JWT tokens.
type TokenService struct {
	access  TokenSettings
	refresh TokenSettings
	issuer  string
	now     func() time.Time
}

// NewTokenService creates a new TokenService.
//
// It fails when either secret is empty, when both kinds share a secret, or
// when a lifetime is not positive.
func NewTokenService(access, refresh TokenSettings, issuer string) (*TokenService, error) {
	if access.Secret == "" || refresh.Secret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if access.Secret == refresh.Secret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}
	if access.TimeToLive <= 0 || refresh.TimeToLive <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		access:  access,
		refresh: refresh,
		issuer:  issuer,
		now:     time.Now,
	}, nil
}

// # Issuance

// IssueAccessToken creates a short-lived access token asserting userID.
func (service *TokenService) IssueAccessToken(userID string) (string, error) {
	return service.issue(userID, KindAccess)
}

// IssueRefreshToken creates a long-lived refresh token asserting userID.
func (service *TokenService) IssueRefreshToken(userID string) (string, error) {
	return service.issue(userID, KindRefresh)
}

// IssuePair creates a fresh access/refresh pair. Nothing is returned unless both succeed.
func (service *TokenService) IssuePair(userID string) (TokenPair, error) {
	accessToken, err := service.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := service.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (service *TokenService) AccessTokenTTL() time.Duration { return service.access.TimeToLive }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (service *TokenService) RefreshTokenTTL() time.Duration { return service.refresh.TimeToLive }

func (service *TokenService) issue(userID string, kind TokenKind) (string, error) {
	if userID == "" {
		return "", errors.New("sec: cannot issue token without subject")
	}

	settings := service.settingsFor(kind)
	currentTime := service.now()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(settings.TimeToLive)),
		},
		UserID: userID,
		Kind:   kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(settings.Secret))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, nil
}

// # Verification

// Verify checks the signature (with the secret of kind), expiry and kind of a token.
//
// Every failure is reported as [ErrInvalidToken] wrapping the parser error.
func (service *TokenService) Verify(tokenString string, kind TokenKind) (*AuthClaims, error) {
	settings := service.settingsFor(kind)

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(settings.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyToken verifies an access token. It satisfies middleware.TokenVerifier.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	return service.Verify(tokenString, KindAccess)
}

func (service *TokenService) settingsFor(kind TokenKind) TokenSettings {
	if kind == KindRefresh {
		return service.refresh
	}
	return service.access
}
