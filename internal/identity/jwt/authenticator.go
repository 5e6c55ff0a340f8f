// Package jwt implements the identity.Authenticator using HS256 JWT access
// tokens and opaque, store-backed refresh tokens.
package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skillbridge/skillbridge-api/internal/domain"
	"github.com/skillbridge/skillbridge-api/internal/identity"
)

// Config contains authenticator settings.
type Config struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
}

// Authenticator issues and validates session tokens.
type Authenticator struct {
	config Config
	store  TokenStore
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(config Config, store TokenStore) *Authenticator {
	return &Authenticator{config: config, store: store}
}

type accessClaims struct {
	jwt.RegisteredClaims
}

// GenerateTokens issues an access/refresh token pair for the user.
func (a *Authenticator) GenerateTokens(ctx context.Context, user *domain.User) (*identity.TokenPair, error) {
	accessToken, err := a.signAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := a.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &identity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateAccessToken parses and validates an access token, returning the
// subject user ID.
func (a *Authenticator) ValidateAccessToken(_ context.Context, token string) (string, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.config.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return "", identity.ErrInvalidToken
	}
	return claims.Subject, nil
}

// RefreshTokens rotates the refresh token and issues a new pair.
func (a *Authenticator) RefreshTokens(ctx context.Context, refreshToken string) (*identity.TokenPair, error) {
	stored, err := a.store.GetRefreshToken(ctx, hashToken(refreshToken))
	if err != nil || stored == nil {
		return nil, identity.ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = a.store.DeleteRefreshToken(ctx, stored.TokenHash)
		return nil, identity.ErrInvalidToken
	}

	// Rotation: the presented token is single-use.
	if err := a.store.DeleteRefreshToken(ctx, stored.TokenHash); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, err := a.signAccessToken(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	newRefresh, err := a.issueRefreshToken(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &identity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// RevokeRefreshToken deletes the refresh token from the store.
func (a *Authenticator) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return a.store.DeleteRefreshToken(ctx, hashToken(refreshToken))
}

func (a *Authenticator) signAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := &accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.AccessTokenDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.config.SecretKey))
}

func (a *Authenticator) issueRefreshToken(ctx context.Context, userID string) (string, error) {
	raw := uuid.NewString() + uuid.NewString()

	record := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(a.config.RefreshTokenDuration),
	}
	if err := a.store.SaveRefreshToken(ctx, record); err != nil {
		return "", err
	}
	return raw, nil
}

// hashToken returns the hex SHA-256 of a token. Only hashes are persisted.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
