// Package jwt implements the identity.Authenticator using HS256 access
// tokens and opaque, database-backed refresh tokens.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jobdesk/jobdesk/internal/domain"
	"github.com/jobdesk/jobdesk/internal/identity"
)

// Config contains authenticator settings.
type Config struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// Authenticator issues and validates token pairs.
type Authenticator struct {
	config Config
	repo   identity.Repository
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config, repo identity.Repository) *Authenticator {
	return &Authenticator{config: cfg, repo: repo}
}

type accessClaims struct {
	Staff bool `json:"staff"`
	jwt.RegisteredClaims
}

// GenerateTokens issues an access token and persists a new refresh token.
func (a *Authenticator) GenerateTokens(ctx context.Context, user *domain.User) (*identity.TokenPair, error) {
	accessToken, err := a.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(a.config.RefreshTokenDuration),
	}
	if err := a.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &identity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
	}, nil
}

// ValidateAccessToken parses and verifies an access token.
func (a *Authenticator) ValidateAccessToken(_ context.Context, token string) (int64, bool, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.config.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return 0, false, identity.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, false, identity.ErrInvalidToken
	}

	return userID, claims.Staff, nil
}

// RefreshTokens rotates a refresh token and issues a new pair. Expired or
// unknown tokens fail with ErrInvalidToken.
func (a *Authenticator) RefreshTokens(ctx context.Context, refreshToken string) (*identity.TokenPair, error) {
	stored, err := a.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, identity.ErrInvalidToken
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	if stored.IsExpired() {
		_ = a.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, identity.ErrInvalidToken
	}

	user, err := a.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user for refresh: %w", err)
	}
	if !user.IsActive {
		return nil, identity.ErrInvalidToken
	}

	// Rotate: the presented token is single-use.
	if err := a.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("delete refresh token: %w", err)
	}

	return a.GenerateTokens(ctx, user)
}

// RevokeRefreshToken deletes a stored refresh token.
func (a *Authenticator) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return a.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (a *Authenticator) signAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Staff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.config.SecretKey))
}
