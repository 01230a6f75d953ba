// Package identity implements the user store and authentication.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobdesk/jobdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair holds an access token and its refresh counterpart.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticator issues and validates tokens.
type Authenticator interface {
	GenerateTokens(ctx context.Context, user *domain.User) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (userID int64, isStaff bool, err error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

// Service implements identity business logic.
type Service struct {
	repo Repository
	auth Authenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{repo: repo, auth: auth}
}

// RegisterInput holds data for creating a user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new user account. The email's domain part is
// normalized to lowercase before lookup and persistence. An empty password
// yields an account with no usable password. Duplicate emails fail with
// ErrEmailExists, surfaced either by the pre-check or by the store's
// unique index under concurrent registration.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Email, input.Password, input.Name)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// CreateSuperuser creates a staff + superuser account. Used by the
// createsuperuser command to bootstrap an administrator. Unlike Register,
// a password is mandatory here.
func (s *Service) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewSuperuser(email, password)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. All failure modes
// collapse into ErrInvalidCredentials so callers cannot probe which
// accounts exist or which are disabled.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, *TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive || !user.HasUsablePassword() {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.auth.GenerateTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	return user, tokens, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.auth.RefreshTokens(ctx, refreshToken)
}

// Logout revokes the given refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.auth.RevokeRefreshToken(ctx, refreshToken)
}

// UpdateProfileInput holds mutable profile fields. Nil means "leave as is".
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile changes the actor's display name and, optionally, their
// password. The password goes through the same length check as at
// registration.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		if len(*input.Password) < domain.MinPasswordLen {
			return nil, domain.ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// GetUserByID returns a user by id.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns all accounts. Routes using it are staff-only.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// ValidateToken implements httputil.TokenValidator.
func (s *Service) ValidateToken(ctx context.Context, token string) (int64, bool, error) {
	return s.auth.ValidateAccessToken(ctx, token)
}
