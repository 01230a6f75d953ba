package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/jobdesk/jobdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	nextID        int64
	createUserErr error
	updated       []*domain.User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*domain.User)}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) UpdateUser(_ context.Context, user *domain.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepository) SaveRefreshToken(_ context.Context, _ *domain.RefreshToken) error {
	return nil
}

func (m *mockRepository) GetRefreshToken(_ context.Context, _ string) (*domain.RefreshToken, error) {
	return nil, ErrInvalidToken
}

func (m *mockRepository) DeleteRefreshToken(_ context.Context, _ string) error {
	return nil
}

func (m *mockRepository) DeleteUserRefreshTokens(_ context.Context, _ int64) error {
	return nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct{}

func (m *mockAuthenticator) GenerateTokens(_ context.Context, _ *domain.User) (*TokenPair, error) {
	return &TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthenticator) ValidateAccessToken(_ context.Context, _ string) (int64, bool, error) {
	return 0, false, nil
}

func (m *mockAuthenticator) RefreshTokens(_ context.Context, _ string) (*TokenPair, error) {
	return &TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthenticator) RevokeRefreshToken(_ context.Context, _ string) error {
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, &mockAuthenticator{})
}

func TestRegister_Success(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
		Name:     "Test User",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsSuperuser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password@321")))
}

func TestRegister_NormalizesEmailDomain(t *testing.T) {
	samples := []struct {
		email    string
		expected string
	}{
		{"test1@EXAMPLE.COM", "test1@example.com"},
		{"Test2@example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.com", "test4@example.com"},
	}

	repo := newMockRepository()
	service := newTestService(repo)

	for _, s := range samples {
		user, err := service.Register(context.Background(), RegisterInput{
			Email:    s.email,
			Password: "randompass@321",
		})
		require.NoError(t, err)
		assert.Equal(t, s.expected, user.Email)
	}
}

func TestRegister_EmptyEmail(t *testing.T) {
	service := newTestService(newMockRepository())

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "",
		Password: "password@321",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrEmailRequired)
}

func TestRegister_ShortPassword(t *testing.T) {
	service := newTestService(newMockRepository())

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "pass",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestRegister_NoPassword(t *testing.T) {
	service := newTestService(newMockRepository())

	user, err := service.Register(context.Background(), RegisterInput{
		Email: "test@example.com",
	})

	require.NoError(t, err)
	assert.False(t, user.HasUsablePassword())
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{ID: 1, Email: "existing@example.com"}
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "existing@example.com",
		Password: "password@321",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_DuplicateDiffersOnlyInDomainCase(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{ID: 1, Email: "existing@example.com"}
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "existing@EXAMPLE.COM",
		Password: "password@321",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_CreateUserFails(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
	})

	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestCreateSuperuser(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.CreateSuperuser(context.Background(), "admin@example.com", "password@321")

	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)

	stored, ok := repo.users["admin@example.com"]
	require.True(t, ok, "superuser must be persisted")
	assert.True(t, stored.IsSuperuser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password@321")))
}

func TestCreateSuperuser_RequiresPassword(t *testing.T) {
	service := newTestService(newMockRepository())

	user, err := service.CreateSuperuser(context.Background(), "admin@example.com", "")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
		Name:     "Old Name",
	})
	require.NoError(t, err)

	newName := "New Name"
	newPassword := "newpassword@321"
	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name:     &newName,
		Password: &newPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)))
	require.Len(t, repo.updated, 1)
}

func TestUpdateProfile_ShortPassword(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
	})
	require.NoError(t, err)

	short := "pass"
	_, err = service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Password: &short})

	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	assert.Empty(t, repo.updated)
}

func TestUpdateProfile_KeepsUntouchedFields(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
		Name:     "Keep Me",
	})
	require.NoError(t, err)

	newPassword := "newpassword@321"
	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Password: &newPassword})

	require.NoError(t, err)
	assert.Equal(t, "Keep Me", updated.Name)
}

func TestLogin_Success(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
	})
	require.NoError(t, err)

	user, tokens, err := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password@321",
	})

	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "access", tokens.AccessToken)
}

func TestLogin_NormalizesEmail(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
	})
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "test@EXAMPLE.COM",
		Password: "password@321",
	})

	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password@321",
	})
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "wrongpass",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	service := newTestService(newMockRepository())

	_, _, err := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password@321",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoUsablePassword(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Email: "test@example.com",
	})
	require.NoError(t, err)

	// Even an empty presented password must not match an empty hash.
	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := newMockRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("password@321"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.users["test@example.com"] = &domain.User{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}
	service := newTestService(repo)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password@321",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
