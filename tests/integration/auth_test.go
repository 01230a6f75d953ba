//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/jobdesk/jobdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_Register_Login_Flow(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()
	password := "password123"

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Test User",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResult struct {
		Data struct {
			ID          int64  `json:"id"`
			Email       string `json:"email"`
			Name        string `json:"name"`
			IsActive    bool   `json:"is_active"`
			IsStaff     bool   `json:"is_staff"`
			IsSuperuser bool   `json:"is_superuser"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &registerResult)
	assert.Equal(t, email, registerResult.Data.Email)
	assert.Equal(t, "Test User", registerResult.Data.Name)
	assert.True(t, registerResult.Data.IsActive)
	assert.False(t, registerResult.Data.IsStaff)
	assert.False(t, registerResult.Data.IsSuperuser)
	assert.NotZero(t, registerResult.Data.ID)

	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResult struct {
		Data struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &loginResult)
	assert.Equal(t, email, loginResult.Data.User.Email)
	assert.NotEmpty(t, loginResult.Data.AccessToken)
	assert.NotEmpty(t, loginResult.Data.RefreshToken)

	// The access token authenticates subsequent requests
	authed := client.WithToken(loginResult.Data.AccessToken)
	resp, err = authed.GET("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var meResult struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &meResult)
	assert.Equal(t, email, meResult.Data.Email)
}

func TestAuth_Register_NormalizesEmailDomain(t *testing.T) {
	client := newTestClient(t)
	local := "Mixed.Case-" + testutil.RandomName("u")

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    local + "@EXAMPLE.COM",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	// Domain is lowercased, local part is kept as given
	assert.Equal(t, local+"@example.com", result.Data.Email)

	// Login works with any domain casing
	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    local + "@Example.Com",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Register_PasswordTooShort(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    testutil.RandomEmail(),
		"password": "pw1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Register_WithoutPassword_CannotLogin(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	// Registration without a password succeeds
	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email": email,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// But the account has no usable password
	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "anything",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "password456",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Register_DuplicateAfterNormalization(t *testing.T) {
	client := newTestClient(t)
	local := "dup-" + testutil.RandomName("u")

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    local + "@example.com",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Same address with a differently cased domain collides
	resp, err = client.POST("/api/v1/auth/register", map[string]string{
		"email":    local + "@EXAMPLE.COM",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/v1/auth/login", map[string]string{
		"email":    "nonexistent@example.com",
		"password": "wrongpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	client := newTestClient(t)
	email := registerUser(t, client, "password123")

	resp, err := client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password456",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Refresh_RotatesTokens(t *testing.T) {
	client := newTestClient(t)
	email := registerUser(t, client, "password123")

	resp, err := client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResult struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &loginResult)
	oldToken := loginResult.Data.RefreshToken

	resp, err = client.POST("/api/v1/auth/refresh", map[string]string{
		"refresh_token": oldToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshResult struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &refreshResult)
	assert.NotEmpty(t, refreshResult.Data.AccessToken)
	assert.NotEqual(t, oldToken, refreshResult.Data.RefreshToken)

	// The rotated-out token no longer works
	resp, err = client.POST("/api/v1/auth/refresh", map[string]string{
		"refresh_token": oldToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Logout_IsIdempotent(t *testing.T) {
	client := newTestClient(t)
	email := registerUser(t, client, "password123")
	client.LoginAs(t, email, "password123")

	resp, err := client.POST("/api/v1/auth/logout", map[string]string{
		"refresh_token": "00000000-0000-0000-0000-000000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// Revoking again is still a 204
	resp, err = client.POST("/api/v1/auth/logout", map[string]string{
		"refresh_token": "00000000-0000-0000-0000-000000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Me_RequiresAuth(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_Me_RejectsGarbageToken(t *testing.T) {
	client := newTestClient(t).WithToken("not-a-jwt")

	resp, err := client.GET("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_UpdateMe(t *testing.T) {
	client := newTestClient(t)
	email := registerUser(t, client, "password123")
	client.LoginAs(t, email, "password123")

	resp, err := client.PATCH("/api/v1/me", map[string]string{
		"name":     "Renamed User",
		"password": "newpassword456",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, "Renamed User", updated.Data.Name)

	// Old password no longer works, new one does
	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	client.LoginAs(t, email, "newpassword456")
}

func TestAdmin_ListUsers_RequiresStaff(t *testing.T) {
	client := newTestClient(t)
	loginFreshUser(t, client)

	resp, err := client.GET("/api/v1/admin/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdmin_ListUsers_AsStaff(t *testing.T) {
	client := newTestClient(t)
	client.LoginAs(t, adminEmail, adminPassword)

	// Make sure at least one regular user exists
	registerUser(t, client, "password123")

	resp, err := client.GET("/api/v1/admin/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.GreaterOrEqual(t, len(result.Data), 2)

	var foundAdmin bool
	for _, u := range result.Data {
		if u.Email == adminEmail {
			foundAdmin = true
		}
	}
	assert.True(t, foundAdmin, "admin account should be listed")
}
