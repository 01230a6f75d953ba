//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/jobdesk/jobdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerUser creates a fresh user account and returns its email.
func registerUser(t *testing.T, client *testutil.Client, password string) string {
	t.Helper()

	email := testutil.RandomEmail()
	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	return email
}

// loginFreshUser registers a new user and logs the client in as them.
func loginFreshUser(t *testing.T, client *testutil.Client) string {
	t.Helper()

	const password = "password123"
	email := registerUser(t, client, password)
	client.LoginAs(t, email, password)
	return email
}

type idResult struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// createTestPortal creates a portal and returns its ID.
func createTestPortal(t *testing.T, client *testutil.Client, name string) int64 {
	t.Helper()

	resp, err := client.POST("/api/v1/portals", map[string]string{
		"name": name,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result idResult
	testutil.DecodeJSON(t, resp, &result)
	require.NotZero(t, result.Data.ID)
	return result.Data.ID
}

// createTestDescription creates a job description and returns its ID.
func createTestDescription(t *testing.T, client *testutil.Client, role string) int64 {
	t.Helper()

	resp, err := client.POST("/api/v1/jobdescriptions", map[string]string{
		"role":             role,
		"description_text": "Responsibilities and requirements for " + role,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result idResult
	testutil.DecodeJSON(t, resp, &result)
	require.NotZero(t, result.Data.ID)
	return result.Data.ID
}

// createTestJobTitle creates a job title and returns its ID.
func createTestJobTitle(t *testing.T, client *testutil.Client, title string, portalID, descriptionID int64) int64 {
	t.Helper()

	resp, err := client.POST("/api/v1/jobtitles", map[string]interface{}{
		"title":              title,
		"portal_id":          portalID,
		"job_description_id": descriptionID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result idResult
	testutil.DecodeJSON(t, resp, &result)
	require.NotZero(t, result.Data.ID)
	return result.Data.ID
}
