//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jobdesk/jobdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobDescription_RequiresAuth(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/jobdescriptions")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestJobDescription_CRUD(t *testing.T) {
	client := newTestClient(t)
	loginFreshUser(t, client)

	role := testutil.RandomName("python-developer")
	resp, err := client.POST("/api/v1/jobdescriptions", map[string]string{
		"role":             role,
		"description_text": "Build and maintain backend services.",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID              int64     `json:"id"`
			Role            string    `json:"role"`
			DescriptionText string    `json:"description_text"`
			PubDate         time.Time `json:"pub_date"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, role, created.Data.Role)
	assert.Equal(t, "Build and maintain backend services.", created.Data.DescriptionText)
	assert.False(t, created.Data.PubDate.IsZero(), "pub_date defaults to creation time")
	id := created.Data.ID

	resp, err = client.GET(fmt.Sprintf("/api/v1/jobdescriptions/%d", id))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Data struct {
			Role            string `json:"role"`
			DescriptionText string `json:"description_text"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &detail)
	assert.Equal(t, role, detail.Data.Role)

	resp, err = client.PUT(fmt.Sprintf("/api/v1/jobdescriptions/%d", id), map[string]string{
		"role":             role + "-senior",
		"description_text": "Lead backend development.",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Data struct {
			Role string `json:"role"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, role+"-senior", updated.Data.Role)

	resp, err = client.DELETE(fmt.Sprintf("/api/v1/jobdescriptions/%d", id))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.GET(fmt.Sprintf("/api/v1/jobdescriptions/%d", id))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestJobDescription_ExplicitPubDate(t *testing.T) {
	client := newTestClient(t)
	loginFreshUser(t, client)

	pubDate := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	resp, err := client.POST("/api/v1/jobdescriptions", map[string]interface{}{
		"role":     testutil.RandomName("role"),
		"pub_date": pubDate,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			PubDate time.Time `json:"pub_date"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.True(t, created.Data.PubDate.Equal(pubDate))
}

func TestJobDescription_ListProjection(t *testing.T) {
	client := newTestClient(t)
	loginFreshUser(t, client)

	createTestDescription(t, client, testutil.RandomName("role"))

	resp, err := client.GET("/api/v1/jobdescriptions")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []map[string]interface{} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data)

	// List view exposes only id and role
	for _, item := range result.Data {
		assert.Contains(t, item, "id")
		assert.Contains(t, item, "role")
		assert.NotContains(t, item, "description_text")
		assert.NotContains(t, item, "pub_date")
	}
}

func TestJobDescription_DeleteReferenced_Conflicts(t *testing.T) {
	client := newTestClient(t)
	loginFreshUser(t, client)

	portalID := createTestPortal(t, client, testutil.RandomName("portal"))
	descID := createTestDescription(t, client, testutil.RandomName("role"))
	createTestJobTitle(t, client, "Data engineer", portalID, descID)

	resp, err := client.DELETE(fmt.Sprintf("/api/v1/jobdescriptions/%d", descID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}
