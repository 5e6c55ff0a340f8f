//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-api/internal/testutil"
)

func TestAdminFeaturedTutorToggle(t *testing.T) {
	client := newTestClient(t)

	tutorUserID := registerUser(t, randomEmail("feat-tutor"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)

	client.LoginAsAdmin(t)

	// Feature
	resp, err := client.PATCH("/api/admin/tutors/"+profileID+"/featured", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body envelope
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "Tutor featured successfully", body.Message)

	var result struct {
		IsFeatured bool   `json:"isFeatured"`
		Action     string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.True(t, result.IsFeatured)
	assert.Equal(t, "featured", result.Action)

	// Appears in the featured listing
	resp, err = client.GET("/api/admin/featured-tutors")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &body)
	require.NotNil(t, body.Count)

	var tutors []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &tutors))
	assert.Equal(t, *body.Count, len(tutors))
	found := false
	for _, tu := range tutors {
		if tu.ID == profileID {
			found = true
		}
	}
	assert.True(t, found)

	// Unfeature
	resp, err = client.PATCH("/api/admin/tutors/"+profileID+"/featured", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "Tutor unfeatured successfully", body.Message)
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.False(t, result.IsFeatured)
	assert.Equal(t, "unfeatured", result.Action)
}

func TestAdminFeaturedTutor_BannedOwnerRejected(t *testing.T) {
	client := newTestClientWithoutValidation()

	tutorUserID := registerUser(t, randomEmail("feat-banned"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)

	_, err := testDB.Exec(context.Background(),
		`UPDATE users SET is_banned = true, ban_reason = 'abuse' WHERE id = $1`, tutorUserID)
	require.NoError(t, err)

	client.LoginAsAdmin(t)

	resp, err := client.PATCH("/api/admin/tutors/"+profileID+"/featured", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAdminFeaturedTutor_BannedOwnerCannotBeUnfeatured(t *testing.T) {
	client := newTestClientWithoutValidation()

	tutorUserID := registerUser(t, randomEmail("feat-then-banned"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)

	client.LoginAsAdmin(t)

	// Feature while the owner is in good standing.
	resp, err := client.PATCH("/api/admin/tutors/"+profileID+"/featured", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	_, err = testDB.Exec(context.Background(),
		`UPDATE users SET is_banned = true, ban_reason = 'abuse' WHERE id = $1`, tutorUserID)
	require.NoError(t, err)

	// The ban freezes the flag; toggling it off is rejected too.
	resp, err = client.PATCH("/api/admin/tutors/"+profileID+"/featured", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	var stillFeatured bool
	require.NoError(t, testDB.QueryRow(context.Background(),
		`SELECT is_featured FROM tutor_profiles WHERE id = $1`, profileID).Scan(&stillFeatured))
	assert.True(t, stillFeatured)
}

func TestAdminFeaturedTutor_NotFound(t *testing.T) {
	client := newTestClientWithoutValidation()
	client.LoginAsAdmin(t)

	resp, err := client.PATCH("/api/admin/tutors/00000000-0000-0000-0000-000000000000/featured", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
