//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-api/internal/testutil"
)

func TestAdminListBookings_StatusFilter(t *testing.T) {
	client := newTestClient(t)

	studentID := registerUser(t, randomEmail("bk-student"), "password123", "STUDENT")
	tutorUserID := registerUser(t, randomEmail("bk-tutor"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)
	confirmedID := createBooking(t, studentID, profileID, "CONFIRMED", 30)
	createBooking(t, studentID, profileID, "COMPLETED", 45)

	client.LoginAsAdmin(t)

	resp, err := client.GET("/api/admin/bookings?status=CONFIRMED&studentId=" + studentID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body envelope
	testutil.DecodeJSON(t, resp, &body)

	var bookings []struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Student struct {
			ID string `json:"id"`
		} `json:"student"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, confirmedID, bookings[0].ID)
	assert.Equal(t, studentID, bookings[0].Student.ID)
}

func TestAdminCancelBooking(t *testing.T) {
	client := newTestClient(t)

	studentID := registerUser(t, randomEmail("cancel-student"), "password123", "STUDENT")
	tutorUserID := registerUser(t, randomEmail("cancel-tutor"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)
	bookingID := createBooking(t, studentID, profileID, "CONFIRMED", 60)

	client.LoginAsAdmin(t)

	resp, err := client.PATCH("/api/admin/bookings/"+bookingID+"/cancel",
		map[string]string{"reason": "tutor reported unavailable"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body envelope
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "Booking cancelled by admin", body.Message)

	var booking struct {
		Status       string  `json:"status"`
		CancelReason *string `json:"cancelReason"`
		CancelledBy  *string `json:"cancelledBy"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &booking))
	assert.Equal(t, "CANCELLED", booking.Status)
	require.NotNil(t, booking.CancelReason)
	assert.Equal(t, "tutor reported unavailable", *booking.CancelReason)
	assert.NotNil(t, booking.CancelledBy)
}

func TestAdminCancelBooking_TerminalStatesRejected(t *testing.T) {
	client := newTestClientWithoutValidation()

	studentID := registerUser(t, randomEmail("term-student"), "password123", "STUDENT")
	tutorUserID := registerUser(t, randomEmail("term-tutor"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)
	completedID := createBooking(t, studentID, profileID, "COMPLETED", 45)
	cancelledID := createBooking(t, studentID, profileID, "CANCELLED", 45)

	client.LoginAsAdmin(t)

	for _, id := range []string{completedID, cancelledID} {
		resp, err := client.PATCH("/api/admin/bookings/"+id+"/cancel", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestAdminCancelBooking_NotFound(t *testing.T) {
	client := newTestClientWithoutValidation()
	client.LoginAsAdmin(t)

	resp, err := client.PATCH("/api/admin/bookings/00000000-0000-0000-0000-000000000000/cancel", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminDashboard(t *testing.T) {
	client := newTestClient(t)

	studentID := registerUser(t, randomEmail("dash-student"), "password123", "STUDENT")
	tutorUserID := registerUser(t, randomEmail("dash-tutor"), "password123", "TUTOR")
	profileID := createTutorProfile(t, tutorUserID)
	createBooking(t, studentID, profileID, "COMPLETED", 100)

	client.LoginAsAdmin(t)

	resp, err := client.GET("/api/admin/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body envelope
	testutil.DecodeJSON(t, resp, &body)

	var stats struct {
		Users struct {
			Total    int `json:"total"`
			Students int `json:"students"`
			Tutors   int `json:"tutors"`
		} `json:"users"`
		Bookings struct {
			Total     int `json:"total"`
			Completed int `json:"completed"`
		} `json:"bookings"`
		Revenue        float64 `json:"revenue"`
		RecentActivity struct {
			NewUsers    int `json:"newUsers"`
			NewBookings int `json:"newBookings"`
		} `json:"recentActivity"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))

	assert.GreaterOrEqual(t, stats.Users.Total, 5)
	assert.GreaterOrEqual(t, stats.Users.Students, 2)
	assert.GreaterOrEqual(t, stats.Users.Tutors, 2)
	assert.GreaterOrEqual(t, stats.Bookings.Total, 1)
	assert.GreaterOrEqual(t, stats.Bookings.Completed, 1)
	assert.GreaterOrEqual(t, stats.Revenue, 100.0)
	assert.GreaterOrEqual(t, stats.RecentActivity.NewUsers, 1)
	assert.GreaterOrEqual(t, stats.RecentActivity.NewBookings, 1)
}
