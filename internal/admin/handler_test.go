package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-api/internal/domain"
	"github.com/skillbridge/skillbridge-api/internal/pkg/httputil"
)

func newTestRouter(repo Repository) chi.Router {
	handler := NewHandler(NewService(repo))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetDashboard_ReturnsEnvelope(t *testing.T) {
	repo := newMockRepository()
	repo.revenue = 99.5
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 99.5, data["revenue"])
}

func TestListUsers_ParsesFilters(t *testing.T) {
	repo := newMockRepository()
	repo.usersTotal = 1
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/users?page=2&limit=5&role=TUTOR&isBanned=false&search=alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, repo.userFilter.Page)
	assert.Equal(t, 5, repo.userFilter.Limit)
	require.NotNil(t, repo.userFilter.Role)
	assert.Equal(t, domain.RoleTutor, *repo.userFilter.Role)
	require.NotNil(t, repo.userFilter.IsBanned)
	assert.False(t, *repo.userFilter.IsBanned)
	require.NotNil(t, repo.userFilter.Search)
	assert.Equal(t, "alice", *repo.userFilter.Search)

	body := decodeBody(t, rec)
	assert.NotNil(t, body["pagination"])
}

func TestListUsers_InvalidRoleRejected(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/users?role=WIZARD", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestToggleUserBan_MissingIsBannedRejected(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodPatch, "/users/user-1/ban",
		strings.NewReader(`{"banReason": "spam"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleUserBan_BanMessage(t *testing.T) {
	repo := newMockRepository()
	repo.banResult = &domain.PublicUser{ID: "user-1", IsBanned: true}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/users/user-1/ban",
		strings.NewReader(`{"isBanned": true, "banReason": "spam"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User banned successfully", body["message"])
	assert.Equal(t, "user-1", repo.banUserID)
}

func TestListBookings_StatusAllDisablesFilter(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/bookings?status=ALL", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, repo.bookingFilter.Status)
}

func TestListBookings_InvalidDateRejected(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/bookings?startDate=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBooking_UsesCallerIdentity(t *testing.T) {
	repo := newMockRepository()
	repo.cancelResult = &domain.BookingDetails{
		Booking: domain.Booking{ID: "booking-1", Status: domain.BookingStatusCancelled},
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/booking-1/cancel",
		strings.NewReader(`{"reason": "fraud"}`))
	ctx := httputil.WithIdentity(context.Background(), domain.Identity{ID: "admin-1", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", repo.cancelledBy)
	body := decodeBody(t, rec)
	assert.Equal(t, "Booking cancelled by admin", body["message"])
}

func TestCancelBooking_NoIdentityUnauthorized(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodPatch, "/bookings/booking-1/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCategory_Created(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/categories",
		strings.NewReader(`{"name": "Mathematics"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Category created successfully", body["message"])
}

func TestCreateCategory_MissingNameRejected(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategory_InUseRejected(t *testing.T) {
	repo := newMockRepository()
	repo.categoryErr = ErrCategoryInUse
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/categories/cat-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFeaturedTutor_Message(t *testing.T) {
	repo := newMockRepository()
	repo.toggleResult = &domain.FeaturedTutor{
		TutorProfile: domain.TutorProfile{ID: "tutor-1", IsFeatured: true},
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/tutors/tutor-1/featured", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Tutor featured successfully", body["message"])
	assert.Equal(t, "tutor-1", repo.toggleID)
}

func TestListFeaturedTutors_Count(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/featured-tutors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["count"])
}
