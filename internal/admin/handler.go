package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillbridge/skillbridge-api/internal/domain"
	"github.com/skillbridge/skillbridge-api/internal/pkg/httputil"
)

// errorMappings is the single error-kind to HTTP status table for the
// admin module. Business-rule rejections are 400; lookups on missing
// records are 404.
var errorMappings = []httputil.ErrorMapping{
	{Error: ErrUserNotFound, Status: http.StatusNotFound},
	{Error: ErrBookingNotFound, Status: http.StatusNotFound},
	{Error: ErrCategoryNotFound, Status: http.StatusNotFound},
	{Error: ErrTutorNotFound, Status: http.StatusNotFound},

	{Error: ErrCannotBanAdmin, Status: http.StatusBadRequest},
	{Error: ErrBanReasonRequired, Status: http.StatusBadRequest},
	{Error: ErrBookingAlreadyCancelled, Status: http.StatusBadRequest},
	{Error: ErrBookingCompleted, Status: http.StatusBadRequest},
	{Error: ErrCategoryNameExists, Status: http.StatusBadRequest},
	{Error: ErrCategoryInUse, Status: http.StatusBadRequest},
	{Error: ErrTutorBanned, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the admin module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers admin routes. The caller mounts them behind
// the ADMIN role gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)

	r.Get("/users", h.ListUsers)
	r.Get("/users/{id}", h.GetUserDetails)
	r.Patch("/users/{id}/ban", h.ToggleUserBan)

	r.Get("/bookings", h.ListBookings)
	r.Patch("/bookings/{id}/cancel", h.CancelBooking)

	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Put("/categories/{id}", h.UpdateCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)

	r.Get("/featured-tutors", h.ListFeaturedTutors)
	r.Patch("/tutors/{id}/featured", h.ToggleFeaturedTutor)
}

// GetDashboard handles GET /dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, stats)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := UserFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	if v := r.URL.Query().Get("role"); v != "" {
		role := domain.Role(v)
		if !role.IsValid() {
			httputil.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid role: %s", v))
			return
		}
		filter.Role = &role
	}
	if v := r.URL.Query().Get("isBanned"); v != "" {
		banned, err := strconv.ParseBool(v)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid isBanned: %s", v))
			return
		}
		filter.IsBanned = &banned
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}

	users, pagination, err := h.service.GetAllUsers(r.Context(), filter)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Paginated(w, http.StatusOK, users, pagination)
}

// GetUserDetails handles GET /users/{id}.
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetUserDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, details)
}

// BanStatusRequest represents the ban toggle request body.
type BanStatusRequest struct {
	IsBanned  *bool  `json:"isBanned" validate:"required"`
	BanReason string `json:"banReason"`
}

// ToggleUserBan handles PATCH /users/{id}/ban.
func (h *Handler) ToggleUserBan(w http.ResponseWriter, r *http.Request) {
	var req BanStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.ToggleUserBan(r.Context(), chi.URLParam(r, "id"), *req.IsBanned, req.BanReason)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	message := "User unbanned successfully"
	if user.IsBanned {
		message = "User banned successfully"
	}
	httputil.SuccessMessage(w, http.StatusOK, message, user)
}

// ListBookings handles GET /bookings.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := BookingFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	// "ALL" disables the status filter, matching the dashboard client.
	if v := r.URL.Query().Get("status"); v != "" && v != "ALL" {
		status := domain.BookingStatus(v)
		if !status.IsValid() {
			httputil.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid status: %s", v))
			return
		}
		filter.Status = &status
	}

	var err error
	if filter.StartDate, err = queryDate(r, "startDate"); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.EndDate, err = queryDate(r, "endDate"); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if v := r.URL.Query().Get("tutorId"); v != "" {
		filter.TutorID = &v
	}
	if v := r.URL.Query().Get("studentId"); v != "" {
		filter.StudentID = &v
	}

	bookings, pagination, err := h.service.GetAllBookings(r.Context(), filter)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Paginated(w, http.StatusOK, bookings, pagination)
}

// CancelBookingRequest represents the admin cancellation request body.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles PATCH /bookings/{id}/cancel.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	// The body is optional; an absent body cancels without a reason.
	var req CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), chi.URLParam(r, "id"), req.Reason, caller)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Booking cancelled by admin", booking)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategoriesWithStats(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, categories)
}

// CategoryRequest represents category create/update request bodies.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CreateCategory handles POST /categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), CreateCategoryInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory handles PUT /categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), CreateCategoryInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Category deleted successfully", nil)
}

// ListFeaturedTutors handles GET /featured-tutors.
func (h *Handler) ListFeaturedTutors(w http.ResponseWriter, r *http.Request) {
	tutors, err := h.service.GetFeaturedTutors(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessCount(w, http.StatusOK, len(tutors), tutors)
}

// ToggleFeaturedTutor handles PATCH /tutors/{id}/featured.
func (h *Handler) ToggleFeaturedTutor(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ToggleFeaturedTutor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, fmt.Sprintf("Tutor %s successfully", result.Action), result)
}

// queryInt parses an integer query parameter; absent or malformed values
// yield zero and fall through to service defaults.
func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// queryDate parses a date query parameter as RFC 3339 or YYYY-MM-DD.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", name, v)
	}
	return &t, nil
}
