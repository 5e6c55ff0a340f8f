package tutor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillbridge/skillbridge-api/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrProfileNotFound, Status: http.StatusNotFound},
	{Error: ErrSlotNotFound, Status: http.StatusNotFound},
	{Error: ErrProfileExists, Status: http.StatusConflict},
	{Error: ErrInvalidSlot, Status: http.StatusBadRequest},
	{Error: ErrCategoryNotFound, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the tutor module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new tutor handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers tutor routes. The caller mounts them behind
// the TUTOR role gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/profile", h.CreateProfile)
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)

	r.Get("/availability", h.GetAvailability)
	r.Post("/availability", h.AddAvailability)
	r.Put("/availability", h.ReplaceAvailability)
	r.Delete("/availability/{id}", h.RemoveAvailability)
}

// ProfileRequest represents profile create/update request bodies.
type ProfileRequest struct {
	Headline    string   `json:"headline" validate:"required,min=1,max=255"`
	Bio         string   `json:"bio" validate:"max=2000"`
	HourlyRate  float64  `json:"hourlyRate" validate:"required,gt=0"`
	CategoryIDs []string `json:"categoryIds" validate:"dive,uuid"`
}

// CreateProfile handles POST /profile.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), caller.ID, ProfileInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusCreated, "Tutor profile created successfully", profile)
}

// GetProfile handles GET /profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), caller.ID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), caller.ID, ProfileInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Tutor profile updated successfully", profile)
}

// GetAvailability handles GET /availability.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	slots, err := h.service.GetAvailability(r.Context(), caller.ID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessCount(w, http.StatusOK, len(slots), slots)
}

// SlotRequest represents one availability slot in request bodies.
type SlotRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// AddAvailability handles POST /availability.
func (h *Handler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	slot, err := h.service.AddAvailability(r.Context(), caller.ID, SlotInput{
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusCreated, "Availability slot added successfully", slot)
}

// ReplaceAvailability handles PUT /availability.
func (h *Handler) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	var req struct {
		Slots []SlotRequest `json:"slots" validate:"required,dive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	inputs := make([]SlotInput, 0, len(req.Slots))
	for _, slot := range req.Slots {
		inputs = append(inputs, SlotInput{
			DayOfWeek: *slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	slots, err := h.service.ReplaceAvailability(r.Context(), caller.ID, inputs)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Availability updated successfully", slots)
}

// RemoveAvailability handles DELETE /availability/{id}.
func (h *Handler) RemoveAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "you are not authorized")
		return
	}

	if err := h.service.RemoveAvailability(r.Context(), caller.ID, chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Availability slot removed successfully", nil)
}
