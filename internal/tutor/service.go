// Package tutor implements the tutor self-service surface: profile
// management and weekly availability. Every operation acts on the profile
// owned by the authenticated caller.
package tutor

import (
	"context"
	"fmt"
	"time"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

// Service contains tutor self-service business logic.
type Service struct {
	repo Repository
}

// NewService creates a new tutor service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ProfileInput carries validated profile fields.
type ProfileInput struct {
	Headline    string
	Bio         string
	HourlyRate  float64
	CategoryIDs []string
}

// CreateProfile creates the caller's profile. One profile per user.
func (s *Service) CreateProfile(ctx context.Context, userID string, input ProfileInput) (*Profile, error) {
	profile := &domain.TutorProfile{
		UserID:     userID,
		Headline:   input.Headline,
		Bio:        input.Bio,
		HourlyRate: input.HourlyRate,
	}
	if err := s.repo.CreateProfile(ctx, profile, input.CategoryIDs); err != nil {
		return nil, err
	}
	return s.repo.GetProfileByUserID(ctx, userID)
}

// GetProfile returns the caller's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

// UpdateProfile updates the caller's profile and replaces its categories.
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*Profile, error) {
	current, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := current.TutorProfile
	profile.Headline = input.Headline
	profile.Bio = input.Bio
	profile.HourlyRate = input.HourlyRate

	if err := s.repo.UpdateProfile(ctx, &profile, input.CategoryIDs); err != nil {
		return nil, err
	}
	return s.repo.GetProfileByUserID(ctx, userID)
}

// SlotInput carries one availability slot.
type SlotInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// GetAvailability lists the caller's availability slots.
func (s *Service) GetAvailability(ctx context.Context, userID string) ([]domain.Availability, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAvailability(ctx, profile.ID)
}

// AddAvailability adds one slot to the caller's schedule.
func (s *Service) AddAvailability(ctx context.Context, userID string, input SlotInput) (*domain.Availability, error) {
	if err := validateSlot(input); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot := &domain.Availability{
		TutorID:   profile.ID,
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := s.repo.CreateAvailability(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ReplaceAvailability swaps the caller's whole schedule for the given slots.
func (s *Service) ReplaceAvailability(ctx context.Context, userID string, inputs []SlotInput) ([]domain.Availability, error) {
	for _, input := range inputs {
		if err := validateSlot(input); err != nil {
			return nil, err
		}
	}

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Availability, 0, len(inputs))
	for _, input := range inputs {
		slots = append(slots, domain.Availability{
			TutorID:   profile.ID,
			DayOfWeek: input.DayOfWeek,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
		})
	}
	return s.repo.ReplaceAvailability(ctx, profile.ID, slots)
}

// RemoveAvailability deletes one slot. Slots of other tutors are invisible.
func (s *Service) RemoveAvailability(ctx context.Context, userID, slotID string) error {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteAvailability(ctx, profile.ID, slotID)
}

// validateSlot checks the day range and the "HH:MM" time ordering.
func validateSlot(input SlotInput) error {
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be 0-6", ErrInvalidSlot)
	}

	start, err := time.Parse("15:04", input.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidSlot)
	}
	end, err := time.Parse("15:04", input.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime must be HH:MM", ErrInvalidSlot)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidSlot)
	}
	return nil
}
