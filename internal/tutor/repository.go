package tutor

import (
	"context"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

// Repository defines the interface for tutor self-service data operations.
type Repository interface {
	CreateProfile(ctx context.Context, profile *domain.TutorProfile, categoryIDs []string) error
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.TutorProfile, categoryIDs []string) error

	ListAvailability(ctx context.Context, tutorID string) ([]domain.Availability, error)
	CreateAvailability(ctx context.Context, slot *domain.Availability) error
	ReplaceAvailability(ctx context.Context, tutorID string, slots []domain.Availability) ([]domain.Availability, error)
	DeleteAvailability(ctx context.Context, tutorID, slotID string) error
}

// Profile is a tutor's own profile with its assigned categories.
type Profile struct {
	domain.TutorProfile
	Categories []domain.Category `json:"categories"`
}
