package tutor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	profiles map[string]*Profile // keyed by user ID

	createErr      error
	createdProfile *domain.TutorProfile
	categoryIDs    []string

	slots        map[string][]domain.Availability // keyed by tutor profile ID
	deletedSlot  string
	deleteCalled bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		profiles: make(map[string]*Profile),
		slots:    make(map[string][]domain.Availability),
	}
}

func (m *mockRepository) CreateProfile(_ context.Context, profile *domain.TutorProfile, categoryIDs []string) error {
	if m.createErr != nil {
		return m.createErr
	}
	profile.ID = "profile-1"
	m.createdProfile = profile
	m.categoryIDs = categoryIDs
	m.profiles[profile.UserID] = &Profile{TutorProfile: *profile, Categories: []domain.Category{}}
	return nil
}

func (m *mockRepository) GetProfileByUserID(_ context.Context, userID string) (*Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, ErrProfileNotFound
}

func (m *mockRepository) UpdateProfile(_ context.Context, profile *domain.TutorProfile, categoryIDs []string) error {
	m.createdProfile = profile
	m.categoryIDs = categoryIDs
	m.profiles[profile.UserID] = &Profile{TutorProfile: *profile, Categories: []domain.Category{}}
	return nil
}

func (m *mockRepository) ListAvailability(_ context.Context, tutorID string) ([]domain.Availability, error) {
	return m.slots[tutorID], nil
}

func (m *mockRepository) CreateAvailability(_ context.Context, slot *domain.Availability) error {
	slot.ID = "slot-1"
	m.slots[slot.TutorID] = append(m.slots[slot.TutorID], *slot)
	return nil
}

func (m *mockRepository) ReplaceAvailability(_ context.Context, tutorID string, slots []domain.Availability) ([]domain.Availability, error) {
	m.slots[tutorID] = slots
	return slots, nil
}

func (m *mockRepository) DeleteAvailability(_ context.Context, tutorID, slotID string) error {
	m.deleteCalled = true
	m.deletedSlot = slotID
	for _, s := range m.slots[tutorID] {
		if s.ID == slotID {
			return nil
		}
	}
	return ErrSlotNotFound
}

func TestCreateProfile_OwnedByCaller(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo)

	// Act
	profile, err := service.CreateProfile(context.Background(), "user-1", ProfileInput{
		Headline:    "Algebra tutor",
		HourlyRate:  35,
		CategoryIDs: []string{"cat-1"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, []string{"cat-1"}, repo.categoryIDs)
}

func TestCreateProfile_Duplicate(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = ErrProfileExists

	service := NewService(repo)

	profile, err := service.CreateProfile(context.Background(), "user-1", ProfileInput{Headline: "x", HourlyRate: 10})

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestGetProfile_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	profile, err := service.GetProfile(context.Background(), "user-1")

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfile_PreservesOwnership(t *testing.T) {
	repo := newMockRepository()
	repo.profiles["user-1"] = &Profile{
		TutorProfile: domain.TutorProfile{ID: "profile-1", UserID: "user-1", Headline: "old"},
	}

	service := NewService(repo)

	profile, err := service.UpdateProfile(context.Background(), "user-1", ProfileInput{
		Headline:   "new headline",
		HourlyRate: 50,
	})

	require.NoError(t, err)
	assert.Equal(t, "profile-1", profile.ID)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "new headline", profile.Headline)
}

func TestAddAvailability_ValidatesSlot(t *testing.T) {
	repo := newMockRepository()
	repo.profiles["user-1"] = &Profile{TutorProfile: domain.TutorProfile{ID: "profile-1", UserID: "user-1"}}

	service := NewService(repo)

	cases := []struct {
		name  string
		input SlotInput
	}{
		{"day out of range", SlotInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}},
		{"bad start time", SlotInput{DayOfWeek: 1, StartTime: "9am", EndTime: "10:00"}},
		{"bad end time", SlotInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "25:00"}},
		{"start after end", SlotInput{DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00"}},
		{"zero length", SlotInput{DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := service.AddAvailability(context.Background(), "user-1", tc.input)
			assert.Nil(t, slot)
			assert.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

func TestAddAvailability_AttachesToOwnProfile(t *testing.T) {
	repo := newMockRepository()
	repo.profiles["user-1"] = &Profile{TutorProfile: domain.TutorProfile{ID: "profile-1", UserID: "user-1"}}

	service := NewService(repo)

	slot, err := service.AddAvailability(context.Background(), "user-1", SlotInput{
		DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "profile-1", slot.TutorID)
	assert.Equal(t, "slot-1", slot.ID)
}

func TestAddAvailability_NoProfile(t *testing.T) {
	service := NewService(newMockRepository())

	slot, err := service.AddAvailability(context.Background(), "user-1", SlotInput{
		DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00",
	})

	assert.Nil(t, slot)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestReplaceAvailability_RejectsAnyInvalidSlot(t *testing.T) {
	repo := newMockRepository()
	repo.profiles["user-1"] = &Profile{TutorProfile: domain.TutorProfile{ID: "profile-1", UserID: "user-1"}}
	repo.slots["profile-1"] = []domain.Availability{{ID: "slot-1"}}

	service := NewService(repo)

	slots, err := service.ReplaceAvailability(context.Background(), "user-1", []SlotInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 9, StartTime: "09:00", EndTime: "10:00"},
	})

	assert.Nil(t, slots)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.Len(t, repo.slots["profile-1"], 1, "schedule must be untouched")
}

func TestRemoveAvailability_ScopedToOwner(t *testing.T) {
	repo := newMockRepository()
	repo.profiles["user-1"] = &Profile{TutorProfile: domain.TutorProfile{ID: "profile-1", UserID: "user-1"}}
	repo.slots["other-profile"] = []domain.Availability{{ID: "slot-9"}}

	service := NewService(repo)

	err := service.RemoveAvailability(context.Background(), "user-1", "slot-9")

	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.True(t, repo.deleteCalled)
}
