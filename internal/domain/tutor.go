package domain

import "time"

// TutorProfile is the tutoring-specific extension of a TUTOR user.
// Exactly one profile exists per tutor user.
type TutorProfile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Headline   string    `json:"headline"`
	Bio        string    `json:"bio"`
	HourlyRate float64   `json:"hourlyRate"`
	Rating     float64   `json:"rating"`
	IsFeatured bool      `json:"isFeatured"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TutorProfileSummary is the compact profile attached to tutor rows in
// admin user listings.
type TutorProfileSummary struct {
	ID           string  `json:"id"`
	Rating       float64 `json:"rating"`
	HourlyRate   float64 `json:"hourlyRate"`
	IsFeatured   bool    `json:"isFeatured"`
	BookingCount int     `json:"bookingCount"`
	ReviewCount  int     `json:"reviewCount"`
}

// Category is a teaching subject. Names are unique (exact match).
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryWithStats is a category annotated with the number of tutor
// profiles referencing it.
type CategoryWithStats struct {
	Category
	TutorCount int `json:"tutorCount"`
}

// Availability is a weekly time slot owned by exactly one tutor profile.
type Availability struct {
	ID        string    `json:"id"`
	TutorID   string    `json:"tutorId"`
	DayOfWeek int       `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string    `json:"startTime"` // "HH:MM" 24h
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// TutorRef is a tutor profile with its owning user identity, attached to
// bookings and reviews.
type TutorRef struct {
	ID   string  `json:"id"`
	User UserRef `json:"user"`
}

// FeaturedTutor is a featured profile with everything the promotional
// listing needs.
type FeaturedTutor struct {
	TutorProfile
	User         UserRef    `json:"user"`
	Categories   []Category `json:"categories"`
	BookingCount int        `json:"bookingCount"`
	ReviewCount  int        `json:"reviewCount"`
}
