package admin

import (
	"context"
	"time"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

// Repository defines the interface for admin oversight data operations.
type Repository interface {
	// Dashboard aggregates. Each count is an independent query so the
	// service can issue them concurrently.
	CountUsers(ctx context.Context, filter UserCountFilter) (int, error)
	CountBookings(ctx context.Context, filter BookingCountFilter) (int, error)
	SumCompletedBookingRevenue(ctx context.Context) (float64, error)

	// User oversight.
	ListUsers(ctx context.Context, filter UserFilter) ([]UserListItem, int, error)
	GetUserDetails(ctx context.Context, userID string) (*UserDetails, error)
	UpdateUserBan(ctx context.Context, userID string, isBanned bool, reason *string) (*domain.PublicUser, error)

	// Booking oversight.
	ListBookings(ctx context.Context, filter BookingFilter) ([]domain.BookingDetails, int, error)
	CancelBooking(ctx context.Context, bookingID string, reason *string, cancelledBy string) (*domain.BookingDetails, error)

	// Category management.
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategoriesWithStats(ctx context.Context) ([]domain.CategoryWithStats, error)

	// Featured tutor management.
	ToggleFeaturedTutor(ctx context.Context, tutorProfileID string) (*domain.FeaturedTutor, error)
	ListFeaturedTutors(ctx context.Context) ([]domain.FeaturedTutor, error)
}

// UserCountFilter narrows dashboard user counts. All fields are optional
// and independently nullable.
type UserCountFilter struct {
	Role         *domain.Role
	IsBanned     *bool
	CreatedAfter *time.Time
}

// BookingCountFilter narrows dashboard booking counts.
type BookingCountFilter struct {
	Status       *domain.BookingStatus
	CreatedAfter *time.Time
}

// UserFilter represents filter criteria for listing users. One named
// optional field per filter, each independently nullable.
type UserFilter struct {
	Page     int
	Limit    int
	Role     *domain.Role
	IsBanned *bool
	Search   *string // case-insensitive substring on name OR email
}

// BookingFilter represents filter criteria for listing bookings. Date
// bounds are inclusive and apply to the booking's startAt.
type BookingFilter struct {
	Page      int
	Limit     int
	Status    *domain.BookingStatus // nil means ALL
	StartDate *time.Time
	EndDate   *time.Time
	TutorID   *string
	StudentID *string
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// UserListItem is one row of the admin user listing. TutorProfile is nil
// for non-tutors and for tutors that have not created a profile yet.
type UserListItem struct {
	domain.User
	BookingCount int                         `json:"bookingCount"`
	ReviewCount  int                         `json:"reviewCount"`
	TutorProfile *domain.TutorProfileSummary `json:"tutorProfile"`
}

// BookingWithTutor is a booking with its tutor identity and any review,
// shown in the user detail view.
type BookingWithTutor struct {
	domain.Booking
	Tutor  domain.TutorRef `json:"tutor"`
	Review *domain.Review  `json:"review"`
}

// ReviewWithTutor is a review with the reviewed tutor's identity.
type ReviewWithTutor struct {
	domain.Review
	Tutor domain.TutorRef `json:"tutor"`
}

// TutorProfileDetails is the full profile section of the user detail view.
type TutorProfileDetails struct {
	domain.TutorProfile
	Categories   []domain.Category     `json:"categories"`
	Availability []domain.Availability `json:"availability"`
	BookingCount int                   `json:"bookingCount"`
	ReviewCount  int                   `json:"reviewCount"`
}

// UserDetails is the admin user detail view: the account plus its most
// recent bookings and reviews, and the tutor profile when applicable.
type UserDetails struct {
	domain.User
	Bookings     []BookingWithTutor   `json:"bookings"`
	Reviews      []ReviewWithTutor    `json:"reviews"`
	TutorProfile *TutorProfileDetails `json:"tutorProfile"`
}

// UserStats partitions user counts for the dashboard.
type UserStats struct {
	Total    int `json:"total"`
	Students int `json:"students"`
	Tutors   int `json:"tutors"`
	Active   int `json:"active"`
	Banned   int `json:"banned"`
}

// BookingStats partitions booking counts for the dashboard.
type BookingStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// RecentActivity counts records created in the trailing seven days.
type RecentActivity struct {
	NewUsers    int `json:"newUsers"`
	NewBookings int `json:"newBookings"`
}

// DashboardStats is the composed dashboard snapshot.
type DashboardStats struct {
	Users          UserStats      `json:"users"`
	Bookings       BookingStats   `json:"bookings"`
	Revenue        float64        `json:"revenue"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

// FeaturedToggleResult is a toggled profile tagged with the action that
// was applied; the tag always reflects the post-toggle state.
type FeaturedToggleResult struct {
	domain.FeaturedTutor
	Action string `json:"action"` // "featured" or "unfeatured"
}
