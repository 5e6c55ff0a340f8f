// Package admin implements platform oversight: dashboard statistics, user
// and booking administration, category management, and featured tutor
// curation. All operations require an ADMIN caller; the handler enforces
// that via the access control gate.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	// recentActivityWindow bounds the dashboard's "recent" counts.
	recentActivityWindow = 7 * 24 * time.Hour
)

// Service contains admin business logic.
type Service struct {
	repo Repository
}

// NewService creates a new admin service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDashboardStats composes the platform dashboard. The independent
// aggregates are queried concurrently; any failure fails the whole call.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	since := time.Now().Add(-recentActivityWindow)

	role := func(r domain.Role) *domain.Role { return &r }
	status := func(st domain.BookingStatus) *domain.BookingStatus { return &st }
	banned := func(b bool) *bool { return &b }

	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, filter UserCountFilter) {
		g.Go(func() error {
			n, err := s.repo.CountUsers(gctx, filter)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	countBookings := func(dst *int, filter BookingCountFilter) {
		g.Go(func() error {
			n, err := s.repo.CountBookings(gctx, filter)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&stats.Users.Total, UserCountFilter{})
	count(&stats.Users.Students, UserCountFilter{Role: role(domain.RoleStudent)})
	count(&stats.Users.Tutors, UserCountFilter{Role: role(domain.RoleTutor)})
	count(&stats.Users.Active, UserCountFilter{IsBanned: banned(false)})
	count(&stats.Users.Banned, UserCountFilter{IsBanned: banned(true)})
	count(&stats.RecentActivity.NewUsers, UserCountFilter{CreatedAfter: &since})

	countBookings(&stats.Bookings.Total, BookingCountFilter{})
	countBookings(&stats.Bookings.Confirmed, BookingCountFilter{Status: status(domain.BookingStatusConfirmed)})
	countBookings(&stats.Bookings.Completed, BookingCountFilter{Status: status(domain.BookingStatusCompleted)})
	countBookings(&stats.Bookings.Cancelled, BookingCountFilter{Status: status(domain.BookingStatusCancelled)})
	countBookings(&stats.RecentActivity.NewBookings, BookingCountFilter{CreatedAfter: &since})

	g.Go(func() error {
		revenue, err := s.repo.SumCompletedBookingRevenue(gctx)
		if err != nil {
			return err
		}
		stats.Revenue = revenue
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

// GetAllUsers lists users with optional filters and pagination.
func (s *Service) GetAllUsers(ctx context.Context, filter UserFilter) ([]UserListItem, *Pagination, error) {
	normalizePage(&filter.Page, &filter.Limit)

	users, total, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	return users, paginate(filter.Page, filter.Limit, total), nil
}

// GetUserDetails returns a single user with recent bookings, reviews, and
// the tutor profile when the user is a tutor.
func (s *Service) GetUserDetails(ctx context.Context, userID string) (*UserDetails, error) {
	details, err := s.repo.GetUserDetails(ctx, userID)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ToggleUserBan bans or unbans a user. Banning requires a non-empty
// reason; unbanning clears any stored reason. Admin accounts cannot be
// banned. The repository classifies failures, so a missing target answers
// not-found even when the reason is also absent.
func (s *Service) ToggleUserBan(ctx context.Context, userID string, isBanned bool, reason string) (*domain.PublicUser, error) {
	var banReason *string
	if isBanned {
		if reason = strings.TrimSpace(reason); reason != "" {
			banReason = &reason
		}
	}

	user, err := s.repo.UpdateUserBan(ctx, userID, isBanned, banReason)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAllBookings lists bookings with optional filters and pagination.
func (s *Service) GetAllBookings(ctx context.Context, filter BookingFilter) ([]domain.BookingDetails, *Pagination, error) {
	normalizePage(&filter.Page, &filter.Limit)

	bookings, total, err := s.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, paginate(filter.Page, filter.Limit, total), nil
}

// CancelBooking cancels a CONFIRMED booking on behalf of the platform.
// Terminal bookings are rejected. The cancelling admin and the optional
// reason are recorded on the booking.
func (s *Service) CancelBooking(ctx context.Context, bookingID, reason string, actor domain.Identity) (*domain.BookingDetails, error) {
	var cancelReason *string
	if r := strings.TrimSpace(reason); r != "" {
		cancelReason = &r
	}

	booking, err := s.repo.CancelBooking(ctx, bookingID, cancelReason, actor.ID)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateCategoryInput carries validated category fields.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// CreateCategory creates a new teaching category.
func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates an existing category's name and description.
func (s *Service) UpdateCategory(ctx context.Context, categoryID string, input CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		ID:          categoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no tutor profile references.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.repo.DeleteCategory(ctx, categoryID)
}

// GetCategoriesWithStats lists all categories with tutor counts.
func (s *Service) GetCategoriesWithStats(ctx context.Context) ([]domain.CategoryWithStats, error) {
	categories, err := s.repo.ListCategoriesWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ToggleFeaturedTutor flips the featured flag of a tutor profile. The
// featured state of a profile owned by a banned user cannot change in
// either direction.
func (s *Service) ToggleFeaturedTutor(ctx context.Context, tutorProfileID string) (*FeaturedToggleResult, error) {
	tutor, err := s.repo.ToggleFeaturedTutor(ctx, tutorProfileID)
	if err != nil {
		return nil, err
	}

	action := "unfeatured"
	if tutor.IsFeatured {
		action = "featured"
	}
	return &FeaturedToggleResult{FeaturedTutor: *tutor, Action: action}, nil
}

// GetFeaturedTutors lists all currently featured tutors.
func (s *Service) GetFeaturedTutors(ctx context.Context) ([]domain.FeaturedTutor, error) {
	tutors, err := s.repo.ListFeaturedTutors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured tutors: %w", err)
	}
	return tutors, nil
}

func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = defaultPage
	}
	if *limit < 1 {
		*limit = defaultLimit
	}
}

func paginate(page, limit, total int) *Pagination {
	totalPages := (total + limit - 1) / limit
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
