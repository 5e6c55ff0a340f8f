// Package postgres provides the PostgreSQL implementation of the admin
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillbridge/skillbridge-api/internal/admin"
	"github.com/skillbridge/skillbridge-api/internal/domain"
)

const uniqueViolation = "23505"

// Repository implements admin.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL admin repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CountUsers counts users matching the filter.
func (r *Repository) CountUsers(ctx context.Context, filter admin.UserCountFilter) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	conditions := []string{}
	args := []interface{}{}
	argNum := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argNum))
		args = append(args, *filter.Role)
		argNum++
	}
	if filter.IsBanned != nil {
		conditions = append(conditions, fmt.Sprintf("is_banned = $%d", argNum))
		args = append(args, *filter.IsBanned)
		argNum++
	}
	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, *filter.CreatedAfter)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CountBookings counts bookings matching the filter.
func (r *Repository) CountBookings(ctx context.Context, filter admin.BookingCountFilter) (int, error) {
	query := `SELECT COUNT(*) FROM bookings`
	conditions := []string{}
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, *filter.CreatedAfter)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// SumCompletedBookingRevenue sums the price of all COMPLETED bookings.
func (r *Repository) SumCompletedBookingRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(price), 0) FROM bookings WHERE status = 'COMPLETED'`,
	).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return revenue, nil
}

// ListUsers lists users with filters, newest first, plus the matching total.
func (r *Repository) ListUsers(ctx context.Context, filter admin.UserFilter) ([]admin.UserListItem, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argNum := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argNum))
		args = append(args, *filter.Role)
		argNum++
	}
	if filter.IsBanned != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_banned = $%d", argNum))
		args = append(args, *filter.IsBanned)
		argNum++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(u.name ILIKE $%d OR u.email ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+*filter.Search+"%")
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `
		SELECT
			u.id, u.email, u.name, u.role, u.is_banned, u.ban_reason,
			u.email_verified, u.image, u.created_at, u.updated_at,
			(SELECT COUNT(*) FROM bookings b WHERE b.student_id = u.id),
			(SELECT COUNT(*) FROM reviews rv WHERE rv.student_id = u.id)
		FROM users u` + where + fmt.Sprintf(`
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []admin.UserListItem{}
	tutorIDs := []string{}
	for rows.Next() {
		var item admin.UserListItem
		err := rows.Scan(
			&item.ID, &item.Email, &item.Name, &item.Role, &item.IsBanned,
			&item.BanReason, &item.EmailVerified, &item.Image,
			&item.CreatedAt, &item.UpdatedAt,
			&item.BookingCount, &item.ReviewCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		if item.Role == domain.RoleTutor {
			tutorIDs = append(tutorIDs, item.ID)
		}
		users = append(users, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	if err := r.attachTutorSummaries(ctx, users, tutorIDs); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// attachTutorSummaries fills TutorProfile on TUTOR rows in one extra query.
func (r *Repository) attachTutorSummaries(ctx context.Context, users []admin.UserListItem, tutorIDs []string) error {
	if len(tutorIDs) == 0 {
		return nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			tp.user_id, tp.id, tp.rating, tp.hourly_rate, tp.is_featured,
			(SELECT COUNT(*) FROM bookings b WHERE b.tutor_id = tp.id),
			(SELECT COUNT(*) FROM reviews rv WHERE rv.tutor_id = tp.id)
		FROM tutor_profiles tp
		WHERE tp.user_id = ANY($1)`, tutorIDs)
	if err != nil {
		return fmt.Errorf("load tutor summaries: %w", err)
	}
	defer rows.Close()

	summaries := map[string]*domain.TutorProfileSummary{}
	for rows.Next() {
		var userID string
		var s domain.TutorProfileSummary
		err := rows.Scan(&userID, &s.ID, &s.Rating, &s.HourlyRate, &s.IsFeatured, &s.BookingCount, &s.ReviewCount)
		if err != nil {
			return fmt.Errorf("scan tutor summary: %w", err)
		}
		summaries[userID] = &s
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load tutor summaries: %w", err)
	}

	for i := range users {
		users[i].TutorProfile = summaries[users[i].ID]
	}
	return nil
}

// GetUserDetails returns a user with recent bookings, recent reviews, and
// the tutor profile when present.
func (r *Repository) GetUserDetails(ctx context.Context, userID string) (*admin.UserDetails, error) {
	var details admin.UserDetails
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, is_banned, ban_reason, email_verified,
			image, created_at, updated_at
		FROM users WHERE id = $1`, userID,
	).Scan(
		&details.ID, &details.Email, &details.Name, &details.Role,
		&details.IsBanned, &details.BanReason, &details.EmailVerified,
		&details.Image, &details.CreatedAt, &details.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if details.Bookings, err = r.recentStudentBookings(ctx, userID); err != nil {
		return nil, err
	}
	if details.Reviews, err = r.recentStudentReviews(ctx, userID); err != nil {
		return nil, err
	}
	if details.Role == domain.RoleTutor {
		if details.TutorProfile, err = r.tutorProfileDetails(ctx, userID); err != nil {
			return nil, err
		}
	}
	return &details, nil
}

func (r *Repository) recentStudentBookings(ctx context.Context, userID string) ([]admin.BookingWithTutor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			b.id, b.student_id, b.tutor_id, b.status, b.price, b.start_at,
			b.cancel_reason, b.cancelled_by, b.created_at, b.updated_at,
			tp.id, tu.id, tu.name, tu.email, tu.image,
			rv.id, rv.booking_id, rv.student_id, rv.tutor_id, rv.rating,
			rv.comment, rv.created_at
		FROM bookings b
		JOIN tutor_profiles tp ON tp.id = b.tutor_id
		JOIN users tu ON tu.id = tp.user_id
		LEFT JOIN reviews rv ON rv.booking_id = b.id
		WHERE b.student_id = $1
		ORDER BY b.created_at DESC
		LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	defer rows.Close()

	bookings := []admin.BookingWithTutor{}
	for rows.Next() {
		var b admin.BookingWithTutor
		var reviewID *string
		var review domain.Review
		var rvBookingID, rvStudentID, rvTutorID, rvComment *string
		var rvRating *int
		var rvCreatedAt *time.Time
		err := rows.Scan(
			&b.ID, &b.StudentID, &b.TutorID, &b.Status, &b.Price, &b.StartAt,
			&b.CancelReason, &b.CancelledBy, &b.CreatedAt, &b.UpdatedAt,
			&b.Tutor.ID, &b.Tutor.User.ID, &b.Tutor.User.Name, &b.Tutor.User.Email, &b.Tutor.User.Image,
			&reviewID, &rvBookingID, &rvStudentID, &rvTutorID, &rvRating,
			&rvComment, &rvCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if reviewID != nil {
			review = domain.Review{
				ID:        *reviewID,
				BookingID: *rvBookingID,
				StudentID: *rvStudentID,
				TutorID:   *rvTutorID,
				Rating:    *rvRating,
				Comment:   *rvComment,
				CreatedAt: *rvCreatedAt,
			}
			b.Review = &review
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	return bookings, nil
}

func (r *Repository) recentStudentReviews(ctx context.Context, userID string) ([]admin.ReviewWithTutor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			rv.id, rv.booking_id, rv.student_id, rv.tutor_id, rv.rating,
			rv.comment, rv.created_at,
			tp.id, tu.id, tu.name, tu.email, tu.image
		FROM reviews rv
		JOIN tutor_profiles tp ON tp.id = rv.tutor_id
		JOIN users tu ON tu.id = tp.user_id
		WHERE rv.student_id = $1
		ORDER BY rv.created_at DESC
		LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	defer rows.Close()

	reviews := []admin.ReviewWithTutor{}
	for rows.Next() {
		var rev admin.ReviewWithTutor
		err := rows.Scan(
			&rev.ID, &rev.BookingID, &rev.StudentID, &rev.TutorID, &rev.Rating,
			&rev.Comment, &rev.CreatedAt,
			&rev.Tutor.ID, &rev.Tutor.User.ID, &rev.Tutor.User.Name,
			&rev.Tutor.User.Email, &rev.Tutor.User.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	return reviews, nil
}

func (r *Repository) tutorProfileDetails(ctx context.Context, userID string) (*admin.TutorProfileDetails, error) {
	var p admin.TutorProfileDetails
	err := r.db.QueryRow(ctx, `
		SELECT
			tp.id, tp.user_id, tp.headline, tp.bio, tp.hourly_rate, tp.rating,
			tp.is_featured, tp.created_at, tp.updated_at,
			(SELECT COUNT(*) FROM bookings b WHERE b.tutor_id = tp.id),
			(SELECT COUNT(*) FROM reviews rv WHERE rv.tutor_id = tp.id)
		FROM tutor_profiles tp
		WHERE tp.user_id = $1`, userID,
	).Scan(
		&p.ID, &p.UserID, &p.Headline, &p.Bio, &p.HourlyRate, &p.Rating,
		&p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		&p.BookingCount, &p.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("tutor profile: %w", err)
	}

	if p.Categories, err = r.tutorCategories(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Availability, err = r.tutorAvailability(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) tutorCategories(ctx context.Context, tutorID string) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at
		FROM categories c
		JOIN tutor_categories tc ON tc.category_id = c.id
		WHERE tc.tutor_id = $1
		ORDER BY c.name`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("tutor categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tutor categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) tutorAvailability(ctx context.Context, tutorID string) ([]domain.Availability, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tutor_id, day_of_week, start_time, end_time, created_at
		FROM availability
		WHERE tutor_id = $1
		ORDER BY day_of_week, start_time`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("tutor availability: %w", err)
	}
	defer rows.Close()

	slots := []domain.Availability{}
	for rows.Next() {
		var a domain.Availability
		if err := rows.Scan(&a.ID, &a.TutorID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		slots = append(slots, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tutor availability: %w", err)
	}
	return slots, nil
}

// UpdateUserBan sets the ban state of a non-admin user. A ban carries a
// non-nil reason; an unban always stores NULL. Both guards sit in the
// UPDATE predicate so a concurrent role change cannot slip a ban onto an
// admin, and a missing target is reported before a missing reason.
func (r *Repository) UpdateUserBan(ctx context.Context, userID string, isBanned bool, reason *string) (*domain.PublicUser, error) {
	var user domain.User
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET is_banned = $2, ban_reason = $3, updated_at = now()
		WHERE id = $1 AND role <> 'ADMIN' AND (NOT $2 OR $3::text IS NOT NULL)
		RETURNING id, email, name, role, is_banned, ban_reason`,
		userID, isBanned, reason,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.IsBanned, &user.BanReason)

	if err == nil {
		public := user.Public()
		return &public, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update ban status: %w", err)
	}

	// Zero rows: missing user, admin target, or a ban without a reason.
	var role domain.Role
	err = r.db.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admin.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("classify ban failure: %w", err)
	}
	if role == domain.RoleAdmin {
		return nil, admin.ErrCannotBanAdmin
	}
	return nil, admin.ErrBanReasonRequired
}

// ListBookings lists bookings with filters, newest first, plus the total.
func (r *Repository) ListBookings(ctx context.Context, filter admin.BookingFilter) ([]domain.BookingDetails, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argNum))
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_at >= $%d", argNum))
		args = append(args, *filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_at <= $%d", argNum))
		args = append(args, *filter.EndDate)
		argNum++
	}
	if filter.TutorID != nil {
		conditions = append(conditions, fmt.Sprintf("b.tutor_id = $%d", argNum))
		args = append(args, *filter.TutorID)
		argNum++
	}
	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("b.student_id = $%d", argNum))
		args = append(args, *filter.StudentID)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := bookingDetailsQuery + where + fmt.Sprintf(`
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.BookingDetails{}
	for rows.Next() {
		booking, err := scanBookingDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

// bookingDetailsQuery selects a booking with its student, tutor, and any
// review. Callers append WHERE/ORDER clauses.
const bookingDetailsQuery = `
	SELECT
		b.id, b.student_id, b.tutor_id, b.status, b.price, b.start_at,
		b.cancel_reason, b.cancelled_by, b.created_at, b.updated_at,
		su.id, su.name, su.email, su.image,
		tp.id, tu.id, tu.name, tu.email, tu.image,
		rv.id, rv.booking_id, rv.student_id, rv.tutor_id, rv.rating,
		rv.comment, rv.created_at
	FROM bookings b
	JOIN users su ON su.id = b.student_id
	JOIN tutor_profiles tp ON tp.id = b.tutor_id
	JOIN users tu ON tu.id = tp.user_id
	LEFT JOIN reviews rv ON rv.booking_id = b.id`

func scanBookingDetails(row pgx.Row) (*domain.BookingDetails, error) {
	var b domain.BookingDetails
	var reviewID, rvBookingID, rvStudentID, rvTutorID, rvComment *string
	var rvRating *int
	var rvCreatedAt *time.Time
	err := row.Scan(
		&b.ID, &b.StudentID, &b.TutorID, &b.Status, &b.Price, &b.StartAt,
		&b.CancelReason, &b.CancelledBy, &b.CreatedAt, &b.UpdatedAt,
		&b.Student.ID, &b.Student.Name, &b.Student.Email, &b.Student.Image,
		&b.Tutor.ID, &b.Tutor.User.ID, &b.Tutor.User.Name, &b.Tutor.User.Email, &b.Tutor.User.Image,
		&reviewID, &rvBookingID, &rvStudentID, &rvTutorID, &rvRating,
		&rvComment, &rvCreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	if reviewID != nil {
		b.Review = &domain.Review{
			ID:        *reviewID,
			BookingID: *rvBookingID,
			StudentID: *rvStudentID,
			TutorID:   *rvTutorID,
			Rating:    *rvRating,
			Comment:   *rvComment,
			CreatedAt: *rvCreatedAt,
		}
	}
	return &b, nil
}

// CancelBooking moves a CONFIRMED booking to CANCELLED. The status guard
// is part of the UPDATE predicate so concurrent completion or cancellation
// cannot be overwritten.
func (r *Repository) CancelBooking(ctx context.Context, bookingID string, reason *string, cancelledBy string) (*domain.BookingDetails, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		UPDATE bookings
		SET status = 'CANCELLED', cancel_reason = $2, cancelled_by = $3, updated_at = now()
		WHERE id = $1 AND status = 'CONFIRMED'
		RETURNING id`,
		bookingID, reason, cancelledBy,
	).Scan(&id)

	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cancel booking: %w", err)
		}

		// Zero rows: missing booking or terminal status.
		var status domain.BookingStatus
		err = r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrBookingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("classify cancel failure: %w", err)
		}
		if !status.IsTerminal() {
			return nil, fmt.Errorf("cancel booking: unexpected status %s", status)
		}
		if status == domain.BookingStatusCompleted {
			return nil, admin.ErrBookingCompleted
		}
		return nil, admin.ErrBookingAlreadyCancelled
	}

	return r.getBookingDetails(ctx, id)
}

func (r *Repository) getBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error) {
	booking, err := scanBookingDetails(r.db.QueryRow(ctx, bookingDetailsQuery+` WHERE b.id = $1`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		category.Name, category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return admin.ErrCategoryNameExists
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory updates a category's name and description.
func (r *Repository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	err := r.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		category.ID, category.Name, category.Description,
	).Scan(&category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return admin.ErrCategoryNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return admin.ErrCategoryNameExists
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category only while no tutor profile references
// it. The reference check is part of the DELETE predicate.
func (r *Repository) DeleteCategory(ctx context.Context, categoryID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM categories c
		WHERE c.id = $1
		AND NOT EXISTS (SELECT 1 FROM tutor_categories tc WHERE tc.category_id = c.id)`,
		categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: missing category or live references.
	var refs int
	err = r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM tutor_categories WHERE category_id = c.id)
		FROM categories c WHERE c.id = $1`, categoryID,
	).Scan(&refs)
	if errors.Is(err, pgx.ErrNoRows) {
		return admin.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("classify delete failure: %w", err)
	}
	return fmt.Errorf("%w: %d tutors assigned", admin.ErrCategoryInUse, refs)
}

// ListCategoriesWithStats lists all categories with tutor counts, by name.
func (r *Repository) ListCategoriesWithStats(ctx context.Context) ([]domain.CategoryWithStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
			COUNT(tc.tutor_id)
		FROM categories c
		LEFT JOIN tutor_categories tc ON tc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.CategoryWithStats{}
	for rows.Next() {
		var c domain.CategoryWithStats
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.TutorCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ToggleFeaturedTutor flips the featured flag. The owning user must be
// unbanned: a banned owner's profile can neither be featured nor
// unfeatured. The guard is part of the UPDATE predicate.
func (r *Repository) ToggleFeaturedTutor(ctx context.Context, tutorProfileID string) (*domain.FeaturedTutor, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		UPDATE tutor_profiles tp
		SET is_featured = NOT tp.is_featured, updated_at = now()
		FROM users u
		WHERE tp.id = $1
		AND u.id = tp.user_id
		AND NOT u.is_banned
		RETURNING tp.id`,
		tutorProfileID,
	).Scan(&id)

	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("toggle featured: %w", err)
		}

		// Zero rows: missing profile or a banned owner.
		var exists bool
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tutor_profiles WHERE id = $1)`, tutorProfileID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("classify toggle failure: %w", err)
		}
		if !exists {
			return nil, admin.ErrTutorNotFound
		}
		return nil, admin.ErrTutorBanned
	}

	return r.getFeaturedTutor(ctx, id)
}

// ListFeaturedTutors lists featured tutors, highest rated first.
func (r *Repository) ListFeaturedTutors(ctx context.Context) ([]domain.FeaturedTutor, error) {
	rows, err := r.db.Query(ctx, featuredTutorQuery+`
		WHERE tp.is_featured
		ORDER BY tp.rating DESC, tp.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list featured tutors: %w", err)
	}
	defer rows.Close()

	tutors := []domain.FeaturedTutor{}
	for rows.Next() {
		tutor, err := scanFeaturedTutor(rows)
		if err != nil {
			return nil, err
		}
		tutors = append(tutors, *tutor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list featured tutors: %w", err)
	}

	for i := range tutors {
		if tutors[i].Categories, err = r.tutorCategories(ctx, tutors[i].ID); err != nil {
			return nil, err
		}
	}
	return tutors, nil
}

const featuredTutorQuery = `
	SELECT
		tp.id, tp.user_id, tp.headline, tp.bio, tp.hourly_rate, tp.rating,
		tp.is_featured, tp.created_at, tp.updated_at,
		u.id, u.name, u.email, u.image,
		(SELECT COUNT(*) FROM bookings b WHERE b.tutor_id = tp.id),
		(SELECT COUNT(*) FROM reviews rv WHERE rv.tutor_id = tp.id)
	FROM tutor_profiles tp
	JOIN users u ON u.id = tp.user_id`

func scanFeaturedTutor(row pgx.Row) (*domain.FeaturedTutor, error) {
	var t domain.FeaturedTutor
	err := row.Scan(
		&t.ID, &t.UserID, &t.Headline, &t.Bio, &t.HourlyRate, &t.Rating,
		&t.IsFeatured, &t.CreatedAt, &t.UpdatedAt,
		&t.User.ID, &t.User.Name, &t.User.Email, &t.User.Image,
		&t.BookingCount, &t.ReviewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("scan featured tutor: %w", err)
	}
	return &t, nil
}

func (r *Repository) getFeaturedTutor(ctx context.Context, tutorProfileID string) (*domain.FeaturedTutor, error) {
	tutor, err := scanFeaturedTutor(r.db.QueryRow(ctx, featuredTutorQuery+` WHERE tp.id = $1`, tutorProfileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrTutorNotFound
		}
		return nil, err
	}

	if tutor.Categories, err = r.tutorCategories(ctx, tutor.ID); err != nil {
		return nil, err
	}
	return tutor, nil
}
