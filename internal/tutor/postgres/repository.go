// Package postgres provides the PostgreSQL implementation of the tutor
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillbridge/skillbridge-api/internal/domain"
	"github.com/skillbridge/skillbridge-api/internal/tutor"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Repository implements tutor.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL tutor repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateProfile inserts a profile and its category links in one
// transaction. The unique user_id constraint enforces one profile per user.
func (r *Repository) CreateProfile(ctx context.Context, profile *domain.TutorProfile, categoryIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO tutor_profiles (user_id, headline, bio, hourly_rate)
		VALUES ($1, $2, $3, $4)
		RETURNING id, rating, is_featured, created_at, updated_at`,
		profile.UserID, profile.Headline, profile.Bio, profile.HourlyRate,
	).Scan(&profile.ID, &profile.Rating, &profile.IsFeatured, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return tutor.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}

	if err := linkCategories(ctx, tx, profile.ID, categoryIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetProfileByUserID returns a user's profile with its categories.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID string) (*tutor.Profile, error) {
	var p tutor.Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, headline, bio, hourly_rate, rating, is_featured,
			created_at, updated_at
		FROM tutor_profiles
		WHERE user_id = $1`, userID,
	).Scan(
		&p.ID, &p.UserID, &p.Headline, &p.Bio, &p.HourlyRate, &p.Rating,
		&p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tutor.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at
		FROM categories c
		JOIN tutor_categories tc ON tc.category_id = c.id
		WHERE tc.tutor_id = $1
		ORDER BY c.name`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("profile categories: %w", err)
	}
	defer rows.Close()

	p.Categories = []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		p.Categories = append(p.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile categories: %w", err)
	}
	return &p, nil
}

// UpdateProfile updates profile fields and replaces its category links in
// one transaction.
func (r *Repository) UpdateProfile(ctx context.Context, profile *domain.TutorProfile, categoryIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE tutor_profiles
		SET headline = $2, bio = $3, hourly_rate = $4, updated_at = now()
		WHERE id = $1`,
		profile.ID, profile.Headline, profile.Bio, profile.HourlyRate)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tutor.ErrProfileNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tutor_categories WHERE tutor_id = $1`, profile.ID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	if err := linkCategories(ctx, tx, profile.ID, categoryIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func linkCategories(ctx context.Context, tx pgx.Tx, tutorID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO tutor_categories (tutor_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, tutorID, categoryID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				return tutor.ErrCategoryNotFound
			}
			return fmt.Errorf("link category: %w", err)
		}
	}
	return nil
}

// ListAvailability lists a tutor's slots in weekly order.
func (r *Repository) ListAvailability(ctx context.Context, tutorID string) ([]domain.Availability, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tutor_id, day_of_week, start_time, end_time, created_at
		FROM availability
		WHERE tutor_id = $1
		ORDER BY day_of_week, start_time`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
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
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

// CreateAvailability inserts one slot.
func (r *Repository) CreateAvailability(ctx context.Context, slot *domain.Availability) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO availability (tutor_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		slot.TutorID, slot.DayOfWeek, slot.StartTime, slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("create availability: %w", err)
	}
	return nil
}

// ReplaceAvailability swaps a tutor's whole schedule in one transaction.
func (r *Repository) ReplaceAvailability(ctx context.Context, tutorID string, slots []domain.Availability) ([]domain.Availability, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM availability WHERE tutor_id = $1`, tutorID); err != nil {
		return nil, fmt.Errorf("clear availability: %w", err)
	}

	inserted := make([]domain.Availability, 0, len(slots))
	for _, slot := range slots {
		err := tx.QueryRow(ctx, `
			INSERT INTO availability (tutor_id, day_of_week, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			tutorID, slot.DayOfWeek, slot.StartTime, slot.EndTime,
		).Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert availability: %w", err)
		}
		inserted = append(inserted, slot)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// DeleteAvailability removes a slot only when the tutor owns it.
func (r *Repository) DeleteAvailability(ctx context.Context, tutorID, slotID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM availability WHERE id = $1 AND tutor_id = $2`, slotID, tutorID)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tutor.ErrSlotNotFound
	}
	return nil
}
