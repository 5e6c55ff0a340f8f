//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

// envelope mirrors the API response wrapper for decoding in tests.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Count      *int            `json:"count"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

func randomEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), rand.Intn(10000))
}

// registerUser registers a fresh account via the API, marks it verified, and
// optionally promotes its role. Returns the user ID.
func registerUser(t *testing.T, email, password, role string) string {
	t.Helper()

	client := newTestClientWithoutValidation()
	resp, err := client.POST("/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Test " + role,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_ = resp.Body.Close()

	var id string
	err = testDB.QueryRow(context.Background(),
		`UPDATE users SET role = $2, email_verified = true WHERE email = $1 RETURNING id`,
		email, role).Scan(&id)
	if err != nil {
		t.Fatalf("promote user: %v", err)
	}
	return id
}

// createTutorProfile inserts a profile for the user directly. Returns the
// profile ID.
func createTutorProfile(t *testing.T, userID string) string {
	t.Helper()

	var id string
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO tutor_profiles (user_id, headline, bio, hourly_rate)
		VALUES ($1, 'Test tutor', 'bio', 40)
		RETURNING id`, userID).Scan(&id)
	if err != nil {
		t.Fatalf("create tutor profile: %v", err)
	}
	return id
}

// createBooking inserts a booking directly. Returns the booking ID.
func createBooking(t *testing.T, studentID, tutorProfileID, status string, price float64) string {
	t.Helper()

	var id string
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO bookings (student_id, tutor_id, status, price, start_at)
		VALUES ($1, $2, $3, $4, now() + interval '1 day')
		RETURNING id`, studentID, tutorProfileID, status, price).Scan(&id)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return id
}

// createCategory inserts a category directly. Returns the category ID.
func createCategory(t *testing.T, name string) string {
	t.Helper()

	var id string
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO categories (name, description)
		VALUES ($1, 'test category')
		RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return id
}

// assignCategory links a tutor profile to a category.
func assignCategory(t *testing.T, tutorProfileID, categoryID string) {
	t.Helper()

	_, err := testDB.Exec(context.Background(), `
		INSERT INTO tutor_categories (tutor_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, tutorProfileID, categoryID)
	if err != nil {
		t.Fatalf("assign category: %v", err)
	}
}
