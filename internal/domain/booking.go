package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
// CONFIRMED -> {COMPLETED, CANCELLED}; both terminal states are final.
type BookingStatus string

// Booking statuses.
const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsValid checks if the booking status is a known status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking links one student user and one tutor profile.
type Booking struct {
	ID           string        `json:"id"`
	StudentID    string        `json:"studentId"`
	TutorID      string        `json:"tutorId"`
	Status       BookingStatus `json:"status"`
	Price        float64       `json:"price"`
	StartAt      time.Time     `json:"startAt"`
	CancelReason *string       `json:"cancelReason,omitempty"`
	CancelledBy  *string       `json:"cancelledBy,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Review is authored by the student for a completed booking.
type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	StudentID string    `json:"studentId"`
	TutorID   string    `json:"tutorId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingDetails is a booking with its student, tutor, and any linked review.
type BookingDetails struct {
	Booking
	Student UserRef  `json:"student"`
	Tutor   TutorRef `json:"tutor"`
	Review  *Review  `json:"review"`
}
