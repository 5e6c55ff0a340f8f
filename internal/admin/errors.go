package admin

import "errors"

// Service errors. Each maps to exactly one HTTP status in errorMappings;
// handlers never pick statuses per call site.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCannotBanAdmin    = errors.New("cannot ban administrators")
	ErrBanReasonRequired = errors.New("ban reason is required")

	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")
	ErrBookingCompleted        = errors.New("cannot cancel completed booking")

	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category with this name already exists")
	ErrCategoryInUse      = errors.New("cannot delete category while tutors reference it")

	ErrTutorNotFound = errors.New("tutor profile not found")
	ErrTutorBanned   = errors.New("cannot feature a banned tutor")
)
