package tutor

import "errors"

// Service errors.
var (
	ErrProfileNotFound  = errors.New("tutor profile not found")
	ErrProfileExists    = errors.New("tutor profile already exists")
	ErrSlotNotFound     = errors.New("availability slot not found")
	ErrInvalidSlot      = errors.New("invalid availability slot")
	ErrCategoryNotFound = errors.New("category not found")
)
