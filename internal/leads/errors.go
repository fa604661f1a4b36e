package leads

import "errors"

var (
	// ErrMissingFields is returned when name, email or phone is absent
	ErrMissingFields = errors.New("name, email and phone are required")

	// ErrInvalidEmail is returned when the email fails the shape check
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
