package user

import "errors"

var (
	ErrInvalidEmail      = errors.New("Invalid email format")
	ErrInvalidPassword   = errors.New("Password must be at least 8 characters with a letter, a number and a special character")
	ErrInvalidFullname   = errors.New("Full name contains invalid characters (only letters, spaces, hyphens, dots and apostrophes allowed)")
	ErrInvalidPhone      = errors.New("Invalid phone number")
	ErrEmailTaken        = errors.New("Email already registered")
	ErrUserNotFound      = errors.New("User not found")
	ErrNoUpdateFields    = errors.New("No valid update fields provided")
	ErrIncorrectPassword = errors.New("Current password is incorrect")
)
