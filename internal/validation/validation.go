// Package validation holds the input rules shared by account creation and
// profile updates. Violations surface as 400 validation errors.
package validation

import (
	"regexp"
	"strings"

	"picstream/internal/models"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 30
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input limit
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks length and character set.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLen {
		return models.NewValidationError("Username must be at least 3 characters")
	}
	if len(username) > MaxUsernameLen {
		return models.NewValidationError("Username too long (max 30 characters)")
	}
	if !usernameRe.MatchString(username) {
		return models.NewValidationError("Username may only contain letters, digits, '_' and '.'")
	}
	return nil
}

// ValidateEmail performs a shape check only; deliverability is not verified.
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("Email is required")
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		return models.NewValidationError("Email is not valid")
	}
	return nil
}

// ValidatePassword checks length bounds. Composition rules are deliberately
// not enforced.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLen {
		return models.NewValidationError("Password too long (max 72 characters)")
	}
	if strings.TrimSpace(password) == "" {
		return models.NewValidationError("Password cannot be blank")
	}
	return nil
}
