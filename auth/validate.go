package auth

import (
	"regexp"
	"strings"

	"github.com/user/taskman-go/apperror"
)

// emailPattern is a pragmatic format check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every email entering the store goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail rejects addresses that do not look like emails.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperror.NewValidationError("email is invalid", nil)
	}
	return nil
}

// ValidateName rejects empty names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("name is required", nil)
	}
	return nil
}

// ValidateAge rejects negative ages.
func ValidateAge(age int) error {
	if age < 0 {
		return apperror.NewValidationError("age must be a non-negative number", nil)
	}
	return nil
}
