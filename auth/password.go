package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/taskman-go/apperror"
)

// hashCost is the bcrypt work factor for all password hashes.
const hashCost = 8

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 7

// dummyHash is compared against when a login targets an unknown email, so
// missing accounts cost the same bcrypt work as wrong passwords and cannot
// be enumerated by timing.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskman.dummy.compare"), hashCost)

// HashPassword derives a salted bcrypt digest from a plaintext password.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// compareDummy burns the same bcrypt work as a real comparison. The result
// is discarded; callers reject the login regardless.
func compareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}

// ValidatePassword enforces the password policy: minimum length and no
// literal "password" substring in any case.
func ValidatePassword(plain string) error {
	if len(plain) < minPasswordLength {
		return apperror.NewValidationError("password must be at least 7 characters", nil)
	}
	if strings.Contains(strings.ToLower(plain), "password") {
		return apperror.NewValidationError(`password cannot contain "password"`, nil)
	}
	return nil
}
