package validation

import (
	"regexp"
	"time"
	"unicode"
)

// Validation rule patterns
var (
	// EmailPattern is the email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// StudentIDPattern constrains the human-readable student identifier:
	// 4-20 characters, letters and digits only.
	StudentIDPattern = `^[A-Za-z0-9]{4,20}$`

	// PhonePattern allows an optional leading + and 7-15 digits.
	PhonePattern = `^\+?\d{7,15}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	StudentID *regexp.Regexp
	Phone     *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	StudentID: regexp.MustCompile(StudentIDPattern),
	Phone:     regexp.MustCompile(PhonePattern),
}

// ValidEmail reports whether the email matches the expected format.
func ValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// ValidStudentID reports whether the student identifier matches the
// expected format.
func ValidStudentID(studentID string) bool {
	return CompiledPatterns.StudentID.MatchString(studentID)
}

// ValidPhoneNumber reports whether the phone number matches the expected
// format. Empty values pass; the field is optional.
func ValidPhoneNumber(phone string) bool {
	if phone == "" {
		return true
	}
	return CompiledPatterns.Phone.MatchString(phone)
}

// ValidPassword reports whether the password meets the minimum
// requirements: at least PasswordMinLength characters with at least one
// letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// ValidDateRange reports whether end falls strictly after start.
func ValidDateRange(start, end time.Time) bool {
	return end.After(start)
}
