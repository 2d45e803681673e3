package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_]*$`)
)

// ValidateUsername validates username format.
// Rules: 3-20 characters, letters, numbers, underscores only, not starting with an underscore.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)

	switch {
	case n < MinUsernameLength:
		return fmt.Errorf("must be at least %d characters", MinUsernameLength)
	case n > MaxUsernameLength:
		return fmt.Errorf("must be at most %d characters", MaxUsernameLength)
	case strings.HasPrefix(username, "_"):
		return errors.New("must start with a letter or number")
	case !usernameRegex.MatchString(username):
		return errors.New("can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword checks the signup password policy.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// NormalizeUsername converts username to lowercase for storage
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
