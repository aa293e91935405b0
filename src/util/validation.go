package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}._\-]+$`)

// userNamespace scopes synthetic user ids to this service.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://fire-server/users"))

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= 3 && n <= 30 && usernamePattern.MatchString(username)
}

func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= 4
}

// ValidateDisplayName allows an empty name; the username is shown instead.
func ValidateDisplayName(name string) bool {
	return utf8.RuneCountInString(name) <= 60
}

// SyntheticUserID derives a stable id from the username so the same user
// maps to the same stored data across instances.
func SyntheticUserID(username string) string {
	return uuid.NewSHA1(userNamespace, []byte(NormalizeUsername(username))).String()
}
