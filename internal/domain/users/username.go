package users

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxUsernameLength matches the column width.
	MaxUsernameLength = 50

	maxUsernameBase = MaxUsernameLength - 5
)

var (
	nonUsername     = regexp.MustCompile(`[^a-z0-9_]+`)
	multiUnderscore = regexp.MustCompile(`_+`)
	validUsername   = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
)

// UsernameBase derives a username seed from the local part of an email.
// Example: "Jane.Doe+tips@example.com" -> "janedoetips"
func UsernameBase(email string) string {
	local := strings.ToLower(strings.TrimSpace(email))
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	base := nonUsername.ReplaceAllString(local, "")
	base = multiUnderscore.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")

	if base == "" {
		base = "user"
	}
	if len(base) > maxUsernameBase {
		base = base[:maxUsernameBase]
	}
	return base
}

// UsernameCandidate returns the base on the first attempt and base plus a
// four digit suffix afterwards.
func UsernameCandidate(base string, attempt int, suffix int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s%04d", base, suffix%10000)
}

func IsValidUsername(s string) bool {
	return validUsername.MatchString(s)
}
