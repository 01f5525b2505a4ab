package logger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const redacted = "xxxxx"

// kvPassword matches password=... in key/value connection strings,
// including single-quoted values.
var kvPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// RedactURL masks credentials in a database connection string so it can be
// logged. Both URL and key/value forms are handled.
func RedactURL(raw string) string {
	if raw == "" {
		return "<empty>"
	}

	if !strings.Contains(raw, "://") {
		return kvPassword.ReplaceAllString(raw, "${1}"+redacted)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return SanitizeText(raw)
	}

	q := u.Query()
	if q.Has("password") {
		q.Set("password", redacted)
		u.RawQuery = q.Encode()
	}

	return u.Redacted()
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	// For short text, show only the length
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	// For longer text, show prefix and length
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
