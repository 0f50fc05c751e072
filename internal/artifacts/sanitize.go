package artifacts

import (
	"regexp"
	"strings"
)

// FallbackName replaces names that sanitize to nothing.
const FallbackName = "attempt"

var unsafeRunes = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)
var dashRuns = regexp.MustCompile(`-{2,}`)

// SanitizeName turns a free-form request name into a lowercase, file-name-safe
// token. Unsafe characters and whitespace become '-', runs of '-' collapse, and
// leading or trailing '-' and '.' are dropped.
func SanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = unsafeRunes.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return FallbackName
	}
	return s
}
