package validator

import (
	"regexp"
)

// codeRegex is the pattern a path segment must match to be considered a
// short code at resolution time. Creation deliberately does not enforce
// it for caller-supplied codes; see the legacy /r/ route.
var codeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{2,32}$`)

// ValidCode reports whether a path segment looks like a short code.
func ValidCode(code string) bool {
	return codeRegex.MatchString(code)
}
