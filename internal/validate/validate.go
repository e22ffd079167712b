// Package validate holds the credential shape checks applied before any
// account is created.
package validate

import (
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted, counted in runes.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s\v@]+@[^\s\v@]+\.[^\s\v@]+$`)

// Email reports whether s looks like local@domain.tld with no whitespace
// in any part. RE2's \s omits \v, so the pattern lists it separately.
// No DNS or deliverability checks are made.
func Email(s string) bool {
	if !isASCII(s) {
		return false
	}
	return emailPattern.MatchString(s)
}

// Password reports whether s is long enough to be accepted.
func Password(s string) bool {
	return s != "" && utf8.RuneCountInString(s) >= MinPasswordLength
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
