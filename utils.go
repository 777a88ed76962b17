package owguides

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCode canonicalizes a user-entered practice code: compatibility
// normalization collapses full-width digits/letters, then uppercase.
// Surrounding whitespace is trimmed; embedded whitespace is kept so that
// validation can reject it.
func NormalizeCode(code string) string {
	return strings.ToUpper(norm.NFKC.String(strings.TrimSpace(code)))
}

// IsValidCode reports whether a normalized practice code is 4-8 uppercase
// letters or digits with nothing else in between.
func IsValidCode(code string) bool {
	if len(code) < 4 || len(code) > 8 {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// IsValidDisplayName reports whether a profile display name is 3-20
// characters of ASCII letters, digits, underscore or hyphen.
func IsValidDisplayName(name string) bool {
	if len(name) < 3 || len(name) > 20 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// IsValidEmail is a light sanity check, not full RFC validation.
func IsValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
