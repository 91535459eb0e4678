// Package phone normalizes raw phone strings into dialable Indian mobile
// numbers in the 91XXXXXXXXXX form expected by the WhatsApp API.
package phone

import "strings"

const (
	countryCodePrefix = "91"
	normalizedLength  = 12
	localLength       = 10
)

// Clean strips every non-digit character from raw, drops a single leading
// zero, and prepends the country code to bare 10-digit numbers. The second
// return value reports whether the result is a valid 12-digit number; the
// cleaned form is returned either way so callers can log rejected values.
func Clean(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if strings.HasPrefix(cleaned, "0") {
		cleaned = cleaned[1:]
	}

	if len(cleaned) == localLength {
		cleaned = countryCodePrefix + cleaned
	}

	if len(cleaned) != normalizedLength {
		return cleaned, false
	}

	return cleaned, true
}

// IsValid reports whether raw normalizes to a valid Indian mobile number.
func IsValid(raw string) bool {
	cleaned, ok := Clean(raw)
	return ok && strings.HasPrefix(cleaned, countryCodePrefix) && len(cleaned) == normalizedLength
}
