package enums

import (
	"fmt"
	"strings"
)

// Locale selects one of the two display-label tables.
type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

var validLocales = []Locale{LocaleRU, LocaleEN}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Locale.
func (l Locale) IsValid() bool {
	for _, candidate := range validLocales {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocale converts raw input into a Locale.
func ParseLocale(value string) (Locale, error) {
	normalized := Locale(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid locale %q", value)
}
