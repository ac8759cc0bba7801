package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// MaxAppNameLength is the maximum application name length in runes.
const MaxAppNameLength = 255

// Settings holds the values interpolated into the welcome page.
type Settings struct {
	AppName   string
	Locale    string
	UpdatedAt time.Time
}

// LangTag returns the locale as an HTML language tag: every underscore
// becomes a hyphen, nothing else changes.
func LangTag(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}

// Validate checks that the settings can be persisted.
// An empty locale or name is valid and means "use the default".
func (s Settings) Validate() error {
	if utf8.RuneCountInString(s.AppName) > MaxAppNameLength {
		return fmt.Errorf("%w: %d runes, max %d", ErrAppNameTooLong, utf8.RuneCountInString(s.AppName), MaxAppNameLength)
	}

	if s.Locale != "" {
		if _, err := language.Parse(LangTag(s.Locale)); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidLocale, s.Locale, err)
		}
	}

	return nil
}

// Merge returns s with every non-empty field of override applied on top.
func (s Settings) Merge(override Settings) Settings {
	merged := s
	if strings.TrimSpace(override.AppName) != "" {
		merged.AppName = override.AppName
	}
	if strings.TrimSpace(override.Locale) != "" {
		merged.Locale = override.Locale
	}
	if !override.UpdatedAt.IsZero() {
		merged.UpdatedAt = override.UpdatedAt
	}
	return merged
}
