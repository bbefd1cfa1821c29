package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

func ValidateNonEmptyString(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

func ValidateEntryID(id string) error {
	if err := ValidateNonEmptyString("entry ID", id); err != nil {
		return err
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("entry ID must not contain whitespace, got %q", id)
	}
	return nil
}

func ValidateEntryTitle(title string) error {
	if err := ValidateNonEmptyString("title", title); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters, got %d", MaxTitleLength, n)
	}
	return nil
}

func ValidateEntryDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters, got %d", MaxDescriptionLength, n)
	}
	return nil
}

// ValidateSourceLocation accepts an http(s) URL, a file:// URL or a plain path.
func ValidateSourceLocation(location string) error {
	if err := ValidateNonEmptyString("source location", location); err != nil {
		return err
	}
	if !strings.Contains(location, "://") {
		return nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("invalid source location %q: %w", location, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("invalid source location %q: missing host", location)
		}
	case "file":
	default:
		return fmt.Errorf("invalid source location scheme: %s (must be one of: http, https, file)", u.Scheme)
	}
	return nil
}

func ValidateStrategy(strategy string) error {
	validStrategies := map[string]bool{
		"cached": true,
		"remote": true,
	}
	if !validStrategies[strategy] {
		return fmt.Errorf("invalid store strategy: %s (must be one of: cached, remote)", strategy)
	}
	return nil
}

func ValidateLocale(locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("invalid locale: %s", locale)
	}
	return nil
}

func ValidateExportFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"csv":  true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid export format: %s (must be one of: json, csv)", format)
	}
	return nil
}
