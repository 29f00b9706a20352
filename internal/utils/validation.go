package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ParseTimeRange parses an "HH:MM-HH:MM" range into start and end minutes
// of day. A start later than the end denotes an overnight window.
func ParseTimeRange(r string) (int, int, error) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return 0, 0, ValidationError{Field: "range", Message: "expected HH:MM-HH:MM"}
	}
	start, err := parseMinuteOfDay(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseMinuteOfDay(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseMinuteOfDay(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ValidationError{Field: "time", Message: "expected HH:MM"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, ValidationError{Field: "time", Message: "hour out of range"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, ValidationError{Field: "time", Message: "minute out of range"}
	}
	return hour*60 + minute, nil
}

// ValidateTimeRanges checks a list of "HH:MM-HH:MM" ranges
func ValidateTimeRanges(ranges []string) error {
	for _, r := range ranges {
		if _, _, err := ParseTimeRange(r); err != nil {
			return fmt.Errorf("invalid time range %q: %w", r, err)
		}
	}
	return nil
}
