package utils

import (
	"regexp"
	"time"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// 24h clock. Both creation and update accept HH:MM; an optional
	// seconds suffix is tolerated so older dashboard payloads keep
	// working.
	timeRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)
)

// ValidateDate checks the YYYY-MM-DD shape of an appointment date.
func ValidateDate(date string) error {
	if !dateRe.MatchString(date) {
		return ErrInvalidDateFormat
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDateFormat
	}
	return nil
}

// ValidateTime checks the HH:MM shape of an appointment time.
func ValidateTime(hour string) error {
	if !timeRe.MatchString(hour) {
		return ErrInvalidTimeFormat
	}
	return nil
}

// IsPastDate reports whether the date falls strictly before today.
// Comparison is at day granularity; time of day is ignored.
func IsPastDate(date string) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}
