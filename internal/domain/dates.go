package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted by the lenient fallback parse, tried in order.
var fallbackLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate converts a DD/MM/YY or DD/MM/YYYY date string into a local
// calendar date at midnight. Two-digit years are interpreted as 2000+YY.
//
// Inputs with fewer than three slash-separated parts fall through to a
// lenient best-effort parse; when that also fails, ok is false and the
// caller must treat the date as unordered rather than fail. Out-of-range
// components (Feb 30 and the like) are normalized by rollover, matching
// the presentation layer's historical behavior; use ValidDate for the
// strict real-calendar check.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) < 3 {
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
			}
		}
		return time.Time{}, false
	}

	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

var (
	strictDatePattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	relaxedDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/(\d{2}|\d{4})$`)
)

// ValidDate reports whether s is a well-formed DD/MM/YY date naming a real
// calendar day under the 2000+YY convention. With allowFourDigitYears set,
// DD/MM/YYYY is admitted as well; the default strict form mirrors the
// manual-entry gate, which is deliberately narrower than ParseDate.
func ValidDate(s string, allowFourDigitYears bool) bool {
	pattern := strictDatePattern
	if allowFourDigitYears {
		pattern = relaxedDatePattern
	}
	if !pattern.MatchString(s) {
		return false
	}

	parts := strings.Split(s, "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	if year < 100 {
		year += 2000
	}

	// time.Date normalizes overflow, so a round-trip mismatch means the
	// components named a day that does not exist (Feb 30, month 13, ...).
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}
