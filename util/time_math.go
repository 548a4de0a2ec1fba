package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime is returned when a time-of-day string cannot be parsed.
var ErrMalformedTime = errors.New("malformed time")

// ParseTime splits "HH:MM" or "HH:MM:SS" into hour and minute.
func ParseTime(s string) (hour int, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: invalid hour in %q", ErrMalformedTime, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: invalid minute in %q", ErrMalformedTime, s)
	}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, 0, fmt.Errorf("%w: invalid second in %q", ErrMalformedTime, s)
		}
	}
	return hour, minute, nil
}

// ToDecimalHours converts an hour and minute to decimal hours (14:30 -> 14.5).
func ToDecimalHours(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

// ParseDecimalHours parses a time-of-day string straight to decimal hours.
func ParseDecimalHours(s string) (float64, error) {
	hour, minute, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	return ToDecimalHours(hour, minute), nil
}

// DecimalHoursOf returns the wall clock of t, in t's location, as decimal hours.
func DecimalHoursOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// MinutesUntil returns the minutes from current until target, both in decimal hours.
// A target of 0 is midnight tonight; a target earlier than current is tomorrow.
// Every midnight-wrap computation goes through this function or MinutesUntilTomorrow.
func MinutesUntil(target, current float64) float64 {
	if target == 0 {
		return (24 - current) * 60
	}
	if target < current {
		return (24 - current + target) * 60
	}
	return (target - current) * 60
}

// MinutesUntilTomorrow returns the minutes from current until target on the next calendar day.
func MinutesUntilTomorrow(target, current float64) float64 {
	return (24 - current + target) * 60
}

// IsTimeBetween reports whether current falls in the half-open window [open, close).
// A close earlier than open means the window crosses midnight.
func IsTimeBetween(current, open, close float64) bool {
	if close < open {
		return current >= open || current < close
	}
	return current >= open && current < close
}

// Format12Hour renders "4pm" or "4:30pm".
func Format12Hour(hour, minute int) string {
	period := "am"
	if hour >= 12 {
		period = "pm"
	}
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}
	if minute == 0 {
		return fmt.Sprintf("%d%s", displayHour, period)
	}
	return fmt.Sprintf("%d:%02d%s", displayHour, minute, period)
}

// FormatTime12HourString parses s and renders it in 12-hour form.
func FormatTime12HourString(s string) (string, error) {
	hour, minute, err := ParseTime(s)
	if err != nil {
		return "", err
	}
	return Format12Hour(hour, minute), nil
}

// FormatTimeNoSeconds turns "16:00:00" into "16:00".
func FormatTimeNoSeconds(s string) string {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	return parts[0] + ":" + parts[1]
}

// FormatDuration renders "2h 30m", "2h" or "45m".
func FormatDuration(minutes float64) string {
	total := int(math.Round(minutes))
	if minutes > 60 {
		h, m := total/60, total%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", total)
}

// MinutesToDuration converts fractional minutes to a time.Duration truncated to the second.
func MinutesToDuration(minutes float64) time.Duration {
	return (time.Duration(minutes*float64(time.Minute)) / time.Second) * time.Second
}
