package util

import (
	"fmt"
	"time"

	"anchor-status/models/hours"
)

// FormatRelativeTime renders how long ago then was, e.g. "2 minutes ago".
// Anything a day or older is shown as a wall clock time in loc.
func FormatRelativeTime(then, now time.Time, loc *time.Location) string {
	seconds := int(now.Sub(then).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 120:
		return "1 minute ago"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 7200:
		return "1 hour ago"
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	}
	if loc == nil {
		loc = time.UTC
	}
	return then.In(loc).Format("15:04")
}

// FormatScheduledHours renders a resolved day as "4pm–11pm", optionally with
// " (Kitchen: 6pm–9pm)" when the kitchen serves that day.
func FormatScheduledHours(day hours.EffectiveDayHours, includeKitchen bool) string {
	if day.IsVenueClosed || day.VenueOpen == "" || day.VenueClose == "" {
		return "Closed"
	}
	venue := formatSpan(day.VenueOpen, day.VenueClose)
	if !includeKitchen || day.IsKitchenClosed || !day.HasKitchenService() {
		return venue
	}
	return venue + " (Kitchen: " + formatSpan(day.Kitchen.Opens, day.Kitchen.Closes) + ")"
}

func formatSpan(open, close string) string {
	return label(open) + "–" + label(close)
}

func label(raw string) string {
	s, err := FormatTime12HourString(raw)
	if err != nil {
		return FormatTimeNoSeconds(raw)
	}
	return s
}
