package services

import (
	"time"

	"anchor-status/models/hours"
	"anchor-status/models/status"
	"anchor-status/util"
)

// BoundaryClampMinimum is how far ahead the next boundary is pushed when the
// hours data would otherwise put it in the past, and the recheck delay when
// no transition is scheduled at all.
const BoundaryClampMinimum = 60 * time.Minute

// NextBoundaryCalculator finds the next instant at which venue or kitchen state flips.
type NextBoundaryCalculator struct {
	loc *time.Location
}

// NewNextBoundaryCalculator creates a calculator bound to the venue timezone.
func NewNextBoundaryCalculator(loc *time.Location) *NextBoundaryCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &NextBoundaryCalculator{loc: loc}
}

// Next returns the earliest upcoming boundary, always strictly after now.
// When venue and kitchen flip at the same instant the venue reason is reported.
func (c *NextBoundaryCalculator) Next(
	now time.Time,
	today, tomorrow hours.EffectiveDayHours,
	current status.CurrentStatus,
) status.NextBoundary {
	return c.next(now, nil, today, tomorrow, current)
}

// NextWithPrevious is Next for a status from StatusEvaluator.EvaluateWithPrevious:
// while the previous day's window is still running, its close is the boundary.
func (c *NextBoundaryCalculator) NextWithPrevious(
	now time.Time,
	yesterday, today, tomorrow hours.EffectiveDayHours,
	current status.CurrentStatus,
) status.NextBoundary {
	return c.next(now, &yesterday, today, tomorrow, current)
}

func (c *NextBoundaryCalculator) next(
	now time.Time,
	yesterday *hours.EffectiveDayHours,
	today, tomorrow hours.EffectiveDayHours,
	current status.CurrentStatus,
) status.NextBoundary {
	local := now.In(c.loc)
	todayDate := dateOrDefault(today.Date, local, 0)
	tomorrowDate := dateOrDefault(tomorrow.Date, local, 1)
	days := boundaryDays{
		yesterday:    yesterday,
		today:        today,
		tomorrow:     tomorrow,
		todayDate:    todayDate,
		tomorrowDate: tomorrowDate,
	}

	venueAt, venueReason, venueOK := c.venueCandidate(local, days, current.IsOpen)
	kitchenAt, kitchenReason, kitchenOK := c.kitchenCandidate(local, days, current.KitchenOpen)

	switch {
	case venueOK && (!kitchenOK || !kitchenAt.Before(venueAt)):
		return status.NextBoundary{At: venueAt, Reason: venueReason}
	case kitchenOK:
		return status.NextBoundary{At: kitchenAt, Reason: kitchenReason}
	}

	return status.NextBoundary{
		At:       local.Add(BoundaryClampMinimum),
		Reason:   status.ReasonVenueOpens,
		Fallback: true,
	}
}

type boundaryDays struct {
	yesterday               *hours.EffectiveDayHours
	today, tomorrow         hours.EffectiveDayHours
	todayDate, tomorrowDate string
}

func (c *NextBoundaryCalculator) venueCandidate(
	local time.Time,
	days boundaryDays,
	isOpen bool,
) (time.Time, status.BoundaryReason, bool) {
	today, tomorrow := days.today, days.tomorrow
	todayDate, tomorrowDate := days.todayDate, days.tomorrowDate
	current := util.DecimalHoursOf(local)

	if isOpen {
		var closeAt time.Time
		var ok bool
		if y := days.yesterday; y != nil && !y.IsVenueClosed && spillsPastMidnight(current, y.VenueOpen, y.VenueClose) {
			closeAt, ok = c.instantOn(todayDate, y.VenueClose)
		} else {
			closeAt, ok = c.closingInstant(local, todayDate, today.VenueOpen, today.VenueClose)
		}
		if !ok || !closeAt.After(local) {
			closeAt = local.Add(BoundaryClampMinimum)
		}
		return closeAt, status.ReasonVenueCloses, true
	}

	if !today.IsVenueClosed {
		if openAt, ok := c.instantOn(todayDate, today.VenueOpen); ok && openAt.After(local) {
			return openAt, status.ReasonVenueOpens, true
		}
	}
	if !tomorrow.IsVenueClosed {
		if openAt, ok := c.instantOn(tomorrowDate, tomorrow.VenueOpen); ok && openAt.After(local) {
			return openAt, status.ReasonVenueOpens, true
		}
	}
	return time.Time{}, "", false
}

func (c *NextBoundaryCalculator) kitchenCandidate(
	local time.Time,
	days boundaryDays,
	kitchenOpen bool,
) (time.Time, status.BoundaryReason, bool) {
	today, tomorrow := days.today, days.tomorrow
	todayDate, tomorrowDate := days.todayDate, days.tomorrowDate

	if y := days.yesterday; kitchenOpen && y != nil && !y.IsKitchenClosed && y.HasKitchenService() &&
		spillsPastMidnight(util.DecimalHoursOf(local), y.Kitchen.Opens, y.Kitchen.Closes) {
		closeAt, ok := c.instantOn(todayDate, y.Kitchen.Closes)
		if !ok || !closeAt.After(local) {
			closeAt = local.Add(BoundaryClampMinimum)
		}
		return closeAt, status.ReasonKitchenCloses, true
	}

	if !today.HasKitchenService() {
		return time.Time{}, "", false
	}
	kitchen := today.Kitchen

	if kitchenOpen {
		closeAt, ok := c.closingInstant(local, todayDate, kitchen.Opens, kitchen.Closes)
		if !ok || !closeAt.After(local) {
			closeAt = local.Add(BoundaryClampMinimum)
		}
		return closeAt, status.ReasonKitchenCloses, true
	}

	if openAt, ok := c.instantOn(todayDate, kitchen.Opens); ok && openAt.After(local) {
		return openAt, status.ReasonKitchenOpens, true
	}
	if !tomorrow.IsKitchenClosed && tomorrow.HasKitchenService() {
		if openAt, ok := c.instantOn(tomorrowDate, tomorrow.Kitchen.Opens); ok && openAt.After(local) {
			return openAt, status.ReasonKitchenOpens, true
		}
	}
	return time.Time{}, "", false
}

// closingInstant places a close time on today's date, or on the next day when the
// window crosses midnight and we are in its evening part.
func (c *NextBoundaryCalculator) closingInstant(local time.Time, date, openRaw, closeRaw string) (time.Time, bool) {
	closeAt, ok := c.instantOn(date, closeRaw)
	if !ok {
		return time.Time{}, false
	}
	open, err := util.ParseDecimalHours(openRaw)
	if err != nil {
		return closeAt, true
	}
	close, _ := util.ParseDecimalHours(closeRaw)
	if close < open && util.DecimalHoursOf(local) >= open {
		closeAt = closeAt.AddDate(0, 0, 1)
	}
	return closeAt, true
}

func (c *NextBoundaryCalculator) instantOn(date, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, err := util.ParseTime(raw)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc), true
}

func dateOrDefault(date string, local time.Time, offsetDays int) string {
	if date != "" {
		return date
	}
	return time.Date(local.Year(), local.Month(), local.Day()+offsetDays, 12, 0, 0, 0, local.Location()).Format(DateLayout)
}
