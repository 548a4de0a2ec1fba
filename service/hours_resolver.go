package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"anchor-status/models/hours"
	"anchor-status/util"
)

// ErrInvalidDate is returned when a calendar date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the ISO calendar date format used for special hours.
const DateLayout = "2006-01-02"

// HoursResolver merges the weekly schedule with date-specific overrides.
// Weekdays are always computed in the venue location.
type HoursResolver struct {
	loc *time.Location
}

// NewHoursResolver creates a resolver bound to the venue timezone.
func NewHoursResolver(loc *time.Location) *HoursResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &HoursResolver{loc: loc}
}

// Location returns the venue timezone.
func (r *HoursResolver) Location() *time.Location {
	return r.loc
}

// Resolve returns the effective hours for date (YYYY-MM-DD).
//
// A malformed time closes the affected service and is reported in the returned
// error together with the fail-closed record, so callers can log it and still
// present something safe.
func (r *HoursResolver) Resolve(
	date string,
	regular map[string]hours.DaySchedule,
	specials []hours.SpecialDayOverride,
) (hours.EffectiveDayHours, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), r.loc)
	if err != nil {
		return hours.EffectiveDayHours{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	weekday := strings.ToLower(day.Weekday().String())
	base, ok := regular[weekday]
	if !ok {
		base = hours.DaySchedule{IsClosed: true}
	}

	eff := hours.EffectiveDayHours{
		Date:    day.Format(DateLayout),
		Weekday: weekday,
	}

	if special := findSpecial(specials, eff.Date); special != nil {
		applySpecial(&eff, base, *special)
	} else {
		eff.VenueOpen = base.Opens
		eff.VenueClose = base.Closes
		eff.IsVenueClosed = base.IsClosed
		eff.Kitchen = base.Kitchen
		eff.IsKitchenClosed = IsKitchenClosed(base.IsKitchenClosed, base.Kitchen)
	}

	return validateEffective(eff)
}

// ResolveDay resolves the civil date offsetDays after now's date in the venue location.
func (r *HoursResolver) ResolveDay(
	now time.Time,
	offsetDays int,
	regular map[string]hours.DaySchedule,
	specials []hours.SpecialDayOverride,
) (hours.EffectiveDayHours, error) {
	local := now.In(r.loc)
	// anchor at noon so a DST shift can never move the date
	day := time.Date(local.Year(), local.Month(), local.Day()+offsetDays, 12, 0, 0, 0, r.loc)
	return r.Resolve(day.Format(DateLayout), regular, specials)
}

// ResolveToday and ResolveTomorrow resolve the days the evaluator needs for now.
func (r *HoursResolver) ResolveToday(now time.Time, doc *hours.HoursDocument) (hours.EffectiveDayHours, error) {
	return r.ResolveDay(now, 0, doc.RegularHours, doc.SpecialHours)
}

func (r *HoursResolver) ResolveTomorrow(now time.Time, doc *hours.HoursDocument) (hours.EffectiveDayHours, error) {
	return r.ResolveDay(now, 1, doc.RegularHours, doc.SpecialHours)
}

// IsKitchenClosed is the single rule for kitchen closure: an explicit flag wins,
// then a missing kitchen entry means closed, then the explicit closed marker.
func IsKitchenClosed(flag *bool, kitchen *hours.KitchenHours) bool {
	if flag != nil {
		return *flag
	}
	if kitchen == nil {
		return true
	}
	return kitchen.IsClosed
}

func findSpecial(specials []hours.SpecialDayOverride, date string) *hours.SpecialDayOverride {
	for i := range specials {
		if strings.TrimSpace(specials[i].Date) == date {
			return &specials[i]
		}
	}
	return nil
}

func applySpecial(eff *hours.EffectiveDayHours, base hours.DaySchedule, special hours.SpecialDayOverride) {
	eff.IsSpecial = true
	eff.Note = special.Note
	if eff.Note == "" {
		eff.Note = special.Reason
	}

	eff.VenueOpen = base.Opens
	if special.Opens != "" {
		eff.VenueOpen = special.Opens
	}
	eff.VenueClose = base.Closes
	if special.Closes != "" {
		eff.VenueClose = special.Closes
	}

	switch {
	case special.Status == hours.SpecialStatusClosed:
		eff.IsVenueClosed = true
	case special.IsClosed != nil:
		eff.IsVenueClosed = *special.IsClosed
	default:
		eff.IsVenueClosed = base.IsClosed
	}

	// kitchen hours are never inherited from the weekday on a special day, but a
	// weekday without kitchen service stays without it unless the special says so
	eff.Kitchen = special.Kitchen
	eff.IsKitchenClosed = IsKitchenClosed(special.IsKitchenClosed, special.Kitchen)
	if special.IsKitchenClosed == nil && base.IsKitchenClosed != nil && *base.IsKitchenClosed {
		eff.IsKitchenClosed = true
	}
}

func validateEffective(eff hours.EffectiveDayHours) (hours.EffectiveDayHours, error) {
	if eff.IsVenueClosed {
		eff.VenueOpen, eff.VenueClose = "", ""
		eff.Kitchen = nil
		eff.IsKitchenClosed = true
		return eff, nil
	}

	var errs []error
	if eff.VenueOpen == "" || eff.VenueClose == "" {
		eff.IsVenueClosed = true
	} else if err := validatePair(eff.VenueOpen, eff.VenueClose); err != nil {
		eff.IsVenueClosed = true
		errs = append(errs, fmt.Errorf("venue hours on %s: %w", eff.Date, err))
	}

	if eff.Kitchen.HasHours() {
		if err := validatePair(eff.Kitchen.Opens, eff.Kitchen.Closes); err != nil {
			eff.Kitchen = nil
			eff.IsKitchenClosed = true
			errs = append(errs, fmt.Errorf("kitchen hours on %s: %w", eff.Date, err))
		}
	}

	if eff.IsVenueClosed {
		eff.VenueOpen, eff.VenueClose = "", ""
	}
	return eff, errors.Join(errs...)
}

func validatePair(open, close string) error {
	if _, _, err := util.ParseTime(open); err != nil {
		return err
	}
	if _, _, err := util.ParseTime(close); err != nil {
		return err
	}
	return nil
}
