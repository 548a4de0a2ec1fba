package services

import (
	"time"

	"anchor-status/models/hours"
	"anchor-status/models/status"
	"anchor-status/util"
)

// StatusEvaluator decides whether the venue and kitchen are open at an instant.
// All comparisons happen on the venue's civil clock, whatever zone now carries.
type StatusEvaluator struct {
	loc *time.Location
}

// NewStatusEvaluator creates an evaluator bound to the venue timezone.
func NewStatusEvaluator(loc *time.Location) *StatusEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &StatusEvaluator{loc: loc}
}

// Evaluate computes the current status from today's and tomorrow's effective hours.
// Without the previous day, the after-midnight part of today's own wrapping
// window counts as open.
func (e *StatusEvaluator) Evaluate(now time.Time, today, tomorrow hours.EffectiveDayHours) status.CurrentStatus {
	return e.evaluate(now, nil, today, tomorrow)
}

// EvaluateWithPrevious also considers the previous day. A window that crossed
// midnight keeps the venue (or kitchen) open until its close, and only the evening
// part of today's window counts for today.
// The top-level OpensIn is the venue opening while the venue is closed, and the
// kitchen opening while the venue is open.
func (e *StatusEvaluator) EvaluateWithPrevious(
	now time.Time,
	yesterday, today, tomorrow hours.EffectiveDayHours,
) status.CurrentStatus {
	return e.evaluate(now, &yesterday, today, tomorrow)
}

func (e *StatusEvaluator) evaluate(now time.Time, yesterday *hours.EffectiveDayHours, today, tomorrow hours.EffectiveDayHours) status.CurrentStatus {
	local := now.In(e.loc)
	current := util.DecimalHoursOf(local)

	venue := evaluateVenue(current, yesterday, today, tomorrow)
	kitchen := evaluateKitchen(current, yesterday, today, tomorrow)

	cs := status.CurrentStatus{
		IsOpen:      venue.Open,
		KitchenOpen: kitchen.Open,
		ClosesIn:    venue.ClosesIn,
		OpensIn:     venue.OpensIn,
		Venue:       venue,
		Kitchen:     kitchen,
		Timestamp:   local,
	}
	if venue.Open {
		cs.OpensIn = kitchen.OpensIn
	}
	return cs
}

func evaluateVenue(current float64, yesterday *hours.EffectiveDayHours, today, tomorrow hours.EffectiveDayHours) status.ServiceStatus {
	if yesterday != nil && !yesterday.IsVenueClosed {
		if st, ok := spilledWindow(current, yesterday.VenueOpen, yesterday.VenueClose); ok {
			return st
		}
	}
	if !today.IsVenueClosed {
		if st, ok := evaluateWindow(current, today.VenueOpen, today.VenueClose, yesterday != nil); ok {
			return st
		}
	}

	if !tomorrow.IsVenueClosed {
		if st, ok := opensTomorrow(current, tomorrow.VenueOpen); ok {
			return st
		}
	}
	return status.ServiceStatus{State: status.StateClosed, Message: "Closed"}
}

func evaluateKitchen(current float64, yesterday *hours.EffectiveDayHours, today, tomorrow hours.EffectiveDayHours) status.ServiceStatus {
	if yesterday != nil && !yesterday.IsKitchenClosed && yesterday.HasKitchenService() {
		if st, ok := spilledWindow(current, yesterday.Kitchen.Opens, yesterday.Kitchen.Closes); ok {
			return st
		}
	}

	kitchen := today.Kitchen
	hasHours := kitchen.HasHours()
	eveningOnly := yesterday != nil

	if !today.IsKitchenClosed && hasHours {
		if st, ok := evaluateWindow(current, kitchen.Opens, kitchen.Closes, eveningOnly); ok {
			return st
		}
	} else if hasHours {
		// flagged closed but hours still ahead today
		if st, ok := evaluateWindow(current, kitchen.Opens, kitchen.Closes, eveningOnly); ok && !st.Open {
			return st
		}
	}

	var next status.ServiceStatus
	nextOK := false
	if !tomorrow.IsKitchenClosed && tomorrow.Kitchen.HasHours() {
		next, nextOK = opensTomorrow(current, tomorrow.Kitchen.Opens)
	}

	if !hasHours {
		st := status.ServiceStatus{State: status.StateNoService, Message: "Closed today"}
		if nextOK {
			st.OpensIn = next.OpensIn
			st.OpensAt = next.OpensAt
			st.Message = "Closed today, opens tomorrow at " + next.OpensAt
		}
		return st
	}
	if nextOK {
		return next
	}
	return status.ServiceStatus{State: status.StateClosed, Message: "Closed"}
}

// evaluateWindow reports open, or opening later today. ok is false when the
// window has already finished for today or its times are unusable. With
// eveningOnly the after-midnight tail of a wrapping window is left to the
// previous day.
func evaluateWindow(current float64, openRaw, closeRaw string, eveningOnly bool) (status.ServiceStatus, bool) {
	open, err := util.ParseDecimalHours(openRaw)
	if err != nil {
		return status.ServiceStatus{}, false
	}
	close, err := util.ParseDecimalHours(closeRaw)
	if err != nil {
		return status.ServiceStatus{}, false
	}

	if util.IsTimeBetween(current, open, close) && !(eveningOnly && current < open) {
		return openUntil(current, close, closeRaw), true
	}

	if current < open {
		opensIn := util.MinutesToDuration(util.MinutesUntil(open, current))
		opensAt := label12Hour(openRaw)
		return status.ServiceStatus{
			State:   status.StateOpensLater,
			OpensIn: &opensIn,
			OpensAt: opensAt,
			Message: "Opens at " + opensAt,
		}, true
	}
	return status.ServiceStatus{}, false
}

// spilledWindow reports open when current falls in the after-midnight tail of a
// window that started the day before. A close at midnight never spills.
func spilledWindow(current float64, openRaw, closeRaw string) (status.ServiceStatus, bool) {
	if !spillsPastMidnight(current, openRaw, closeRaw) {
		return status.ServiceStatus{}, false
	}
	close, _ := util.ParseDecimalHours(closeRaw)
	return openUntil(current, close, closeRaw), true
}

func spillsPastMidnight(current float64, openRaw, closeRaw string) bool {
	open, err := util.ParseDecimalHours(openRaw)
	if err != nil {
		return false
	}
	close, err := util.ParseDecimalHours(closeRaw)
	if err != nil {
		return false
	}
	return close != 0 && close < open && current < close
}

func openUntil(current, close float64, closeRaw string) status.ServiceStatus {
	closesIn := util.MinutesToDuration(util.MinutesUntil(close, current))
	closesAt := label12Hour(closeRaw)
	return status.ServiceStatus{
		Open:     true,
		State:    status.StateOpen,
		ClosesIn: &closesIn,
		ClosesAt: closesAt,
		Message:  "Open until " + closesAt,
	}
}

func opensTomorrow(current float64, openRaw string) (status.ServiceStatus, bool) {
	if openRaw == "" {
		return status.ServiceStatus{}, false
	}
	open, err := util.ParseDecimalHours(openRaw)
	if err != nil {
		return status.ServiceStatus{}, false
	}
	opensIn := util.MinutesToDuration(util.MinutesUntilTomorrow(open, current))
	opensAt := label12Hour(openRaw)
	return status.ServiceStatus{
		State:   status.StateOpensTomorrow,
		OpensIn: &opensIn,
		OpensAt: opensAt,
		Message: "Opens tomorrow at " + opensAt,
	}, true
}

func label12Hour(raw string) string {
	s, err := util.FormatTime12HourString(raw)
	if err != nil {
		return util.FormatTimeNoSeconds(raw)
	}
	return s
}
