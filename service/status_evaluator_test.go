package services

import (
	"testing"
	"time"

	"anchor-status/models/hours"
	"anchor-status/models/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(open, close string, k *hours.KitchenHours) hours.EffectiveDayHours {
	return hours.EffectiveDayHours{
		VenueOpen:       open,
		VenueClose:      close,
		Kitchen:         k,
		IsKitchenClosed: k == nil,
	}
}

func closedDay() hours.EffectiveDayHours {
	return hours.EffectiveDayHours{IsVenueClosed: true, IsKitchenClosed: true}
}

func TestStatusEvaluator_NonWrappingWindow(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "23:00:00", nil)
	tomorrow := day("16:00:00", "23:00:00", nil)

	for minutes := 16*60 + 1; minutes < 23*60; minutes += 37 {
		now := at(2025, time.March, 4, minutes/60, minutes%60)
		assert.True(t, evaluator.Evaluate(now, today, tomorrow).IsOpen, "expected open at %s", now.Format("15:04"))
	}

	assert.True(t, evaluator.Evaluate(at(2025, time.March, 4, 16, 0), today, tomorrow).IsOpen)
	assert.False(t, evaluator.Evaluate(at(2025, time.March, 4, 23, 0), today, tomorrow).IsOpen)
}

func TestStatusEvaluator_MidnightCrossingWindow(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("20:00:00", "01:00:00", nil)
	tomorrow := day("20:00:00", "01:00:00", nil)

	tests := []struct {
		hour, minute int
		open         bool
	}{
		{23, 30, true},
		{0, 30, true},
		{1, 0, false},
		{19, 59, false},
	}
	for _, test := range tests {
		cs := evaluator.Evaluate(at(2025, time.March, 4, test.hour, test.minute), today, tomorrow)
		assert.Equal(t, test.open, cs.IsOpen, "at %02d:%02d", test.hour, test.minute)
	}
}

func TestStatusEvaluator_TuesdayAfternoon(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "23:00:00", kitchen("18:00:00", "21:00:00"))
	tomorrow := day("16:00:00", "23:00:00", kitchen("18:00:00", "21:00:00"))

	cs := evaluator.Evaluate(at(2025, time.March, 4, 17, 0), today, tomorrow)

	assert.True(t, cs.IsOpen)
	assert.False(t, cs.KitchenOpen)
	require.NotNil(t, cs.ClosesIn)
	assert.Equal(t, 360*time.Minute, *cs.ClosesIn)
	require.NotNil(t, cs.OpensIn)
	assert.Equal(t, 60*time.Minute, *cs.OpensIn)
	assert.Equal(t, "Open until 11pm", cs.Venue.Message)
	assert.Equal(t, status.StateOpensLater, cs.Kitchen.State)
	assert.Equal(t, "Opens at 6pm", cs.Kitchen.Message)
}

func TestStatusEvaluator_ConvertsToVenueZone(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "23:00:00", nil)
	tomorrow := day("16:00:00", "23:00:00", nil)

	// 15:30 UTC is 16:30 BST; upstream's mistake is to compare in UTC
	cs := evaluator.Evaluate(time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC), today, tomorrow)

	assert.True(t, cs.IsOpen)
	assert.Equal(t, 16, cs.Timestamp.Hour())
}

func TestStatusEvaluator_VenueOpensLaterAndTomorrow(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "23:00:00", nil)
	tomorrow := day("12:00:00", "23:00:00", nil)

	later := evaluator.Evaluate(at(2025, time.March, 4, 14, 0), today, tomorrow)
	assert.Equal(t, status.StateOpensLater, later.Venue.State)
	assert.Equal(t, "Opens at 4pm", later.Venue.Message)
	require.NotNil(t, later.OpensIn)
	assert.Equal(t, 120*time.Minute, *later.OpensIn)

	tmrw := evaluator.Evaluate(at(2025, time.March, 4, 23, 30), today, tomorrow)
	assert.False(t, tmrw.IsOpen)
	assert.Equal(t, status.StateOpensTomorrow, tmrw.Venue.State)
	assert.Equal(t, "Opens tomorrow at 12pm", tmrw.Venue.Message)
	require.NotNil(t, tmrw.OpensIn)
	assert.Equal(t, 750*time.Minute, *tmrw.OpensIn)
}

func TestStatusEvaluator_ClosedTodayAndTomorrow(t *testing.T) {
	evaluator := NewStatusEvaluator(london)

	cs := evaluator.Evaluate(at(2025, time.December, 25, 12, 0), closedDay(), closedDay())

	assert.False(t, cs.IsOpen)
	assert.False(t, cs.KitchenOpen)
	assert.Equal(t, status.StateClosed, cs.Venue.State)
	assert.Equal(t, "Closed", cs.Venue.Message)
	assert.Nil(t, cs.OpensIn)
	assert.Equal(t, status.StateNoService, cs.Kitchen.State)
}

func TestStatusEvaluator_ClosesAtMidnight(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "00:00:00", nil)

	cs := evaluator.Evaluate(at(2025, time.March, 7, 22, 0), today, closedDay())

	assert.True(t, cs.IsOpen)
	require.NotNil(t, cs.ClosesIn)
	assert.Equal(t, 120*time.Minute, *cs.ClosesIn)
	assert.Equal(t, "Open until 12am", cs.Venue.Message)
}

func TestStatusEvaluator_KitchenWithoutServiceToday(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "22:00:00", nil)
	tomorrow := day("16:00:00", "23:00:00", kitchen("18:00:00", "21:00:00"))

	cs := evaluator.Evaluate(at(2025, time.March, 3, 17, 0), today, tomorrow)

	assert.True(t, cs.IsOpen)
	assert.False(t, cs.KitchenOpen)
	assert.Equal(t, status.StateNoService, cs.Kitchen.State)
	assert.Equal(t, "Closed today, opens tomorrow at 6pm", cs.Kitchen.Message)
	require.NotNil(t, cs.OpensIn)
	assert.Equal(t, 25*time.Hour, *cs.OpensIn)
}

func TestStatusEvaluator_KitchenFinishedForToday(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "23:00:00", kitchen("18:00:00", "21:00:00"))
	tomorrow := day("16:00:00", "23:00:00", kitchen("18:00:00", "21:00:00"))

	cs := evaluator.Evaluate(at(2025, time.March, 4, 21, 0), today, tomorrow)

	assert.True(t, cs.IsOpen)
	assert.False(t, cs.KitchenOpen)
	assert.Equal(t, status.StateOpensTomorrow, cs.Kitchen.State)
	assert.Equal(t, "Opens tomorrow at 6pm", cs.Kitchen.Message)
}

func TestStatusEvaluator_ZeroLengthWindowIsClosed(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	today := day("16:00:00", "16:00:00", nil)

	cs := evaluator.Evaluate(at(2025, time.March, 4, 16, 0), today, closedDay())

	assert.False(t, cs.IsOpen)
}

func TestStatusEvaluator_PreviousDayCarriesPastMidnight(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	saturday := day("12:00:00", "01:00:00", kitchen("22:00:00", "00:30:00"))
	sunday := day("12:00:00", "21:00:00", kitchen("12:00:00", "17:00:00"))
	monday := day("16:00:00", "22:00:00", nil)

	cs := evaluator.EvaluateWithPrevious(at(2025, time.March, 9, 0, 15), saturday, sunday, monday)

	assert.True(t, cs.IsOpen)
	assert.Equal(t, "Open until 1am", cs.Venue.Message)
	require.NotNil(t, cs.ClosesIn)
	assert.Equal(t, 45*time.Minute, *cs.ClosesIn)
	assert.True(t, cs.KitchenOpen)
	assert.Equal(t, "Open until 12:30am", cs.Kitchen.Message)

	after := evaluator.EvaluateWithPrevious(at(2025, time.March, 9, 1, 0), saturday, sunday, monday)
	assert.False(t, after.IsOpen)
	assert.False(t, after.KitchenOpen)
	assert.Equal(t, "Opens at 12pm", after.Venue.Message)
}

func TestStatusEvaluator_MorningTailBelongsToPreviousDay(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	friday := day("16:00:00", "00:00:00", nil)
	saturday := day("12:00:00", "01:00:00", nil)

	// Friday closed at midnight, so Saturday's late close does not apply at 00:30
	cs := evaluator.EvaluateWithPrevious(at(2025, time.March, 8, 0, 30), friday, saturday, closedDay())

	assert.False(t, cs.IsOpen)
	assert.Equal(t, status.StateOpensLater, cs.Venue.State)
	assert.Equal(t, "Opens at 12pm", cs.Venue.Message)
}

func TestStatusEvaluator_ClosedPreviousDayDoesNotCarry(t *testing.T) {
	evaluator := NewStatusEvaluator(london)
	sunday := day("12:00:00", "21:00:00", nil)

	cs := evaluator.EvaluateWithPrevious(at(2025, time.March, 9, 0, 30), closedDay(), sunday, closedDay())

	assert.False(t, cs.IsOpen)
}
