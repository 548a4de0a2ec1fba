package services

import (
	"errors"
	"testing"
	"time"

	"anchor-status/models/hours"
	"anchor-status/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursResolver_Resolve_RegularDay(t *testing.T) {
	resolver := NewHoursResolver(london)

	eff, err := resolver.Resolve("2025-03-04", weeklyHours(), nil)

	require.NoError(t, err)
	assert.Equal(t, "tuesday", eff.Weekday)
	assert.Equal(t, "16:00:00", eff.VenueOpen)
	assert.Equal(t, "23:00:00", eff.VenueClose)
	assert.False(t, eff.IsVenueClosed)
	assert.False(t, eff.IsKitchenClosed)
	assert.True(t, eff.HasKitchenService())
	assert.False(t, eff.IsSpecial)
}

func TestHoursResolver_Resolve_KitchenFlagOnWeekday(t *testing.T) {
	resolver := NewHoursResolver(london)

	eff, err := resolver.Resolve("2025-03-03", weeklyHours(), nil)

	require.NoError(t, err)
	assert.Equal(t, "monday", eff.Weekday)
	assert.False(t, eff.IsVenueClosed)
	assert.True(t, eff.IsKitchenClosed)
	assert.False(t, eff.HasKitchenService())
}

func TestHoursResolver_Resolve_SpecialClosedWinsOverWeekday(t *testing.T) {
	resolver := NewHoursResolver(london)
	specials := []hours.SpecialDayOverride{{Date: "2025-03-04", Status: hours.SpecialStatusClosed}}

	eff, err := resolver.Resolve("2025-03-04", weeklyHours(), specials)

	require.NoError(t, err)
	assert.True(t, eff.IsVenueClosed)
	assert.True(t, eff.IsKitchenClosed)
	assert.True(t, eff.IsSpecial)
	assert.Empty(t, eff.VenueOpen)
	assert.Nil(t, eff.Kitchen)
}

func TestHoursResolver_Resolve_SpecialWithoutKitchenClosesKitchen(t *testing.T) {
	resolver := NewHoursResolver(london)

	// 2025-12-24 is a Wednesday, which has kitchen service normally
	eff, err := resolver.Resolve("2025-12-24", weeklyHours(), specialHours())

	require.NoError(t, err)
	assert.Equal(t, "wednesday", eff.Weekday)
	assert.False(t, eff.IsVenueClosed)
	assert.Equal(t, "12:00:00", eff.VenueOpen)
	assert.Equal(t, "18:00:00", eff.VenueClose)
	assert.True(t, eff.IsKitchenClosed)
	assert.Nil(t, eff.Kitchen)
	assert.Equal(t, "Christmas Eve, drinks only", eff.Note)
}

func TestHoursResolver_Resolve_SpecialKeepsWeekdayKitchenClosure(t *testing.T) {
	resolver := NewHoursResolver(london)
	specials := []hours.SpecialDayOverride{
		{Date: "2025-12-22", Status: hours.SpecialStatusModified, Opens: "12:00:00", Closes: "23:00:00", Kitchen: kitchen("13:00:00", "20:00:00")},
		{Date: "2025-12-29", Status: hours.SpecialStatusModified, Kitchen: kitchen("13:00:00", "20:00:00"), IsKitchenClosed: boolPtr(false)},
	}

	// Mondays have no kitchen service
	inherited, err := resolver.Resolve("2025-12-22", weeklyHours(), specials)
	require.NoError(t, err)
	assert.Equal(t, "monday", inherited.Weekday)
	assert.True(t, inherited.IsKitchenClosed)

	explicit, err := resolver.Resolve("2025-12-29", weeklyHours(), specials)
	require.NoError(t, err)
	assert.False(t, explicit.IsKitchenClosed)
	assert.Equal(t, "13:00:00", explicit.Kitchen.Opens)
}

func TestHoursResolver_Resolve_SpecialFallsBackToWeekdayVenueHours(t *testing.T) {
	resolver := NewHoursResolver(london)
	specials := []hours.SpecialDayOverride{{
		Date:    "2025-03-04",
		Status:  hours.SpecialStatusModified,
		Closes:  "20:00:00",
		Kitchen: kitchen("17:00:00", "19:00:00"),
		Reason:  "Quiz night",
	}}

	eff, err := resolver.Resolve("2025-03-04", weeklyHours(), specials)

	require.NoError(t, err)
	assert.Equal(t, "16:00:00", eff.VenueOpen)
	assert.Equal(t, "20:00:00", eff.VenueClose)
	assert.False(t, eff.IsKitchenClosed)
	assert.Equal(t, "17:00:00", eff.Kitchen.Opens)
	assert.Equal(t, "Quiz night", eff.Note)
}

func TestHoursResolver_Resolve_SpecialIsClosedFlag(t *testing.T) {
	resolver := NewHoursResolver(london)
	specials := []hours.SpecialDayOverride{{Date: "2025-03-04", IsClosed: boolPtr(true)}}

	eff, err := resolver.Resolve("2025-03-04", weeklyHours(), specials)

	require.NoError(t, err)
	assert.True(t, eff.IsVenueClosed)
}

func TestHoursResolver_Resolve_MissingWeekdayIsClosed(t *testing.T) {
	resolver := NewHoursResolver(london)
	regular := weeklyHours()
	delete(regular, "tuesday")

	eff, err := resolver.Resolve("2025-03-04", regular, nil)

	require.NoError(t, err)
	assert.True(t, eff.IsVenueClosed)
	assert.True(t, eff.IsKitchenClosed)
}

func TestHoursResolver_Resolve_InvalidDate(t *testing.T) {
	resolver := NewHoursResolver(london)

	for _, date := range []string{"", "2025-13-01", "04/03/2025", "tomorrow"} {
		_, err := resolver.Resolve(date, weeklyHours(), nil)
		assert.True(t, errors.Is(err, ErrInvalidDate), "date %q: got %v", date, err)
	}
}

func TestHoursResolver_Resolve_MalformedTimesFailClosed(t *testing.T) {
	resolver := NewHoursResolver(london)
	regular := map[string]hours.DaySchedule{
		"tuesday": {Opens: "25:00:00", Closes: "23:00:00", Kitchen: kitchen("18:00:00", "21:00:00")},
	}

	eff, err := resolver.Resolve("2025-03-04", regular, nil)

	assert.True(t, errors.Is(err, util.ErrMalformedTime))
	assert.True(t, eff.IsVenueClosed)
	assert.Empty(t, eff.VenueOpen)
}

func TestHoursResolver_Resolve_MalformedKitchenClosesOnlyKitchen(t *testing.T) {
	resolver := NewHoursResolver(london)
	regular := map[string]hours.DaySchedule{
		"tuesday": {Opens: "16:00:00", Closes: "23:00:00", Kitchen: kitchen("six", "21:00:00")},
	}

	eff, err := resolver.Resolve("2025-03-04", regular, nil)

	assert.True(t, errors.Is(err, util.ErrMalformedTime))
	assert.False(t, eff.IsVenueClosed)
	assert.True(t, eff.IsKitchenClosed)
	assert.Nil(t, eff.Kitchen)
}

func TestHoursResolver_ResolveDay_UsesVenueCalendar(t *testing.T) {
	resolver := NewHoursResolver(london)
	// 23:30 UTC on 30 June is 00:30 BST on 1 July
	now := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)

	today, err := resolver.ResolveDay(now, 0, weeklyHours(), nil)
	require.NoError(t, err)
	tomorrow, err := resolver.ResolveDay(now, 1, weeklyHours(), nil)
	require.NoError(t, err)

	assert.Equal(t, "2025-07-01", today.Date)
	assert.Equal(t, "tuesday", today.Weekday)
	assert.Equal(t, "2025-07-02", tomorrow.Date)
}

func TestHoursResolver_ResolveTomorrow_AcrossDSTChange(t *testing.T) {
	resolver := NewHoursResolver(london)
	// clocks go forward at 01:00 UTC on 30 March 2025
	now := at(2025, time.March, 29, 23, 30)

	tomorrow, err := resolver.ResolveTomorrow(now, testDocument(""))

	require.NoError(t, err)
	assert.Equal(t, "2025-03-30", tomorrow.Date)
	assert.Equal(t, "sunday", tomorrow.Weekday)
}

func TestIsKitchenClosed(t *testing.T) {
	tests := []struct {
		name    string
		flag    *bool
		kitchen *hours.KitchenHours
		want    bool
	}{
		{"flag true wins over hours", boolPtr(true), kitchen("18:00", "21:00"), true},
		{"flag false wins over missing kitchen", boolPtr(false), nil, false},
		{"missing kitchen", nil, nil, true},
		{"explicit closed marker", nil, &hours.KitchenHours{IsClosed: true}, true},
		{"hours present", nil, kitchen("18:00", "21:00"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsKitchenClosed(test.flag, test.kitchen))
		})
	}
}
