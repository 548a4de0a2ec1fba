package services

import (
	"time"

	"anchor-status/models/hours"
)

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func boolPtr(b bool) *bool {
	return &b
}

// at builds a London wall-clock instant.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, london)
}

func kitchen(opens, closes string) *hours.KitchenHours {
	return &hours.KitchenHours{Opens: opens, Closes: closes}
}

// weeklyHours mirrors resources/business_hours.json.
func weeklyHours() map[string]hours.DaySchedule {
	return map[string]hours.DaySchedule{
		"monday":    {Opens: "16:00:00", Closes: "22:00:00", IsKitchenClosed: boolPtr(true)},
		"tuesday":   {Opens: "16:00:00", Closes: "23:00:00", Kitchen: kitchen("18:00:00", "21:00:00")},
		"wednesday": {Opens: "16:00:00", Closes: "23:00:00", Kitchen: kitchen("18:00:00", "21:00:00")},
		"thursday":  {Opens: "16:00:00", Closes: "23:00:00", Kitchen: kitchen("18:00:00", "21:00:00")},
		"friday":    {Opens: "16:00:00", Closes: "00:00:00", Kitchen: kitchen("18:00:00", "21:00:00")},
		"saturday":  {Opens: "12:00:00", Closes: "01:00:00", Kitchen: kitchen("13:00:00", "21:00:00")},
		"sunday":    {Opens: "12:00:00", Closes: "21:00:00", Kitchen: kitchen("12:00:00", "17:00:00")},
	}
}

func specialHours() []hours.SpecialDayOverride {
	return []hours.SpecialDayOverride{
		{Date: "2025-12-25", Status: hours.SpecialStatusClosed, IsClosed: boolPtr(true), Reason: "Christmas Day"},
		{Date: "2025-12-24", Status: hours.SpecialStatusModified, Opens: "12:00:00", Closes: "18:00:00", Note: "Christmas Eve, drinks only"},
		{Date: "2025-12-31", Status: hours.SpecialStatusModified, Opens: "16:00:00", Closes: "02:00:00", Kitchen: kitchen("17:00:00", "20:00:00"), Note: "New Year's Eve"},
	}
}

func testDocument(timestamp string) *hours.HoursDocument {
	return &hours.HoursDocument{
		RegularHours: weeklyHours(),
		SpecialHours: specialHours(),
		CurrentStatus: hours.UpstreamCurrentStatus{
			Timestamp: timestamp,
		},
		Timezone: "Europe/London",
	}
}
