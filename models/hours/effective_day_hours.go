package hours

// EffectiveDayHours is the merged schedule that governs one concrete date.
type EffectiveDayHours struct {
	Date            string        `json:"date"`
	Weekday         string        `json:"weekday"`
	VenueOpen       string        `json:"venue_open,omitempty"`
	VenueClose      string        `json:"venue_close,omitempty"`
	IsVenueClosed   bool          `json:"is_venue_closed"`
	Kitchen         *KitchenHours `json:"kitchen"`
	IsKitchenClosed bool          `json:"is_kitchen_closed"`
	IsSpecial       bool          `json:"is_special"`
	Note            string        `json:"note,omitempty"`
}

// HasKitchenService reports whether the day has kitchen hours at all.
func (e EffectiveDayHours) HasKitchenService() bool {
	return e.Kitchen.HasHours()
}
