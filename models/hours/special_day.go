package hours

const (
	SpecialStatusModified = "modified"
	SpecialStatusClosed   = "closed"
)

// SpecialDayOverride replaces the regular schedule for one calendar date.
// Venue fields it omits fall back to the weekday; a missing kitchen means closed.
type SpecialDayOverride struct {
	Date            string        `json:"date"`
	Opens           string        `json:"opens,omitempty"`
	Closes          string        `json:"closes,omitempty"`
	Kitchen         *KitchenHours `json:"kitchen"`
	Status          string        `json:"status,omitempty"`
	IsClosed        *bool         `json:"is_closed,omitempty"`
	IsKitchenClosed *bool         `json:"is_kitchen_closed,omitempty"`
	Note            string        `json:"note,omitempty"`
	Reason          string        `json:"reason,omitempty"`
}
