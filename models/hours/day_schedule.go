package hours

// KitchenHours is the kitchen entry of a day: an open/close pair, or the explicit
// closed marker ({"is_closed": true}). A nil *KitchenHours means no kitchen entry.
type KitchenHours struct {
	Opens    string `json:"opens,omitempty"`
	Closes   string `json:"closes,omitempty"`
	IsClosed bool   `json:"is_closed,omitempty"`
}

// HasHours reports whether the kitchen entry carries an open/close pair.
func (k *KitchenHours) HasHours() bool {
	return k != nil && !k.IsClosed && k.Opens != "" && k.Closes != ""
}

// DaySchedule is one weekday's planned service in the regularHours table.
// Closes earlier than Opens means service runs past midnight.
type DaySchedule struct {
	Opens           string        `json:"opens,omitempty"`
	Closes          string        `json:"closes,omitempty"`
	Kitchen         *KitchenHours `json:"kitchen"`
	IsClosed        bool          `json:"is_closed"`
	IsKitchenClosed *bool         `json:"is_kitchen_closed,omitempty"`
}
