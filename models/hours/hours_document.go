package hours

// HoursDocument is the business hours payload returned by the management API.
type HoursDocument struct {
	RegularHours  map[string]DaySchedule `json:"regularHours"`
	SpecialHours  []SpecialDayOverride   `json:"specialHours"`
	CurrentStatus UpstreamCurrentStatus  `json:"currentStatus"`
	Timezone      string                 `json:"timezone,omitempty"`
	LastUpdated   string                 `json:"lastUpdated,omitempty"`
}

// UpstreamCurrentStatus is the status block computed by the management API.
// Its flags are known to be wrong around BST and are never used for decisions.
type UpstreamCurrentStatus struct {
	IsOpen      bool    `json:"isOpen"`
	KitchenOpen bool    `json:"kitchenOpen"`
	ClosesIn    *string `json:"closesIn"`
	OpensIn     *string `json:"opensIn"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// UpstreamStatus tags an open/closed flag reported by upstream as untrusted.
type UpstreamStatus struct {
	Reported bool `json:"reported"`
	Trusted  bool `json:"trusted"`
}

// Advisory is what upstream claimed about the venue and kitchen.
type Advisory struct {
	Venue   UpstreamStatus `json:"venue"`
	Kitchen UpstreamStatus `json:"kitchen"`
}

// Advisory returns the upstream flags wrapped as untrusted values.
func (d *HoursDocument) Advisory() Advisory {
	return Advisory{
		Venue:   UpstreamStatus{Reported: d.CurrentStatus.IsOpen, Trusted: false},
		Kitchen: UpstreamStatus{Reported: d.CurrentStatus.KitchenOpen, Trusted: false},
	}
}

// UpdatedAt returns the upstream timestamp for this document, preferring the
// status timestamp over lastUpdated.
func (d *HoursDocument) UpdatedAt() string {
	if d.CurrentStatus.Timestamp != "" {
		return d.CurrentStatus.Timestamp
	}
	return d.LastUpdated
}
