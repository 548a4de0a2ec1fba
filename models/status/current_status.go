package status

import "time"

// State describes where a service (venue or kitchen) sits relative to its hours.
type State string

const (
	StateOpen          State = "open"
	StateOpensLater    State = "opens_later"
	StateOpensTomorrow State = "opens_tomorrow"
	StateClosed        State = "closed"
	StateNoService     State = "no_service"
)

// ServiceStatus is the evaluated state of the venue or the kitchen.
type ServiceStatus struct {
	Open     bool           `json:"open"`
	State    State          `json:"state"`
	ClosesIn *time.Duration `json:"-"`
	OpensIn  *time.Duration `json:"-"`
	OpensAt  string         `json:"opens_at,omitempty"`
	ClosesAt string         `json:"closes_at,omitempty"`
	Message  string         `json:"message"`
}

// CurrentStatus is recomputed on every evaluation and never stored.
type CurrentStatus struct {
	IsOpen      bool
	KitchenOpen bool
	ClosesIn    *time.Duration
	OpensIn     *time.Duration
	Venue       ServiceStatus
	Kitchen     ServiceStatus
	Timestamp   time.Time
}
