package status

import "time"

type BoundaryReason string

const (
	ReasonVenueOpens    BoundaryReason = "venue_opens"
	ReasonVenueCloses   BoundaryReason = "venue_closes"
	ReasonKitchenOpens  BoundaryReason = "kitchen_opens"
	ReasonKitchenCloses BoundaryReason = "kitchen_closes"
)

// NextBoundary is the nearest future instant at which venue or kitchen state flips.
// Fallback marks a "recheck later" instant used when no transition is scheduled.
type NextBoundary struct {
	At       time.Time      `json:"at"`
	Reason   BoundaryReason `json:"reason"`
	Fallback bool           `json:"fallback,omitempty"`
}
