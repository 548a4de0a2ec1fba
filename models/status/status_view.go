package status

import (
	"time"

	"anchor-status/models/hours"
)

const (
	ErrorCodeUpstreamUnavailable = "upstream_unavailable"
	ErrorCodeRateLimited         = "rate_limited"
)

// ServiceView is the display form of a ServiceStatus.
type ServiceView struct {
	Open            bool   `json:"open"`
	State           State  `json:"state"`
	Message         string `json:"message"`
	ClosesIn        string `json:"closes_in,omitempty"`
	ClosesInMinutes *int   `json:"closes_in_minutes,omitempty"`
	OpensIn         string `json:"opens_in,omitempty"`
	OpensInMinutes  *int   `json:"opens_in_minutes,omitempty"`
	OpensAt         string `json:"opens_at,omitempty"`
	ClosesAt        string `json:"closes_at,omitempty"`
}

// StatusView is the flat, display-ready shape served to the presentation layer.
type StatusView struct {
	IsOpen             bool           `json:"is_open"`
	KitchenOpen        bool           `json:"kitchen_open"`
	ClosesIn           string         `json:"closes_in,omitempty"`
	OpensIn            string         `json:"opens_in,omitempty"`
	NextBoundaryAt     time.Time      `json:"next_boundary_at"`
	NextBoundaryReason BoundaryReason `json:"next_boundary_reason"`
	LastUpdate         *time.Time     `json:"last_update,omitempty"`
	LastUpdateRelative string         `json:"last_update_relative,omitempty"`
	IsStale            bool           `json:"is_stale"`
	Error              string         `json:"error,omitempty"`

	Venue     ServiceView    `json:"venue"`
	Kitchen   ServiceView    `json:"kitchen"`
	Special   bool           `json:"special_hours"`
	Note      string         `json:"note,omitempty"`
	Upstream  hours.Advisory `json:"upstream"`
	Corrected bool           `json:"corrected"`
	Timestamp time.Time      `json:"timestamp"`
}
