package hours

import (
	"context"

	"anchor-status/models/hours"
)

// HoursAPI defines the interface for reading business hours from the management API
type HoursAPI interface {
	GetBusinessHours(ctx context.Context) (*hours.HoursDocument, error)
}
