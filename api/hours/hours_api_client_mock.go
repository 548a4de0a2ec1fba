package hours

import (
	"context"
	"time"

	"anchor-status/models/hours"
	"anchor-status/util"

	"github.com/rs/zerolog/log"
)

// HoursApiClientMock serves the business hours document from a JSON fixture
type HoursApiClientMock struct {
	path string
	now  func() time.Time
}

// NewHoursApiClientMock creates a new instance of HoursApiClientMock
func NewHoursApiClientMock(path string) *HoursApiClientMock {
	return &HoursApiClientMock{path: path, now: time.Now}
}

// GetBusinessHours reads the fixture on every call so it can be edited while running.
// The document is stamped with the read time, like a live upstream response.
func (c *HoursApiClientMock) GetBusinessHours(ctx context.Context) (*hours.HoursDocument, error) {
	doc, err := util.ReadHoursDocumentFromJSON(c.path)
	if err != nil {
		log.Error().Err(err).Str("path", c.path).Msg("[HoursApiClientMock] could not read business hours fixture")
		return nil, err
	}
	stamp := c.now().UTC().Format(time.RFC3339)
	doc.CurrentStatus.Timestamp = stamp
	doc.LastUpdated = stamp
	return doc, nil
}
