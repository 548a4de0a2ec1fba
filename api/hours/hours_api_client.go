package hours

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anchor-status/api"
	"anchor-status/models/hours"
)

const BUSINESS_HOURS_ENDPOINT = "/business/hours"

// errInvalidDocument is reported when upstream answers with something that is not an hours document.
var errInvalidDocument = errors.New("invalid business hours data structure")

// envelope is the {success, data} wrapper some deployments put around the document.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// HoursApiClient embeds the common HTTPClient
type HoursApiClient struct {
	*api.HTTPClient // Embed HTTPClient to reuse its methods and properties
	apiKey          string
}

// NewHoursApiClient creates a new instance of HoursApiClient
func NewHoursApiClient(httpClient *api.HTTPClient, apiKey string) *HoursApiClient {
	return &HoursApiClient{
		HTTPClient: httpClient,
		apiKey:     apiKey,
	}
}

// GetBusinessHours fetches the weekly, special and upstream status blocks.
func (c *HoursApiClient) GetBusinessHours(ctx context.Context) (*hours.HoursDocument, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	var raw json.RawMessage
	if err := c.Request(ctx, "GET", BUSINESS_HOURS_ENDPOINT, headers, nil, &raw); err != nil {
		return nil, err
	}
	return decodeHoursDocument(raw)
}

func decodeHoursDocument(raw json.RawMessage) (*hours.HoursDocument, error) {
	payload := raw

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if !*env.Success {
			msg := "API request failed"
			if env.Error != nil && env.Error.Message != "" {
				msg = env.Error.Message
			}
			return nil, fmt.Errorf("%w: %s", api.ErrUpstreamUnavailable, msg)
		}
		payload = env.Data
	}

	var doc hours.HoursDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", api.ErrUpstreamUnavailable, err)
	}
	if doc.RegularHours == nil {
		return nil, fmt.Errorf("%w: %w", api.ErrUpstreamUnavailable, errInvalidDocument)
	}
	return &doc, nil
}
