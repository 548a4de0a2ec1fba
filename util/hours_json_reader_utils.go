package util

import (
	"encoding/json"
	"fmt"
	"os"

	"anchor-status/models/hours"
)

// ReadHoursDocumentFromJSON loads a business hours document from JSON on disk.
func ReadHoursDocumentFromJSON(filePath string) (*hours.HoursDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var doc hours.HoursDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal HoursDocument: %w", err)
	}
	return &doc, nil
}
