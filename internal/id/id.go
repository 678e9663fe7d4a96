package id

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewAnalysisID returns a random UUID for an analysis record.
func NewAnalysisID() string {
	return uuid.NewString()
}

// NewRequestID returns a time-sortable ULID for request correlation.
func NewRequestID() string {
	return ulid.Make().String()
}

// ValidAnalysisID reports whether s parses as a UUID.
func ValidAnalysisID(s string) bool {
	return uuid.Validate(s) == nil
}
