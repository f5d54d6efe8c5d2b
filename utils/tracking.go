package utils

import (
	"strings"

	"github.com/google/uuid"
)

// TrackingPrefix starts every order tracking number.
const TrackingPrefix = "HPP-"

// NewTrackingNumber returns a shareable uppercase code like HPP-3F9A0C1B.
func NewTrackingNumber() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return TrackingPrefix + strings.ToUpper(id[:8])
}

// NormalizeTrackingNumber trims and uppercases user input so lookups are case-insensitive.
func NormalizeTrackingNumber(tn string) string {
	return strings.ToUpper(strings.TrimSpace(tn))
}
