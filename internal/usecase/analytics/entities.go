package analytics

import (
	"time"

	domain "disclosure-intake/internal/domain/analytics"
)

// RecordInput is a funnel event reported by the form front-end.
type RecordInput struct {
	EventType        string
	SessionID        string
	Timestamp        time.Time // zero means server time
	ScreenResolution string
	Step             string
	DurationMS       int64
	Referrer         string
	Data             map[string]any
}

type EventDTO struct {
	EventType string        `json:"eventType"`
	SessionID string        `json:"sessionId"`
	Timestamp time.Time     `json:"timestamp"`
	Device    domain.Device `json:"device"`
}
