package analytics

import (
	"time"
)

const (
	EventPageView               = "pageView"
	EventStepCompleted          = "stepCompleted"
	EventFormSubmission         = "formSubmission"
	EventFormSubmissionSuccess  = "formSubmissionSuccess"
	EventFormSubmissionError    = "formSubmissionError"
	EventSubmissionStatusUpdate = "submissionStatusUpdate"
	EventNationalIDValidation   = "nationalIdValidation"
	EventVerificationAttempt    = "verificationAttempt"
)

type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
	DeviceBot     Device = "bot"
	DeviceUnknown Device = "unknown"
)

// Table: analytics_events
type Event struct {
	ID               uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EventType        string         `gorm:"column:event_type;size:64;not null;index:idx_events_type_time" json:"eventType"`
	SessionID        string         `gorm:"column:session_id;size:128;not null;index:idx_events_session_id" json:"sessionId"`
	Timestamp        time.Time      `gorm:"column:timestamp;not null;index:idx_events_type_time" json:"timestamp"`
	UserAgent        string         `gorm:"column:user_agent;type:text" json:"userAgent,omitempty"`
	Device           Device         `gorm:"column:device;size:16" json:"device,omitempty"`
	ScreenResolution string         `gorm:"column:screen_resolution;size:32" json:"screenResolution,omitempty"`
	Step             string         `gorm:"column:step;size:64" json:"step,omitempty"`
	DurationMS       int64          `gorm:"column:duration_ms" json:"durationMs,omitempty"`
	Referrer         string         `gorm:"column:referrer;type:text" json:"referrer,omitempty"`
	IPAddress        string         `gorm:"column:ip_address;size:64" json:"ipAddress,omitempty"`
	Data             map[string]any `gorm:"column:data;type:text;serializer:json" json:"data,omitempty"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Event) TableName() string { return "analytics_events" }
