package models

import (
	"encoding/json"
	"time"
)

// TrackRequest is the JSON body accepted by POST /api/analytics.
// event_type and event_name are validated by hand in the handler so the
// error message can name both required fields at once.
type TrackRequest struct {
	EventType  string          `json:"event_type"`
	EventName  string          `json:"event_name"`
	Properties json.RawMessage `json:"properties,omitempty"`
	PageURL    *string         `json:"page_url,omitempty"`
}

// AnalyticsEvent represents a single analytics event as persisted.
// Nullable fields stay nil when the request carried no usable value;
// the row is written anyway.
type AnalyticsEvent struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	EventName  string          `json:"eventName"`
	SessionID  string          `json:"sessionId"`
	Timestamp  time.Time       `json:"timestamp"`
	PageURL    *string         `json:"pageUrl,omitempty"`
	Referrer   *string         `json:"referrer,omitempty"`
	UserAgent  *string         `json:"userAgent,omitempty"`
	IPAddress  *string         `json:"ipAddress,omitempty"`
	Browser    string          `json:"browser,omitempty"`
	OS         string          `json:"os,omitempty"`
	Device     string          `json:"device,omitempty"`
	Properties json.RawMessage `json:"properties"`
}

// TopPageResult is one row of the top-pages aggregate.
type TopPageResult struct {
	PageURL string `json:"pageUrl"`
	Count   uint64 `json:"count"`
}

// EventCountByTime is one bucket of the event-counts and sessions
// aggregates. EventType is set only when the query filtered by type.
type EventCountByTime struct {
	Time      time.Time `json:"time"`
	EventType *string   `json:"eventType,omitempty"`
	Count     uint64    `json:"count"`
}
