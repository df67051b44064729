package entity

import "time"

// Event types emitted by the core.
const (
	EventURLCreated     = "URL_CREATED"
	EventURLRedirect    = "URL_REDIRECT"
	EventStatsAccessed  = "STATS_ACCESSED"
	EventExpiredEvicted = "EXPIRED_URLS_EVICTED"

	EventShortCodeExists   = "SHORTCODE_EXISTS"
	EventInvalidRequest    = "INVALID_REQUEST"
	EventShortCodeNotFound = "SHORTCODE_NOT_FOUND"
	EventURLExpired        = "URL_EXPIRED"
	EventStatsNotFound     = "STATS_NOT_FOUND"
	EventCreationFailed    = "URL_CREATION_FAILED"
	EventSweepFailed       = "EXPIRED_SWEEP_FAILED"
)

// Event is a structured record handed to the event sink.
type Event struct {
	Type string
	Time time.Time
	Data map[string]any
	Err  error
}
