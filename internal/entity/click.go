package entity

import "time"

const (
	ReferrerDirect   = "direct"
	UnknownUserAgent = "unknown"
	UnknownClientIP  = "unknown"

	LocationLocalhost = "Localhost"
	LocationUnknown   = "Unknown Location"
)

// Visit holds what the caller knows about a redirect request.
type Visit struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ClickEvent is a single recorded access to a short URL.
type ClickEvent struct {
	ID        string
	Timestamp time.Time
	Referrer  string
	UserAgent string
	ClientIP  string
	GeoHint   string
}

// NewClickEvent builds the event recorded for v at ts, filling in defaults
// for missing fields.
func NewClickEvent(id string, ts time.Time, v Visit) ClickEvent {
	e := ClickEvent{
		ID:        id,
		Timestamp: ts,
		Referrer:  v.Referrer,
		UserAgent: v.UserAgent,
		ClientIP:  v.ClientIP,
	}

	if e.Referrer == "" {
		e.Referrer = ReferrerDirect
	}
	if e.UserAgent == "" {
		e.UserAgent = UnknownUserAgent
	}
	if e.ClientIP == "" {
		e.ClientIP = UnknownClientIP
	}
	e.GeoHint = ClassifyLocation(e.ClientIP)

	return e
}

// ClassifyLocation returns a coarse location for ip. Only loopback
// addresses are recognized.
func ClassifyLocation(ip string) string {
	switch ip {
	case "127.0.0.1", "::1", "localhost":
		return LocationLocalhost
	default:
		return LocationUnknown
	}
}

// Stats is the click history of a short URL.
type Stats struct {
	TotalClicks int64
	ClickEvents []ClickEvent
}

// Clone returns a deep copy of s.
func (s *Stats) Clone() *Stats {
	events := make([]ClickEvent, len(s.ClickEvents))
	copy(events, s.ClickEvents)

	return &Stats{
		TotalClicks: s.TotalClicks,
		ClickEvents: events,
	}
}

// StatsSnapshot is a point-in-time report of a short URL and its clicks.
// It does not follow later changes to the underlying stats.
type StatsSnapshot struct {
	ShortCode   string
	OriginalURL string
	TotalClicks int64
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ClickEvents []ClickEvent
	IsExpired   bool
}
