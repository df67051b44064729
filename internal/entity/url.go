// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL, the click
// events recorded against it, and the error kinds returned by the core.
package entity

import (
	"time"
)

// DefaultValidityMinutes is how long a short URL stays live when the caller
// does not ask for a specific validity.
const DefaultValidityMinutes = 30

// URL represents a shortened URL.
type URL struct {
	ShortCode       string    // ShortCode is the unique key the URL is reachable under.
	OriginalURL     string    // OriginalURL is the normalized target, always carrying a scheme.
	ValidityMinutes int       // ValidityMinutes is the validity requested at creation.
	ClickCount      int64     // ClickCount is the number of recorded redirects.
	CreatedAt       time.Time // CreatedAt is the timestamp when the URL was created.
	ExpiresAt       time.Time // ExpiresAt is CreatedAt plus the validity.
}

// IsExpired reports whether the URL is no longer live at now.
// A request at exactly ExpiresAt is still served.
func (u *URL) IsExpired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// ShortenRequest carries the input of a URL creation.
type ShortenRequest struct {
	// TargetURL is the URL to shorten; a missing scheme defaults to https.
	TargetURL string
	// ValidityMinutes overrides the default validity when set.
	ValidityMinutes *int
	// ShortCode is an optional custom code. Empty means generate one.
	ShortCode string
}
