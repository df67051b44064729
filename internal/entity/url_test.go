package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURL_IsExpired(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u := URL{
		ShortCode: "abcd",
		CreatedAt: created,
		ExpiresAt: created.Add(30 * time.Minute),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at creation", created, false},
		{"before expiry", u.ExpiresAt.Add(-time.Nanosecond), false},
		{"exactly at expiry", u.ExpiresAt, false},
		{"one millisecond after expiry", u.ExpiresAt.Add(time.Millisecond), true},
		{"long after expiry", u.ExpiresAt.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.IsExpired(tt.now))
		})
	}
}

func TestClassifyLocation(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", LocationLocalhost},
		{"localhost", LocationLocalhost},
		{"::1", LocationLocalhost},
		{"8.8.8.8", LocationUnknown},
		{"unknown", LocationUnknown},
		{"", LocationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLocation(tt.ip))
		})
	}
}

func TestNewClickEvent(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		e := NewClickEvent("id-1", ts, Visit{})

		assert.Equal(t, "id-1", e.ID)
		assert.Equal(t, ts, e.Timestamp)
		assert.Equal(t, ReferrerDirect, e.Referrer)
		assert.Equal(t, UnknownUserAgent, e.UserAgent)
		assert.Equal(t, UnknownClientIP, e.ClientIP)
		assert.Equal(t, LocationUnknown, e.GeoHint)
	})

	t.Run("supplied values", func(t *testing.T) {
		e := NewClickEvent("id-2", ts, Visit{
			ClientIP:  "127.0.0.1",
			UserAgent: "curl/8.0",
			Referrer:  "https://news.example.com",
		})

		assert.Equal(t, "https://news.example.com", e.Referrer)
		assert.Equal(t, "curl/8.0", e.UserAgent)
		assert.Equal(t, "127.0.0.1", e.ClientIP)
		assert.Equal(t, LocationLocalhost, e.GeoHint)
	})
}

func TestStats_Clone(t *testing.T) {
	s := &Stats{
		TotalClicks: 1,
		ClickEvents: []ClickEvent{{ID: "a"}},
	}

	c := s.Clone()
	c.ClickEvents[0].ID = "b"
	c.ClickEvents = append(c.ClickEvents, ClickEvent{ID: "c"})

	assert.Equal(t, "a", s.ClickEvents[0].ID)
	assert.Len(t, s.ClickEvents, 1)
	assert.Equal(t, int64(1), c.TotalClicks)
}
