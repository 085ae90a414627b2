package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingOverlaps(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	b := &AmenityBookingItem{BookingStartDate: base, BookingEndDate: base.Add(2 * time.Hour)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"covering", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"tail overlap", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"touching end", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
		{"touching start", base.Add(-time.Hour), base, false},
		{"disjoint", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(tt.start, tt.end))
		})
	}
}

func TestSecurityTokenExpired(t *testing.T) {
	now := time.Now()
	tok := &SecurityToken{ExpiryDate: now.Add(time.Minute)}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(time.Minute)))
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent(EventPaymentScheduled, "p-1", map[string]any{"charge": 10.5})
	require.NoError(t, err)
	assert.Equal(t, OutboxPending, ev.Status)
	assert.Equal(t, "p-1", ev.AggregateID)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(ev.Payload), &body))
	assert.Equal(t, EventPaymentScheduled, body["event_type"])
	assert.Equal(t, 10.5, body["data"].(map[string]any)["charge"])
}
