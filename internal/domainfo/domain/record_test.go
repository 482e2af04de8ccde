package domain

import (
	"testing"
	"time"
)

func TestRecord_EffectiveTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     int
		minimum int
		want    int
	}{
		{name: "ttl above minimum", ttl: 300, minimum: 60, want: 300},
		{name: "ttl below minimum", ttl: 30, minimum: 60, want: 60},
		{name: "ttl equals minimum", ttl: 60, minimum: 60, want: 60},
		{name: "zero ttl", ttl: 0, minimum: 120, want: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{TTL: tt.ttl}
			if got := rec.EffectiveTTL(tt.minimum); got != tt.want {
				t.Errorf("EffectiveTTL(%d) = %d, want %d", tt.minimum, got, tt.want)
			}
		})
	}
}

func TestRecord_IsFresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ttl     int
		minimum int
		elapsed time.Duration
		want    bool
	}{
		{name: "well within ttl", ttl: 300, minimum: 60, elapsed: 10 * time.Second, want: true},
		{name: "exactly at effective ttl", ttl: 300, minimum: 60, elapsed: 300 * time.Second, want: true},
		{name: "past ttl", ttl: 60, minimum: 60, elapsed: 2 * time.Minute, want: false},
		{name: "minimum floor keeps record fresh", ttl: 60, minimum: 120, elapsed: 90 * time.Second, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{TTL: tt.ttl, UpdatedAt: now.Add(-tt.elapsed)}
			if got := rec.IsFresh(now, tt.minimum); got != tt.want {
				t.Errorf("IsFresh = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_Refresh_PreservesID(t *testing.T) {
	now := time.Now()
	rec := Record{
		ID:        42,
		Name:      "example.com",
		IP:        "192.0.2.1",
		HostedAt:  "Old Host",
		WhoisRaw:  "old",
		TTL:       60,
		UpdatedAt: now.Add(-time.Hour),
	}

	rec.Refresh(Record{
		Name:      "example.com",
		IP:        "192.0.2.9",
		HostedAt:  "New Host",
		WhoisRaw:  "new",
		TTL:       300,
		UpdatedAt: now,
	})

	if rec.ID != 42 {
		t.Errorf("Refresh changed ID to %d", rec.ID)
	}
	if rec.IP != "192.0.2.9" || rec.HostedAt != "New Host" || rec.WhoisRaw != "new" || rec.TTL != 300 {
		t.Errorf("Refresh did not overwrite mutable fields: %+v", rec)
	}
	if !rec.UpdatedAt.Equal(now) {
		t.Errorf("Refresh did not update timestamp")
	}
}
