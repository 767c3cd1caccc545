package storage

import (
	"testing"
	"time"
)

func TestObjectKeysAreDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 9, 23, 59, 0, 0, time.UTC)

	if got := PhotoKey(now, "abc123", 1); got != "2026-01-09/session-abc123/photo-1.jpg" {
		t.Errorf("photo key %q", got)
	}
	if got := PhotoKey(now, "abc123", 3); got != "2026-01-09/session-abc123/photo-3.jpg" {
		t.Errorf("photo key %q", got)
	}
	if got := StripKey(now, "abc123"); got != "2026-01-09/session-abc123/photostrip.png" {
		t.Errorf("strip key %q", got)
	}

	// Re-running the same upload produces the same keys, so writes are
	// overwrites rather than duplicates.
	if PhotoKey(now, "abc123", 2) != PhotoKey(now, "abc123", 2) {
		t.Error("keys are not stable")
	}
}

func TestObjectKeysUseUTCDate(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	local := time.Date(2026, 1, 9, 22, 0, 0, 0, est) // already Jan 10 in UTC
	if got := StripKey(local, "x"); got != "2026-01-10/session-x/photostrip.png" {
		t.Errorf("expected UTC date in key, got %q", got)
	}
}
