package storage

import (
	"fmt"
	"time"
)

// Object keys are deterministic per session so re-uploads are
// idempotent overwrites rather than duplicates:
// {YYYY-MM-DD}/session-{id}/{photo-1..photo-3}.jpg and photostrip.png.

func sessionFolder(now time.Time, sessionID string) string {
	return fmt.Sprintf("%s/session-%s", now.UTC().Format("2006-01-02"), sessionID)
}

// PhotoKey returns the object key for the n-th photo (1-based).
func PhotoKey(now time.Time, sessionID string, n int) string {
	return fmt.Sprintf("%s/photo-%d.jpg", sessionFolder(now, sessionID), n)
}

// StripKey returns the object key for the composed strip.
func StripKey(now time.Time, sessionID string) string {
	return fmt.Sprintf("%s/photostrip.png", sessionFolder(now, sessionID))
}
