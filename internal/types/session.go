package types

import (
	"encoding/base64"
	"fmt"
)

// Screen identifies which view of the booth flow is active.
type Screen string

const (
	ScreenLanding   Screen = "landing"
	ScreenSelection Screen = "selection"
	ScreenCamera    Screen = "camera"
	ScreenPreview   Screen = "preview"
	ScreenSave      Screen = "save"
)

// Orientation is chosen once per session and fixes the capture target
// aspect ratio for the rest of the attempt.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// AspectRatio returns the capture target ratio as a width/height pair:
// 9:16 for portrait, 16:9 for landscape.
func (o Orientation) AspectRatio() (w, h int) {
	if o == Landscape {
		return 16, 9
	}
	return 9, 16
}

// IdealResolution returns the resolution hint passed to the camera when
// acquiring a stream for this orientation.
func (o Orientation) IdealResolution() (w, h int) {
	if o == Landscape {
		return 1920, 1080
	}
	return 1080, 1920
}

func (o Orientation) Valid() bool {
	return o == Portrait || o == Landscape
}

// Frame holds the raw decoded dimensions of a camera frame.
type Frame struct {
	Width  int
	Height int
}

// CapturedPhoto is one encoded still image produced by a crop+capture.
// Immutable once created.
type CapturedPhoto struct {
	Data []byte
	Mime string
}

// DataURI renders the photo as a self-describing data URI.
func (p CapturedPhoto) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.Mime, base64.StdEncoding.EncodeToString(p.Data))
}

// PhotoStrip is the final composited image for one session.
type PhotoStrip struct {
	Data []byte
	Mime string
}

func (s PhotoStrip) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", s.Mime, base64.StdEncoding.EncodeToString(s.Data))
}

// UploadStatus tracks the background upload for a session. Transitions
// only move forward: idle -> uploading -> success|error.
type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

// Session is one user's attempt from orientation choice through
// capture to save.
type Session struct {
	ID           string
	Orientation  Orientation
	Photos       []CapturedPhoto
	Strip        *PhotoStrip
	UploadStatus UploadStatus
}

// SessionRecord is the single row written for a completed session.
type SessionRecord struct {
	SessionID     string
	Orientation   Orientation
	Photo1URL     string
	Photo2URL     string
	Photo3URL     string
	PhotostripURL string
	Email         string
	Status        string
}
