// Package session holds the single source of truth for one booth
// attempt: active screen, orientation, captured photos, generated
// strip, session id and upload status.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

const maxPhotos = 3

// Store is the booth state machine. All transitions are explicit
// methods; UI runtimes are allowed to double-invoke setup code, so
// anything one-shot is guarded structurally.
type Store struct {
	mu sync.Mutex

	screen       types.Screen
	orientation  types.Orientation
	photos       []types.CapturedPhoto
	strip        *types.PhotoStrip
	sessionID    string
	uploadStatus types.UploadStatus

	// One-shot guard: the id is generated exactly once per attempt even
	// when the initializing effect runs more than once.
	initialized bool
}

func NewStore() *Store {
	return &Store{
		screen:       types.ScreenLanding,
		uploadStatus: types.UploadIdle,
	}
}

// EnsureSession generates the session id exactly once per attempt and
// returns it. Subsequent calls return the same id.
func (s *Store) EnsureSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.sessionID = uuid.NewString()
		s.initialized = true
	}
	return s.sessionID
}

func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Store) Screen() types.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func (s *Store) SetScreen(screen types.Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
}

func (s *Store) Orientation() types.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

// SelectOrientation fixes the orientation for the attempt and moves to
// the camera screen.
func (s *Store) SelectOrientation(o types.Orientation) bool {
	if !o.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = o
	s.screen = types.ScreenCamera
	return true
}

// AddPhoto appends one captured photo in capture order. The third photo
// advances the screen exactly once; further calls are rejected.
// Returns (photo count, whether this call advanced the screen).
func (s *Store) AddPhoto(p types.CapturedPhoto) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.photos) >= maxPhotos {
		return len(s.photos), false
	}
	s.photos = append(s.photos, p)
	if len(s.photos) == maxPhotos && s.screen == types.ScreenCamera {
		s.screen = types.ScreenSave
		return maxPhotos, true
	}
	return len(s.photos), false
}

// Photos returns the captured photos in capture order.
func (s *Store) Photos() []types.CapturedPhoto {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.CapturedPhoto, len(s.photos))
	copy(out, s.photos)
	return out
}

// Retake clears photos and strip wholesale and returns to the camera.
func (s *Store) Retake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = nil
	s.strip = nil
	s.screen = types.ScreenCamera
}

// Cancel abandons capture state and returns to the landing screen. The
// session id survives until Reset.
func (s *Store) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = nil
	s.strip = nil
	s.screen = types.ScreenLanding
}

// SetStrip records the composed strip. Only meaningful once three
// photos exist.
func (s *Store) SetStrip(strip *types.PhotoStrip) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.photos) != maxPhotos {
		return false
	}
	s.strip = strip
	return true
}

func (s *Store) Strip() *types.PhotoStrip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strip
}

func (s *Store) UploadStatus() types.UploadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadStatus
}

// SetUploadStatus applies a forward-only transition:
// idle -> uploading -> success|error. Regressions are ignored.
func (s *Store) SetUploadStatus(status types.UploadStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch status {
	case types.UploadUploading:
		if s.uploadStatus != types.UploadIdle {
			return false
		}
	case types.UploadSuccess, types.UploadError:
		if s.uploadStatus != types.UploadUploading {
			return false
		}
	default:
		return false
	}
	s.uploadStatus = status
	return true
}

// Session snapshots the current attempt.
func (s *Store) Session() types.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	photos := make([]types.CapturedPhoto, len(s.photos))
	copy(photos, s.photos)
	return types.Session{
		ID:           s.sessionID,
		Orientation:  s.orientation,
		Photos:       photos,
		Strip:        s.strip,
		UploadStatus: s.uploadStatus,
	}
}

// Reset returns every field to its initial value, including the
// session id; the next EnsureSession generates a fresh one.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = types.ScreenLanding
	s.orientation = ""
	s.photos = nil
	s.strip = nil
	s.sessionID = ""
	s.uploadStatus = types.UploadIdle
	s.initialized = false
}
