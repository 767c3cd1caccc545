package session

import (
	"testing"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

func photo() types.CapturedPhoto {
	return types.CapturedPhoto{Data: []byte{0xff, 0xd8}, Mime: "image/jpeg"}
}

func TestEnsureSessionIsOneShot(t *testing.T) {
	s := NewStore()
	first := s.EnsureSession()
	if first == "" {
		t.Fatal("expected a generated id")
	}
	// Duplicate initialization must not regenerate the id.
	if second := s.EnsureSession(); second != first {
		t.Errorf("duplicate init regenerated id: %q then %q", first, second)
	}
}

func TestSelectOrientationMovesToCamera(t *testing.T) {
	s := NewStore()
	if !s.SelectOrientation(types.Landscape) {
		t.Fatal("valid orientation rejected")
	}
	if s.Screen() != types.ScreenCamera {
		t.Errorf("screen %s, want camera", s.Screen())
	}
	if s.Orientation() != types.Landscape {
		t.Errorf("orientation %s, want landscape", s.Orientation())
	}

	if s.SelectOrientation("sideways") {
		t.Error("invalid orientation accepted")
	}
}

func TestThreePhotosAdvanceExactlyOnce(t *testing.T) {
	s := NewStore()
	s.SelectOrientation(types.Portrait)

	advances := 0
	for i := 0; i < 3; i++ {
		if _, advanced := s.AddPhoto(photo()); advanced {
			advances++
		}
	}
	if advances != 1 {
		t.Errorf("screen advanced %d times, want 1", advances)
	}
	if got := len(s.Photos()); got != 3 {
		t.Errorf("photo count %d, want 3", got)
	}
	if s.Screen() != types.ScreenSave {
		t.Errorf("screen %s, want save", s.Screen())
	}

	// A fourth photo is rejected and does not advance anything.
	if n, advanced := s.AddPhoto(photo()); n != 3 || advanced {
		t.Errorf("fourth photo accepted (count %d, advanced %v)", n, advanced)
	}
}

func TestRetakeClearsPhotosAndStrip(t *testing.T) {
	s := NewStore()
	s.SelectOrientation(types.Portrait)
	for i := 0; i < 3; i++ {
		s.AddPhoto(photo())
	}
	if !s.SetStrip(&types.PhotoStrip{Data: []byte{1}, Mime: "image/png"}) {
		t.Fatal("strip rejected with 3 photos present")
	}

	s.Retake()
	if len(s.Photos()) != 0 {
		t.Error("retake left photos behind")
	}
	if s.Strip() != nil {
		t.Error("retake left the strip behind")
	}
	if s.Screen() != types.ScreenCamera {
		t.Errorf("screen %s, want camera", s.Screen())
	}
}

func TestStripRequiresThreePhotos(t *testing.T) {
	s := NewStore()
	s.AddPhoto(photo())
	if s.SetStrip(&types.PhotoStrip{Data: []byte{1}, Mime: "image/png"}) {
		t.Error("strip accepted with fewer than 3 photos")
	}
}

func TestUploadStatusNeverRegresses(t *testing.T) {
	s := NewStore()

	if s.SetUploadStatus(types.UploadSuccess) {
		t.Error("idle -> success accepted")
	}
	if !s.SetUploadStatus(types.UploadUploading) {
		t.Error("idle -> uploading rejected")
	}
	if s.SetUploadStatus(types.UploadUploading) {
		t.Error("uploading -> uploading accepted")
	}
	if !s.SetUploadStatus(types.UploadSuccess) {
		t.Error("uploading -> success rejected")
	}
	if s.SetUploadStatus(types.UploadError) {
		t.Error("success -> error accepted")
	}
	if s.SetUploadStatus(types.UploadIdle) {
		t.Error("regression to idle accepted")
	}
}

func TestResetRestoresEverything(t *testing.T) {
	s := NewStore()
	firstID := s.EnsureSession()
	s.SelectOrientation(types.Landscape)
	for i := 0; i < 3; i++ {
		s.AddPhoto(photo())
	}
	s.SetStrip(&types.PhotoStrip{Data: []byte{1}, Mime: "image/png"})
	s.SetUploadStatus(types.UploadUploading)

	s.Reset()

	if s.Screen() != types.ScreenLanding {
		t.Errorf("screen %s, want landing", s.Screen())
	}
	if s.Orientation() != "" {
		t.Error("orientation not cleared")
	}
	if len(s.Photos()) != 0 || s.Strip() != nil {
		t.Error("capture state not cleared")
	}
	if s.SessionID() != "" {
		t.Error("session id not cleared")
	}
	if s.UploadStatus() != types.UploadIdle {
		t.Error("upload status not reset")
	}

	// A fresh attempt gets a fresh id.
	if next := s.EnsureSession(); next == firstID || next == "" {
		t.Errorf("expected a freshly generated id, got %q", next)
	}
}
