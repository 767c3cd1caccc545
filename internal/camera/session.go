package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"sync"
	"time"

	"github.com/carsonSgit/cusec-photobooth/internal/cropmath"
	"github.com/carsonSgit/cusec-photobooth/internal/types"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

// State is the camera session lifecycle state.
type State int

const (
	Stopped State = iota
	Starting
	Streaming
)

const jpegQuality = 90

var (
	// ErrNotStreaming is returned by CapturePhoto when no stream is live.
	ErrNotStreaming = errors.New("camera is not streaming")

	// ErrAccess is the single user-facing acquisition failure. The
	// underlying cause is attached for logs, not for display.
	ErrAccess = errors.New("failed to access camera, please grant camera permissions")
)

// Session owns the exclusive camera-stream resource. At most one stream
// is live and at most one start attempt is in flight; a new Start or a
// Stop cancels a pending attempt, and whatever the hardware eventually
// grants to a cancelled attempt is torn down instead of installed.
type Session struct {
	mu          sync.Mutex
	factory     Factory
	device      string
	readTimeout time.Duration

	orientation types.Orientation
	facing      Facing
	state       State
	source      Source
	pending     *startAttempt
}

// startAttempt is the cooperative cancellation token for one Start.
// cancelled is guarded by the session mutex.
type startAttempt struct {
	cancelled bool
}

type Options struct {
	Factory     Factory
	Device      string
	ReadTimeout time.Duration
	Facing      Facing
	Orientation types.Orientation
}

func NewSession(opts Options) *Session {
	facing := opts.Facing
	if facing == "" {
		facing = FacingUser
	}
	orientation := opts.Orientation
	if !orientation.Valid() {
		orientation = types.Portrait
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 5 * time.Second
	}
	return &Session{
		factory:     opts.Factory,
		device:      opts.Device,
		readTimeout: readTimeout,
		facing:      facing,
		orientation: orientation,
	}
}

// SetOrientation fixes the capture target for the session. Takes effect
// on the next Start.
func (s *Session) SetOrientation(o types.Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Valid() {
		s.orientation = o
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Facing() Facing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facing
}

// Start acquires a stream with orientation-appropriate resolution
// hints. A still-pending previous attempt is cancelled first; its
// eventual grant is discarded. Returns nil when this attempt was itself
// superseded while waiting (benign cancellation), ErrAccess-wrapped
// errors otherwise.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	// Cancel any previous camera start attempt
	if s.pending != nil {
		s.pending.cancelled = true
	}
	attempt := &startAttempt{}
	s.pending = attempt

	// A restart replaces the live stream, never runs beside it.
	if s.source != nil {
		_ = s.source.Close()
		s.source = nil
	}
	s.state = Starting

	w, h := s.orientation.IdealResolution()
	cfg := SourceConfig{
		Device:      s.device,
		Facing:      s.facing,
		IdealWidth:  w,
		IdealHeight: h,
		ReadTimeout: s.readTimeout,
	}
	s.mu.Unlock()

	src, err := s.factory(ctx, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt.cancelled {
		// Superseded while waiting for the hardware; discard the grant.
		if src != nil {
			_ = src.Close()
		}
		logger.Debug(ctx, "camera start superseded, discarding acquired stream")
		return nil
	}
	s.pending = nil

	if err != nil {
		s.state = Stopped
		logger.Error(ctx, "camera acquisition failed", err, logger.Fields{
			"device": cfg.Device,
			"facing": string(cfg.Facing),
		})
		return fmt.Errorf("%w: %v", ErrAccess, err)
	}

	s.source = src
	s.state = Streaming
	logger.Info(ctx, "camera streaming", logger.Fields{
		"device":       cfg.Device,
		"facing":       string(cfg.Facing),
		"ideal_width":  cfg.IdealWidth,
		"ideal_height": cfg.IdealHeight,
	})
	return nil
}

// Stop cancels any pending start and releases the active stream. Safe
// to call when already stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.cancelled = true
		s.pending = nil
	}
	if s.source != nil {
		_ = s.source.Close()
		s.source = nil
	}
	s.state = Stopped
}

// SwitchFacing restarts the stream on the other camera. This is a full
// stop-then-start, not a live reconfiguration.
func (s *Session) SwitchFacing(ctx context.Context) error {
	s.Stop()
	s.mu.Lock()
	if s.facing == FacingUser {
		s.facing = FacingEnvironment
	} else {
		s.facing = FacingUser
	}
	s.mu.Unlock()
	return s.Start(ctx)
}

// CapturePhoto reads the current frame, crops it to the session's
// fixed target aspect, mirrors it when the camera faces the user, and
// encodes it as JPEG. Returns ErrNotStreaming when no stream is live.
func (s *Session) CapturePhoto(ctx context.Context) (*types.CapturedPhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Streaming || s.source == nil {
		return nil, ErrNotStreaming
	}

	frame, err := s.source.ReadFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read camera frame: %w", err)
	}

	bounds := frame.Bounds()
	crop := cropmath.ComputeCrop(types.Frame{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, s.orientation)

	// Draw the cropped window at 1:1, no upscale.
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), frame, bounds.Min.Add(crop.Min), draw.Src)

	// Selfie mirroring
	if s.facing == FacingUser {
		mirrorHorizontally(out)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}

	return &types.CapturedPhoto{Data: buf.Bytes(), Mime: "image/jpeg"}, nil
}

func mirrorHorizontally(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for lo, hi := b.Min.X, b.Max.X-1; lo < hi; lo, hi = lo+1, hi-1 {
			left := img.RGBAAt(lo, y)
			img.SetRGBA(lo, y, img.RGBAAt(hi, y))
			img.SetRGBA(hi, y, left)
		}
	}
}
