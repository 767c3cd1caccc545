package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/blackjack/webcam"
)

// V4L2 MJPEG fourcc ('MJPG')
const mjpegFormat webcam.PixelFormat = 0x47504A4D

// OpenV4L2 is the production Factory: it opens a V4L2 device, selects
// an MJPEG mode nearest the ideal resolution and starts streaming.
func OpenV4L2(ctx context.Context, cfg SourceConfig) (Source, error) {
	cam, err := webcam.Open(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera device %s: %w", cfg.Device, err)
	}

	format, ok := pickJPEGFormat(cam.GetSupportedFormats())
	if !ok {
		_ = cam.Close()
		return nil, fmt.Errorf("device %s offers no MJPEG format", cfg.Device)
	}

	w, h := nearestFrameSize(cam.GetSupportedFrameSizes(format), uint32(cfg.IdealWidth), uint32(cfg.IdealHeight))
	if _, _, _, err := cam.SetImageFormat(format, w, h); err != nil {
		_ = cam.Close()
		return nil, fmt.Errorf("failed to set image format %dx%d: %w", w, h, err)
	}

	if err := cam.StartStreaming(); err != nil {
		_ = cam.Close()
		return nil, fmt.Errorf("failed to start streaming: %w", err)
	}

	// Acquisition may have been abandoned while the device was opening.
	if err := ctx.Err(); err != nil {
		_ = cam.StopStreaming()
		_ = cam.Close()
		return nil, err
	}

	timeout := uint32(cfg.ReadTimeout.Seconds())
	if timeout == 0 {
		timeout = 5
	}
	return &v4l2Source{cam: cam, timeout: timeout}, nil
}

type v4l2Source struct {
	cam     *webcam.Webcam
	timeout uint32
}

func (s *v4l2Source) ReadFrame(ctx context.Context) (image.Image, error) {
	// Empty reads happen while the driver warms up; retry a few times
	// within the configured timeout discipline.
	for attempt := 0; attempt < 4; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.cam.WaitForFrame(s.timeout); err != nil {
			return nil, fmt.Errorf("timed out waiting for camera frame: %w", err)
		}
		data, err := s.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read camera frame: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode camera frame: %w", err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("camera produced no frame data")
}

func (s *v4l2Source) Close() error {
	_ = s.cam.StopStreaming()
	return s.cam.Close()
}

func pickJPEGFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, bool) {
	if _, ok := formats[mjpegFormat]; ok {
		return mjpegFormat, true
	}
	for f, desc := range formats {
		if strings.Contains(strings.ToUpper(desc), "JPEG") {
			return f, true
		}
	}
	return 0, false
}

// nearestFrameSize clamps the ideal resolution into each supported
// size range and keeps the candidate closest to the ideal.
func nearestFrameSize(sizes []webcam.FrameSize, idealW, idealH uint32) (uint32, uint32) {
	bestW, bestH := idealW, idealH
	bestScore := ^uint32(0)

	for _, size := range sizes {
		w := clampStepped(idealW, size.MinWidth, size.MaxWidth, size.StepWidth)
		h := clampStepped(idealH, size.MinHeight, size.MaxHeight, size.StepHeight)
		score := absDiff(w, idealW) + absDiff(h, idealH)
		if score < bestScore {
			bestScore = score
			bestW, bestH = w, h
		}
	}
	return bestW, bestH
}

func clampStepped(v, min, max, step uint32) uint32 {
	if v <= min {
		return min
	}
	if v >= max {
		return max
	}
	if step > 1 {
		v = min + ((v-min)/step)*step
	}
	return v
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
