package cropmath

import (
	"image"
	"math"
	"testing"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

func TestComputeCrop(t *testing.T) {
	frames := []types.Frame{
		{Width: 1920, Height: 1080},
		{Width: 1080, Height: 1920},
		{Width: 1280, Height: 720},
		{Width: 640, Height: 480},
		{Width: 480, Height: 640},
		{Width: 3840, Height: 2160},
		{Width: 1000, Height: 1000},
		{Width: 17, Height: 31},
	}

	for _, o := range []types.Orientation{types.Portrait, types.Landscape} {
		aw, ah := o.AspectRatio()
		target := float64(aw) / float64(ah)

		for _, f := range frames {
			rect := ComputeCrop(f, o)

			full := image.Rect(0, 0, f.Width, f.Height)
			if !rect.In(full) {
				t.Errorf("%s %dx%d: crop %v escapes frame", o, f.Width, f.Height, rect)
			}

			got := float64(rect.Dx()) / float64(rect.Dy())
			// Integer rounding tolerance: an off-by-one on the short axis.
			tolerance := target / math.Min(float64(rect.Dx()), float64(rect.Dy()))
			if math.Abs(got-target) > tolerance {
				t.Errorf("%s %dx%d: aspect %f, want %f", o, f.Width, f.Height, got, target)
			}

			// Centered on whichever axis was cropped.
			if slack := f.Width - rect.Dx(); slack > 0 {
				if diff := rect.Min.X*2 + rect.Dx() - f.Width; diff < -1 || diff > 1 {
					t.Errorf("%s %dx%d: crop not horizontally centered: %v", o, f.Width, f.Height, rect)
				}
			}
			if slack := f.Height - rect.Dy(); slack > 0 {
				if diff := rect.Min.Y*2 + rect.Dy() - f.Height; diff < -1 || diff > 1 {
					t.Errorf("%s %dx%d: crop not vertically centered: %v", o, f.Width, f.Height, rect)
				}
			}
		}
	}
}

func TestComputeCropExactRatioReturnsFullFrame(t *testing.T) {
	tests := []struct {
		frame types.Frame
		o     types.Orientation
	}{
		{types.Frame{Width: 1920, Height: 1080}, types.Landscape},
		{types.Frame{Width: 1080, Height: 1920}, types.Portrait},
		{types.Frame{Width: 160, Height: 90}, types.Landscape},
		{types.Frame{Width: 9, Height: 16}, types.Portrait},
	}
	for _, tc := range tests {
		rect := ComputeCrop(tc.frame, tc.o)
		want := image.Rect(0, 0, tc.frame.Width, tc.frame.Height)
		if rect != want {
			t.Errorf("%v %s: got %v, want full frame %v", tc.frame, tc.o, rect, want)
		}
	}
}

func TestComputeCropMismatchedNativeOrientation(t *testing.T) {
	// A landscape-native frame cropped to a portrait target loses width.
	rect := ComputeCrop(types.Frame{Width: 1920, Height: 1080}, types.Portrait)
	if rect.Dy() != 1080 {
		t.Fatalf("expected full height kept, got %d", rect.Dy())
	}
	if rect.Dx() >= 1920 {
		t.Fatalf("expected width cropped, got %d", rect.Dx())
	}
	// 1080 * 9 / 16 = 607 (integer division)
	if rect.Dx() != 607 {
		t.Errorf("expected 607px wide window, got %d", rect.Dx())
	}
}
