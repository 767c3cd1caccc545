// Package cropmath computes centered fixed-aspect crop windows for
// camera frames. It is pure geometry with no side effects.
package cropmath

import (
	"image"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

// ComputeCrop returns the largest centered rectangle inside frame whose
// aspect ratio matches the capture target for the given orientation
// (9:16 portrait, 16:9 landscape) within integer rounding.
//
// Whichever axis is relatively longer than the target gets cropped down
// while the other axis keeps its full extent, so a landscape-native
// frame can still be cropped to a portrait target by narrowing its
// width. A frame already at the target ratio is returned whole.
func ComputeCrop(frame types.Frame, o types.Orientation) image.Rectangle {
	aw, ah := o.AspectRatio()

	// Compare frame and target ratios without division:
	// frame.Width/frame.Height vs aw/ah.
	lhs := frame.Width * ah
	rhs := aw * frame.Height

	switch {
	case lhs > rhs:
		// Frame is wider than the target: crop width, keep height.
		w := rhs / ah
		x := (frame.Width - w) / 2
		return image.Rect(x, 0, x+w, frame.Height)
	case lhs < rhs:
		// Frame is taller than the target: crop height, keep width.
		h := lhs / aw
		y := (frame.Height - h) / 2
		return image.Rect(0, y, frame.Width, y+h)
	default:
		return image.Rect(0, 0, frame.Width, frame.Height)
	}
}
