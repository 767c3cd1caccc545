package strip

import (
	"strings"

	"golang.org/x/image/font"
)

// splitTitle splits the title into exactly two lines at a word
// boundary. Split points are searched outward from the midpoint of the
// word sequence; the first split where both lines fit usableWidth (in
// pixels for the given face) wins. If nothing fits, the midpoint split
// is used regardless of overflow.
func splitTitle(title string, face font.Face, usableWidth int) [2]string {
	words := strings.Fields(title)
	if len(words) < 2 {
		return [2]string{title, ""}
	}

	mid := len(words) / 2
	drawer := &font.Drawer{Face: face}
	fits := func(line string) bool {
		return drawer.MeasureString(line).Ceil() <= usableWidth
	}

	for offset := 0; offset < len(words); offset++ {
		for _, split := range []int{mid + offset, mid - offset} {
			if split < 1 || split >= len(words) {
				continue
			}
			top := strings.Join(words[:split], " ")
			bottom := strings.Join(words[split:], " ")
			if fits(top) && fits(bottom) {
				return [2]string{top, bottom}
			}
		}
	}

	// No split fits; overflow at the midpoint.
	return [2]string{
		strings.Join(words[:mid], " "),
		strings.Join(words[mid:], " "),
	}
}
