package strip

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

func testPhoto(t *testing.T, w, h int, c color.RGBA) types.CapturedPhoto {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return types.CapturedPhoto{Data: buf.Bytes(), Mime: "image/jpeg"}
}

func threePhotos(t *testing.T) []types.CapturedPhoto {
	t.Helper()
	return []types.CapturedPhoto{
		testPhoto(t, 1920, 1080, color.RGBA{R: 200, A: 255}),
		testPhoto(t, 1920, 1080, color.RGBA{G: 200, A: 255}),
		testPhoto(t, 1920, 1080, color.RGBA{B: 200, A: 255}),
	}
}

func TestComposeRejectsWrongPhotoCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 4} {
		photos := make([]types.CapturedPhoto, n)
		for i := range photos {
			photos[i] = testPhoto(t, 64, 36, color.RGBA{A: 255})
		}
		if _, err := Compose(photos, types.Landscape); err == nil {
			t.Errorf("expected error for %d photos", n)
		}
	}
}

func TestComposeRejectsUndecodablePhoto(t *testing.T) {
	photos := threePhotos(t)
	photos[1] = types.CapturedPhoto{Data: []byte("not an image"), Mime: "image/jpeg"}
	if _, err := Compose(photos, types.Landscape); err == nil {
		t.Error("expected composition failure for malformed photo")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	photos := threePhotos(t)

	first, err := Compose(photos, types.Landscape)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compose(photos, types.Landscape)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("identical inputs produced different bytes")
	}
}

func TestComposeLandscapeScenario(t *testing.T) {
	// Three 1920x1080 photos, landscape: strip is the fixed print
	// width and every slot height comes from the 16:9 ratio.
	photos := threePhotos(t)
	out, err := Compose(photos, types.Landscape)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mime != "image/png" {
		t.Errorf("mime %q, want image/png", out.Mime)
	}

	img, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 673 {
		t.Errorf("strip width %d, want 673", img.Bounds().Dx())
	}

	l := computeLayout(types.Landscape)
	if img.Bounds().Dy() != l.height {
		t.Errorf("strip height %d, want %d", img.Bounds().Dy(), l.height)
	}
}

func TestSlotHeightsEqualRegardlessOfSourceAspect(t *testing.T) {
	// Wildly different source aspects; slot geometry must not care.
	photos := []types.CapturedPhoto{
		testPhoto(t, 800, 600, color.RGBA{R: 200, A: 255}),
		testPhoto(t, 500, 900, color.RGBA{G: 200, A: 255}),
		testPhoto(t, 1920, 1080, color.RGBA{B: 200, A: 255}),
	}
	if _, err := Compose(photos, types.Portrait); err != nil {
		t.Fatal(err)
	}

	for _, o := range []types.Orientation{types.Portrait, types.Landscape} {
		l := computeLayout(o)
		for i, slot := range l.slots {
			if slot.Dy() != l.slotHeight {
				t.Errorf("%s slot %d height %d, want %d", o, i, slot.Dy(), l.slotHeight)
			}
			if slot.Dx() != l.width {
				t.Errorf("%s slot %d width %d, want %d", o, i, slot.Dx(), l.width)
			}
		}
	}
}

func TestLayoutSlotHeightFollowsOrientation(t *testing.T) {
	landscape := computeLayout(types.Landscape)
	if landscape.slotHeight != 379 { // round(673 * 9/16)
		t.Errorf("landscape slot height %d, want 379", landscape.slotHeight)
	}
	portrait := computeLayout(types.Portrait)
	if portrait.slotHeight != 1196 { // round(673 * 16/9)
		t.Errorf("portrait slot height %d, want 1196", portrait.slotHeight)
	}
}

func TestSplitTitleProducesTwoLines(t *testing.T) {
	lines := splitTitle(Title, titleFace, StripWidth-2*textMargin)
	if lines[0] == "" || lines[1] == "" {
		t.Fatalf("expected two non-empty lines, got %q / %q", lines[0], lines[1])
	}
	if lines[0] != "CUSEC 2026" || lines[1] != "PHOTO BOOTH" {
		t.Errorf("unexpected split: %q / %q", lines[0], lines[1])
	}
}

func TestSplitTitleFallsBackToMidpoint(t *testing.T) {
	// Nothing fits in 10px; midpoint split wins regardless of overflow.
	lines := splitTitle(Title, titleFace, 10)
	if lines[0] != "CUSEC 2026" || lines[1] != "PHOTO BOOTH" {
		t.Errorf("expected midpoint fallback, got %q / %q", lines[0], lines[1])
	}
}
