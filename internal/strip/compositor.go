// Package strip composes three captured photos plus fixed artwork into
// one printable photo strip. Composition is deterministic: identical
// inputs produce byte-identical output.
package strip

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

// Title printed across the strip header, always on two lines.
const Title = "CUSEC 2026 PHOTO BOOTH"

// Thermal printer paper: 57mm wide at 300 DPI.
const (
	printDPI     = 300
	paperWidthMM = 57

	headerHeight = 176
	footerHeight = 96
	photoGap     = 32
	borderWidth  = 2
	textMargin   = 20

	logoHeight   = 64
	titleSizePts = 30
)

// StripWidth is the fixed canvas width in pixels, independent of
// orientation: round(57 / 25.4 * 300) = 673.
var StripWidth = int(math.Round(paperWidthMM / 25.4 * printDPI))

var titleFace font.Face

func init() {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic("strip: parse embedded font: " + err.Error())
	}
	titleFace, err = opentype.NewFace(f, &opentype.FaceOptions{
		Size:    titleSizePts,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic("strip: build title face: " + err.Error())
	}
}

// layout holds every rectangle of the strip, computed once per
// orientation. All three photo slots share one height derived from the
// strip's target aspect ratio, never from the individual photos.
type layout struct {
	width      int
	height     int
	slotHeight int
	slots      [3]image.Rectangle
	header     image.Rectangle
	footer     image.Rectangle
}

func computeLayout(o types.Orientation) layout {
	aw, ah := o.AspectRatio()
	l := layout{
		width:      StripWidth,
		slotHeight: int(math.Round(float64(StripWidth) * float64(ah) / float64(aw))),
	}
	l.height = headerHeight + 3*l.slotHeight + 2*photoGap + footerHeight
	l.header = image.Rect(0, 0, l.width, headerHeight)

	y := headerHeight
	for i := range l.slots {
		l.slots[i] = image.Rect(0, y, l.width, y+l.slotHeight)
		y += l.slotHeight + photoGap
	}
	l.footer = image.Rect(0, l.height-footerHeight, l.width, l.height)
	return l
}

// Compose lays out three photos plus header/footer artwork into the
// final strip and encodes it as PNG. It fails unless exactly three
// photos are provided; a photo that does not decode is a composition
// failure and the whole capture should be retried.
func Compose(photos []types.CapturedPhoto, o types.Orientation) (*types.PhotoStrip, error) {
	if len(photos) != 3 {
		return nil, fmt.Errorf("exactly 3 photos are required, got %d", len(photos))
	}

	decoded := make([]image.Image, 3)
	for i, p := range photos {
		img, _, err := image.Decode(bytes.NewReader(p.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode photo %d: %w", i+1, err)
		}
		decoded[i] = img
	}

	l := computeLayout(o)
	canvas := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	drawHeader(canvas, l)
	for i, img := range decoded {
		drawCoverFit(canvas, l.slots[i], img)
	}
	drawFooter(canvas, l)
	strokeBorder(canvas, l)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode photo strip: %w", err)
	}
	return &types.PhotoStrip{Data: buf.Bytes(), Mime: "image/png"}, nil
}

func drawHeader(canvas *image.RGBA, l layout) {
	// Logo glyph centered at the top of the header.
	logoW := apertureImg.Bounds().Dx() * logoHeight / apertureImg.Bounds().Dy()
	logoRect := image.Rect(0, 10, logoW, 10+logoHeight)
	logoRect = logoRect.Add(image.Pt((l.width-logoW)/2, 0))
	xdraw.CatmullRom.Scale(canvas, logoRect, apertureImg, apertureImg.Bounds(), xdraw.Over, nil)

	lines := splitTitle(Title, titleFace, l.width-2*textMargin)
	metrics := titleFace.Metrics()
	lineHeight := metrics.Height.Ceil()

	baseline := 10 + logoHeight + 6 + metrics.Ascent.Ceil()
	for _, line := range lines {
		if line == "" {
			continue
		}
		drawCenteredText(canvas, line, l.width, baseline)
		baseline += lineHeight
	}
}

func drawCenteredText(canvas *image.RGBA, text string, width, baseline int) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.Black,
		Face: titleFace,
	}
	w := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(width)/2 - w/2,
		Y: fixed.I(baseline),
	}
	d.DrawString(text)
}

// drawCoverFit fills the slot completely without distortion: the
// photo's relatively-longer axis is cropped, never letterboxed.
func drawCoverFit(canvas *image.RGBA, slot image.Rectangle, img image.Image) {
	src := img.Bounds()
	crop := src

	// Compare source and slot ratios without division.
	if src.Dx()*slot.Dy() > slot.Dx()*src.Dy() {
		// Source relatively wider: crop width.
		w := slot.Dx() * src.Dy() / slot.Dy()
		x := src.Min.X + (src.Dx()-w)/2
		crop = image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	} else if src.Dx()*slot.Dy() < slot.Dx()*src.Dy() {
		// Source relatively taller: crop height.
		h := src.Dx() * slot.Dy() / slot.Dx()
		y := src.Min.Y + (src.Dy()-h)/2
		crop = image.Rect(src.Min.X, y, src.Max.X, y+h)
	}

	xdraw.CatmullRom.Scale(canvas, slot, img, crop, xdraw.Src, nil)
}

func drawFooter(canvas *image.RGBA, l layout) {
	bounds := wordmarkImg.Bounds()
	maxW := l.footer.Dx() - 2*textMargin
	maxH := l.footer.Dy() - 16

	// Scale to fit within footer bounds preserving the mark's aspect.
	w := maxW
	h := bounds.Dy() * w / bounds.Dx()
	if h > maxH {
		h = maxH
		w = bounds.Dx() * h / bounds.Dy()
	}

	x := l.footer.Min.X + (l.footer.Dx()-w)/2
	y := l.footer.Min.Y + (l.footer.Dy()-h)/2
	xdraw.CatmullRom.Scale(canvas, image.Rect(x, y, x+w, y+h), wordmarkImg, bounds, xdraw.Over, nil)
}

func strokeBorder(canvas *image.RGBA, l layout) {
	ink := color.RGBA{A: 255}
	for t := 0; t < borderWidth; t++ {
		for x := 0; x < l.width; x++ {
			canvas.SetRGBA(x, t, ink)
			canvas.SetRGBA(x, l.height-1-t, ink)
		}
		for y := 0; y < l.height; y++ {
			canvas.SetRGBA(t, y, ink)
			canvas.SetRGBA(l.width-1-t, y, ink)
		}
	}
}
