package strip

import (
	"bytes"
	_ "embed"
	"image"
	"image/png"
)

// Static artwork baked into the binary so composition never touches
// the filesystem.
var (
	//go:embed assets/aperture.png
	aperturePNG []byte

	//go:embed assets/wordmark.png
	wordmarkPNG []byte

	apertureImg image.Image
	wordmarkImg image.Image
)

func init() {
	apertureImg = mustDecodePNG(aperturePNG)
	wordmarkImg = mustDecodePNG(wordmarkPNG)
}

func mustDecodePNG(data []byte) image.Image {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		panic("strip: bad embedded artwork: " + err.Error())
	}
	return img
}
