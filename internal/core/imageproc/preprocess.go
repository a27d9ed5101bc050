package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// binarizeThreshold splits pixels into black and white after Enhance raises
// the contrast.
const binarizeThreshold = 200

// Preprocess is the base OCR preparation: grayscale, doubled contrast, a
// sharpen pass and a light smoothing blur.
func Preprocess(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 50)
	out = imaging.Sharpen(out, 1.0)
	return imaging.Blur(out, 0.5)
}

// Enhance produces a pure black and white variant for low-contrast scans.
func Enhance(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 100)
	return imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		// grayscale: every channel carries the brightness
		if c.R > binarizeThreshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{A: 255}
	})
}

// EncodePNG serialises img for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
