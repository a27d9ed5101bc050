package imageproc

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / w)
			img.Set(x, y, color.NRGBA{R: v, G: 255 - v, B: v / 2, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(samplePNG(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecodeBase64(t *testing.T) {
	raw := samplePNG(t, 4, 4)
	std := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		in   string
	}{
		{"bare", std},
		{"data url", "data:image/png;base64," + std},
		{"wrapped lines", std[:10] + "\n" + std[10:]},
		{"raw std", base64.RawStdEncoding.EncodeToString(raw)},
		{"url safe", base64.URLEncoding.EncodeToString(raw)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.in)
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	_, err := DecodeBase64("")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeBase64("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeBase64("%%%not-base64%%%")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestFit(t *testing.T) {
	img, err := Decode(samplePNG(t, 300, 100))
	require.NoError(t, err)

	small := Fit(img, 150)
	assert.Equal(t, 150, small.Bounds().Dx())
	assert.Equal(t, 50, small.Bounds().Dy())

	assert.Same(t, img, Fit(img, 1800), "images within bounds are not resampled")
	assert.Same(t, img, Fit(img, 0))
}

func TestPreprocess_KeepsSizeAndDropsColour(t *testing.T) {
	img, err := Decode(samplePNG(t, 30, 10))
	require.NoError(t, err)

	out := Preprocess(img)
	assert.Equal(t, img.Bounds().Size(), out.Bounds().Size())

	c := out.NRGBAAt(15, 5)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestEnhance_IsBinary(t *testing.T) {
	img, err := Decode(samplePNG(t, 30, 10))
	require.NoError(t, err)

	out := Enhance(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.NRGBAAt(x, y)
			assert.Contains(t, []uint8{0, 255}, c.R)
		}
	}
}

func TestEncodePNG_RoundTrips(t *testing.T) {
	img, err := Decode(samplePNG(t, 8, 8))
	require.NoError(t, err)

	data, err := EncodePNG(Preprocess(img))
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 8, back.Bounds().Dx())
}

func TestChecksum(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Checksum(nil))
	assert.Len(t, Checksum([]byte("x")), 64)
}
