package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImagePNG renders a small gradient and encodes it as PNG.
func testImagePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_ReencodesAsJPEG(t *testing.T) {
	p := NewProcessor(1920, 1080, 80, nil)

	out, err := p.Process(testImagePNG(t, 640, 480))
	require.NoError(t, err)

	assert.Equal(t, 640, out.Width)
	assert.Equal(t, 480, out.Height)
	assert.NotEmpty(t, out.BlurHash)

	img, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestProcess_DownscalesIntoEnvelope(t *testing.T) {
	p := NewProcessor(1920, 1080, 80, nil)

	out, err := p.Process(testImagePNG(t, 4000, 3000))
	require.NoError(t, err)

	assert.LessOrEqual(t, out.Width, 1920)
	assert.LessOrEqual(t, out.Height, 1080)

	// Aspect ratio preserved: 4:3 input stays 4:3.
	assert.Equal(t, 1440, out.Width)
	assert.Equal(t, 1080, out.Height)
}

func TestProcess_SmallImageKeepsDimensions(t *testing.T) {
	p := NewProcessor(1920, 1080, 80, nil)

	out, err := p.Process(testImagePNG(t, 100, 50))
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)
}

func TestProcess_AcceptsJPEGInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))

	p := NewProcessor(1920, 1080, 80, nil)
	out, err := p.Process(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 64, out.Width)
}

func TestProcess_RejectsGarbage(t *testing.T) {
	p := NewProcessor(1920, 1080, 80, nil)
	_, err := p.Process([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestScaleToFit_PortraitEnvelope(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 4000))
	scaled := scaleToFit(img, 1920, 1080)

	assert.Equal(t, 270, scaled.Bounds().Dx())
	assert.Equal(t, 1080, scaled.Bounds().Dy())
}
