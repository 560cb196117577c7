package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize is the target size for BlurHash computation.
// BlurHash doesn't need high resolution - a small thumbnail produces nearly identical results.
const blurHashSize = 64

// Processor recompresses uploaded images: decode, scale into a bounded
// pixel envelope, and re-encode as JPEG. Original bytes are discarded.
type Processor struct {
	maxWidth    int
	maxHeight   int
	jpegQuality int
	logger      *slog.Logger
}

// NewProcessor creates a Processor with the given envelope and quality.
func NewProcessor(maxWidth, maxHeight, jpegQuality int, logger *slog.Logger) *Processor {
	return &Processor{
		maxWidth:    maxWidth,
		maxHeight:   maxHeight,
		jpegQuality: jpegQuality,
		logger:      logger,
	}
}

// Processed is the result of recompressing one image.
type Processed struct {
	Data     []byte // JPEG bytes
	Width    int
	Height   int
	BlurHash string
}

// Process decodes an uploaded image (JPEG, PNG, GIF, or WebP), scales it
// down to fit the envelope while preserving aspect ratio, and re-encodes it
// as JPEG. Images already inside the envelope keep their dimensions but are
// still re-encoded. Undecodable input returns an error.
func (p *Processor) Process(data []byte) (*Processed, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	scaled := scaleToFit(img, p.maxWidth, p.maxHeight)
	bounds := scaled.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	hash, err := computeBlurHash(scaled)
	if err != nil {
		// The payload is still usable without a placeholder.
		if p.logger != nil {
			p.logger.Warn("failed to compute blurhash", "error", err)
		}
		hash = ""
	}

	if p.logger != nil {
		p.logger.Debug("recompressed image",
			"format", format,
			"original_bytes", len(data),
			"jpeg_bytes", buf.Len(),
			"width", bounds.Dx(),
			"height", bounds.Dy(),
		)
	}

	return &Processed{
		Data:     buf.Bytes(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		BlurHash: hash,
	}, nil
}

// scaleToFit downscales img to fit inside maxWidth x maxHeight, preserving
// aspect ratio. Images already inside the envelope are returned unchanged.
func scaleToFit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxWidth && srcHeight <= maxHeight {
		return img
	}

	ratio := min(
		float64(maxWidth)/float64(srcWidth),
		float64(maxHeight)/float64(srcHeight),
	)
	dstWidth := max(int(float64(srcWidth)*ratio), 1)
	dstHeight := max(int(float64(srcHeight)*ratio), 1)

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// computeBlurHash generates a BlurHash placeholder string from an image.
// Uses 4x3 components for a good balance of size (~20-30 chars) and detail.
// The image is resized to a small thumbnail first for performance.
func computeBlurHash(img image.Image) (string, error) {
	thumbnail := resizeForBlurHash(img)

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// resizeForBlurHash creates a small thumbnail suitable for BlurHash
// computation. Nearest-neighbor scaling is fast and sufficient here.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = max((srcHeight*blurHashSize)/srcWidth, 1)
	} else {
		dstHeight = blurHashSize
		dstWidth = max((srcWidth*blurHashSize)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
