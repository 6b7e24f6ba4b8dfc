// Package service contains the content logic behind the HTTP handlers.
//
// This file implements image inspection and tile generation for gallery
// uploads.
package service

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/disintegration/imaging"
)

// =============================================================================
// Interface Definition
// =============================================================================

// ImageProcessor inspects and resizes gallery images.
type ImageProcessor interface {
	// Detect decodes the image, applying any EXIF orientation tag, and returns
	// its displayed width, height and mosaic orientation.
	Detect(data io.Reader) (width, height int, orientation mosaic.Orientation, err error)

	// GenerateTile returns a JPEG resized to fit within maxWidth x maxHeight,
	// along with the displayed width and height of the source image.
	GenerateTile(data io.Reader, maxWidth, maxHeight int) ([]byte, int, int, error)
}

// =============================================================================
// Implementation
// =============================================================================

type imagingProcessor struct{}

// NewImagingProcessor creates an ImageProcessor backed by the imaging library.
func NewImagingProcessor() ImageProcessor {
	return &imagingProcessor{}
}

func (p *imagingProcessor) Detect(data io.Reader) (int, int, mosaic.Orientation, error) {
	img, err := decodeBounded(data)
	if err != nil {
		return 0, 0, 0, err
	}

	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), mosaic.Classify(bounds.Dx(), bounds.Dy()), nil
}

// GenerateTile keeps the aspect ratio, so a portrait photo stays portrait and
// lands in a vertical slot.
func (p *imagingProcessor) GenerateTile(data io.Reader, maxWidth, maxHeight int) ([]byte, int, int, error) {
	img, err := decodeBounded(data)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	tile := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, tile, imaging.JPEG, imaging.JPEGQuality(domain.ThumbnailJPEGQuality)); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode tile: %w", err)
	}

	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

// decodeBounded reads the image header before decoding and rejects images
// larger than domain.MaxImagePixels with an EINVALID error.
func decodeBounded(data io.Reader) (image.Image, error) {
	const op = "image.decode"

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > domain.MaxImagePixels {
		return nil, domain.Errorf(domain.EINVALID, op,
			"Image is %dx%d pixels, larger than the %d megapixel limit",
			cfg.Width, cfg.Height, domain.MaxImagePixels/1_000_000)
	}

	img, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
