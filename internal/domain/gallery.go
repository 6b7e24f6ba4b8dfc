// Package domain contains core content types shared by services and handlers.
//
// This file defines galleries: editor-curated image sets rendered as mosaics.
package domain

import (
	"regexp"
	"time"

	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/google/uuid"
)

// =============================================================================
// Gallery Constants
// =============================================================================

// SupportedImageTypes maps MIME types to their human-readable names.
var SupportedImageTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

const (
	// MaxImageSize is the maximum allowed size for uploaded gallery images (20MB).
	MaxImageSize = 20 * 1024 * 1024

	// MaxImagePixels caps width*height of an uploaded image (50 megapixels).
	// Decoding allocates per pixel, so the byte size alone is not enough.
	MaxImagePixels = 50_000_000

	// ThumbnailMaxWidth is the maximum width of a mosaic tile image.
	ThumbnailMaxWidth = 800

	// ThumbnailMaxHeight is the maximum height of a mosaic tile image.
	ThumbnailMaxHeight = 800

	// ThumbnailJPEGQuality is the JPEG quality for tile images (0-100).
	ThumbnailJPEGQuality = 85
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// =============================================================================
// Gallery Types
// =============================================================================

// Gallery is the manifest stored alongside a gallery's images.
type Gallery struct {
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Images    []GalleryImage `json:"images"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GalleryImage is one image in a gallery manifest.
//
// Orientation may be empty for images added outside the upload endpoint; the
// gallery service classifies those from their pixel dimensions.
type GalleryImage struct {
	ID           uuid.UUID          `json:"id"`
	StorageKey   string             `json:"storage_key"`
	ThumbnailKey string             `json:"thumbnail_key,omitempty"`
	Alt          string             `json:"alt,omitempty"`
	Caption      string             `json:"caption,omitempty"`
	Orientation  mosaic.Orientation `json:"orientation,omitempty"`
	Width        int                `json:"width,omitempty"`
	Height       int                `json:"height,omitempty"`
	ContentType  string             `json:"content_type,omitempty"`
	SizeBytes    int64              `json:"size_bytes,omitempty"`

	// Unreadable marks an image whose stored object is missing or could not
	// be decoded, so it is not fetched again on every view.
	Unreadable bool `json:"unreadable,omitempty"`

	// Computed fields (not stored in the manifest)
	URL string `json:"-"`
}

// GalleryView is a packed gallery ready for rendering.
type GalleryView struct {
	Slug          string
	Title         string
	Tiles         []mosaic.Item
	Pattern       string
	OverflowCount int
	TotalImages   int

	// Images holds every image in manifest order, for the "view all" listing.
	Images []mosaic.Item
}

// Unpacked returns a copy of v that shows every image and no overflow tile.
func (v GalleryView) Unpacked() GalleryView {
	v.Tiles = v.Images
	v.Pattern = ""
	v.OverflowCount = 0
	return v
}

// AddGalleryImageParams contains parameters for adding an image to a gallery.
type AddGalleryImageParams struct {
	Slug        string
	Filename    string
	ContentType string
	Alt         string
	Caption     string
	SizeBytes   int64
}

// =============================================================================
// Validation Helpers
// =============================================================================

// ValidateSlug checks a gallery slug is lowercase words joined by hyphens.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return Invalid("gallery.validate", "Gallery slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

// IsValidImageContentType checks if the content type is supported.
func IsValidImageContentType(contentType string) bool {
	_, ok := SupportedImageTypes[contentType]
	return ok
}

// ValidateImageSize checks if the file size is within limits.
func ValidateImageSize(size int64) error {
	if size > MaxImageSize {
		return Errorf(ETOOLARGE, "image.validate", "Image size %d bytes exceeds maximum of %d bytes (%.1fMB)", size, MaxImageSize, float64(MaxImageSize)/(1024*1024))
	}
	if size == 0 {
		return Invalid("image.validate", "Image file is empty")
	}
	return nil
}
