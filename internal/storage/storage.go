// Package storage provides object storage for gallery images and manifests.
//
// This package defines a Storage interface with implementations for:
// - LocalStorage: File system storage for development
// - R2Storage: Cloudflare R2 (S3-compatible) storage for production
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for file storage operations.
//
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key with the given options.
	// Returns ErrKeyExists if the key already exists and opts.Overwrite is false.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key.
	// The caller must close the returned reader. Returns ErrNotFound if the
	// key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key.
	// This operation is idempotent.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the object at the specified key.
	// A zero expires asks for a permanent public URL where the provider has one.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object.
	// If empty, it is detected from the key's extension.
	ContentType string

	// MaxSize specifies the maximum allowed size in bytes. 0 means no limit.
	MaxSize int64

	// Overwrite allows replacing an existing object at the same key.
	Overwrite bool

	// Public sets the public-read ACL on R2. Informational for local storage.
	Public bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where files are stored.
	BasePath string

	// BaseURL is the public URL prefix for accessing files.
	// Example: "http://localhost:8080/files"
	BaseURL string
}

// R2Config holds configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string

	// PublicURL is the bucket's public URL (custom domain). If empty,
	// presigned URLs are used for all access.
	PublicURL string

	// Region defaults to "auto"; R2 ignores it but the SDK requires one.
	Region string
}

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderR2 identifies the Cloudflare R2 storage provider.
	ProviderR2 = "r2"
)

// =============================================================================
// Key Generation Helpers
// =============================================================================

// GalleryManifestKey returns the key of a gallery's manifest.
// Format: galleries/{slug}/manifest.json
func GalleryManifestKey(slug string) string {
	return fmt.Sprintf("galleries/%s/manifest.json", slug)
}

// GalleryImageKey generates a storage key for an uploaded gallery image.
// Format: galleries/{slug}/images/{uuid}.{ext}
func GalleryImageKey(slug, filename string, id uuid.UUID) string {
	return fmt.Sprintf("galleries/%s/images/%s%s", slug, id, strings.ToLower(filepath.Ext(filename)))
}

// GalleryTileKey generates a storage key for a resized mosaic tile.
// Tiles are always JPEG.
// Format: galleries/{slug}/tiles/{uuid}.jpg
func GalleryTileKey(slug string, id uuid.UUID) string {
	return fmt.Sprintf("galleries/%s/tiles/%s.jpg", slug, id)
}
