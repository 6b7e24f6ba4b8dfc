package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/metrics"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/DukeRupert/matrixkit/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// Interface Definition
// =============================================================================

// GalleryService manages gallery manifests and packs them into mosaics.
type GalleryService interface {
	// Get loads the gallery and packs its images with the configured patterns.
	// Returns domain.ENOTFOUND if the gallery has no manifest.
	Get(ctx context.Context, slug string) (*domain.GalleryView, error)

	// AddImage stores an uploaded image and its tile and appends it to the
	// gallery manifest, creating the gallery on first upload.
	// Returns domain.EINVALID for unsupported or undecodable images and
	// domain.ETOOLARGE for oversized uploads.
	AddImage(ctx context.Context, params domain.AddGalleryImageParams, data io.Reader) (*domain.GalleryImage, error)
}

// errUnreadableImage wraps decode failures of stored gallery images.
var errUnreadableImage = errors.New("unreadable image")

// GalleryLayout holds the patterns galleries are packed with.
type GalleryLayout struct {
	Patterns         []mosaic.Pattern
	OverflowPatterns []mosaic.Pattern
}

// =============================================================================
// Implementation
// =============================================================================

type galleryService struct {
	storage   storage.Storage
	processor ImageProcessor
	layout    GalleryLayout
	logger    *slog.Logger

	// mu serializes manifest read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(store storage.Storage, processor ImageProcessor, layout GalleryLayout, logger *slog.Logger) GalleryService {
	return &galleryService{
		storage:   store,
		processor: processor,
		layout:    layout,
		logger:    logger,
	}
}

// =============================================================================
// Get
// =============================================================================

func (s *galleryService) Get(ctx context.Context, slug string) (*domain.GalleryView, error) {
	const op = "gallery.get"

	if err := domain.ValidateSlug(slug); err != nil {
		return nil, err
	}

	gallery, err := s.loadManifest(ctx, op, slug)
	if err != nil {
		return nil, err
	}

	if s.classifyMissing(ctx, gallery) {
		if err := s.persistClassified(ctx, op, gallery); err != nil {
			s.logger.Warn("failed to persist classified orientations", "slug", slug, "error", err)
		}
	}

	items := make([]mosaic.Item, 0, len(gallery.Images))
	for i := range gallery.Images {
		img := &gallery.Images[i]
		url, err := s.imageURL(ctx, img)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to resolve image URL")
		}
		items = append(items, mosaic.Item{
			Orientation: img.Orientation,
			URL:         url,
			Alt:         img.Alt,
			Caption:     img.Caption,
			Width:       img.Width,
			Height:      img.Height,
		})
	}

	packed := mosaic.Pack(items, s.layout.Patterns, s.layout.OverflowPatterns)
	metrics.MosaicPacked(packed.Pattern, packed.OverflowCount)

	return &domain.GalleryView{
		Slug:          gallery.Slug,
		Title:         gallery.Title,
		Tiles:         packed.Placed,
		Pattern:       packed.Pattern,
		OverflowCount: packed.OverflowCount,
		TotalImages:   len(items),
		Images:        items,
	}, nil
}

// classifyMissing fills in orientations absent from the manifest, from the
// recorded dimensions when present and otherwise by decoding the stored
// image. Images that cannot be classified stay unclassified and end up in the
// overflow count. Reports whether anything changed.
func (s *galleryService) classifyMissing(ctx context.Context, gallery *domain.Gallery) bool {
	changed := false
	for i := range gallery.Images {
		img := &gallery.Images[i]
		if img.Orientation.IsValid() || img.Unreadable {
			continue
		}

		if img.Width > 0 && img.Height > 0 {
			img.Orientation = mosaic.Classify(img.Width, img.Height)
		} else {
			w, h, o, err := s.detectStored(ctx, img.StorageKey)
			if err != nil {
				s.logger.Warn("failed to classify gallery image",
					"slug", gallery.Slug,
					"key", img.StorageKey,
					"error", err,
				)
				if errors.Is(err, errUnreadableImage) || storage.IsNotFound(err) {
					img.Unreadable = true
					changed = true
				}
				continue
			}
			img.Width, img.Height, img.Orientation = w, h, o
		}

		metrics.ImageClassified(img.Orientation.String())
		changed = true
	}
	return changed
}

// persistClassified copies classifications onto a freshly loaded manifest so
// uploads that landed since gallery was read are kept.
func (s *galleryService) persistClassified(ctx context.Context, op string, gallery *domain.Gallery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classified := make(map[uuid.UUID]domain.GalleryImage, len(gallery.Images))
	for _, img := range gallery.Images {
		if img.Orientation.IsValid() || img.Unreadable {
			classified[img.ID] = img
		}
	}

	current, err := s.loadManifest(ctx, op, gallery.Slug)
	if err != nil {
		return err
	}
	for i := range current.Images {
		img := &current.Images[i]
		if c, ok := classified[img.ID]; ok && !img.Orientation.IsValid() {
			img.Width, img.Height, img.Orientation = c.Width, c.Height, c.Orientation
			img.Unreadable = c.Unreadable
		}
	}
	return s.saveManifest(ctx, current)
}

func (s *galleryService) detectStored(ctx context.Context, key string) (int, int, mosaic.Orientation, error) {
	rc, _, err := s.storage.Get(ctx, key)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rc.Close()

	w, h, o, err := s.processor.Detect(rc)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %w", errUnreadableImage, err)
	}
	return w, h, o, nil
}

func (s *galleryService) imageURL(ctx context.Context, img *domain.GalleryImage) (string, error) {
	key := img.ThumbnailKey
	if key == "" {
		key = img.StorageKey
	}
	return s.storage.URL(ctx, key, 0)
}

// =============================================================================
// AddImage
// =============================================================================

func (s *galleryService) AddImage(ctx context.Context, params domain.AddGalleryImageParams, data io.Reader) (*domain.GalleryImage, error) {
	const op = "gallery.add_image"

	img, err := s.addImage(ctx, op, params, data)
	metrics.UploadCompleted(err == nil)
	return img, err
}

func (s *galleryService) addImage(ctx context.Context, op string, params domain.AddGalleryImageParams, data io.Reader) (*domain.GalleryImage, error) {
	if err := domain.ValidateSlug(params.Slug); err != nil {
		return nil, err
	}
	if params.SizeBytes > 0 {
		if err := domain.ValidateImageSize(params.SizeBytes); err != nil {
			return nil, err
		}
	}

	fileData, err := io.ReadAll(io.LimitReader(data, domain.MaxImageSize+1))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read image data")
	}
	if err := domain.ValidateImageSize(int64(len(fileData))); err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(fileData)
	if !domain.IsValidImageContentType(contentType) {
		return nil, domain.Invalid(op, "Unsupported image type: "+contentType+". Only JPEG, PNG and GIF are supported.")
	}

	tile, width, height, err := s.processor.GenerateTile(bytes.NewReader(fileData), domain.ThumbnailMaxWidth, domain.ThumbnailMaxHeight)
	if err != nil {
		if domain.ErrorCode(err) == domain.EINVALID {
			return nil, err
		}
		return nil, domain.Invalid(op, "Image could not be decoded")
	}

	id := uuid.New()
	image := domain.GalleryImage{
		ID:           id,
		StorageKey:   storage.GalleryImageKey(params.Slug, params.Filename, id),
		ThumbnailKey: storage.GalleryTileKey(params.Slug, id),
		Alt:          strings.TrimSpace(params.Alt),
		Caption:      strings.TrimSpace(params.Caption),
		Orientation:  mosaic.Classify(width, height),
		Width:        width,
		Height:       height,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileData)),
	}

	if err := s.storage.Put(ctx, image.StorageKey, bytes.NewReader(fileData), storage.PutOptions{
		ContentType: contentType,
		MaxSize:     domain.MaxImageSize,
		Public:      true,
	}); err != nil {
		return nil, domain.Internal(err, op, "failed to store image")
	}

	if err := s.storage.Put(ctx, image.ThumbnailKey, bytes.NewReader(tile), storage.PutOptions{
		ContentType: "image/jpeg",
		Public:      true,
	}); err != nil {
		_ = s.storage.Delete(ctx, image.StorageKey)
		return nil, domain.Internal(err, op, "failed to store tile")
	}

	if err := s.appendToManifest(ctx, op, params.Slug, image); err != nil {
		_ = s.storage.Delete(ctx, image.StorageKey)
		_ = s.storage.Delete(ctx, image.ThumbnailKey)
		return nil, err
	}

	metrics.ImageClassified(image.Orientation.String())

	image.URL, err = s.imageURL(ctx, &image)
	if err != nil {
		s.logger.Warn("failed to resolve uploaded image URL", "key", image.ThumbnailKey, "error", err)
	}

	s.logger.Info("gallery image added",
		"slug", params.Slug,
		"image_id", image.ID,
		"orientation", image.Orientation.String(),
		"width", width,
		"height", height,
	)

	return &image, nil
}

func (s *galleryService) appendToManifest(ctx context.Context, op, slug string, image domain.GalleryImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gallery, err := s.loadManifest(ctx, op, slug)
	if err != nil {
		if domain.ErrorCode(err) != domain.ENOTFOUND {
			return err
		}
		gallery = &domain.Gallery{Slug: slug, Title: TitleFromSlug(slug)}
	}

	gallery.Images = append(gallery.Images, image)
	if err := s.saveManifest(ctx, gallery); err != nil {
		return domain.Internal(err, op, "failed to save gallery manifest")
	}
	return nil
}

// =============================================================================
// Manifest I/O
// =============================================================================

func (s *galleryService) loadManifest(ctx context.Context, op, slug string) (*domain.Gallery, error) {
	rc, _, err := s.storage.Get(ctx, storage.GalleryManifestKey(slug))
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, domain.NotFound(op, "gallery", slug)
		}
		return nil, domain.Internal(err, op, "failed to load gallery manifest")
	}
	defer rc.Close()

	var gallery domain.Gallery
	if err := json.NewDecoder(rc).Decode(&gallery); err != nil {
		return nil, domain.Internal(err, op, "failed to decode gallery manifest")
	}
	if gallery.Slug == "" {
		gallery.Slug = slug
	}
	if gallery.Title == "" {
		gallery.Title = TitleFromSlug(slug)
	}
	return &gallery, nil
}

func (s *galleryService) saveManifest(ctx context.Context, gallery *domain.Gallery) error {
	gallery.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(gallery, "", "  ")
	if err != nil {
		return err
	}
	return s.storage.Put(ctx, storage.GalleryManifestKey(gallery.Slug), bytes.NewReader(data), storage.PutOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
}

// TitleFromSlug turns "spring-open-day" into "Spring Open Day".
func TitleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}
