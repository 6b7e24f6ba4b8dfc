package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/DukeRupert/matrixkit/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// oversizedPNG returns a tiny PNG whose header claims w x h pixels.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// IHDR: length(8:12) type(12:16) width(16:20) height(20:24) ... crc(29:33)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// countingProcessor counts Detect calls on the wrapped processor.
type countingProcessor struct {
	ImageProcessor
	detects int
}

func (p *countingProcessor) Detect(data io.Reader) (int, int, mosaic.Orientation, error) {
	p.detects++
	return p.ImageProcessor.Detect(data)
}

func newTestGalleryService(t *testing.T, patterns, overflow string) (GalleryService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/files",
	}, testLogger())
	require.NoError(t, err)

	svc := NewGalleryService(store, NewImagingProcessor(), GalleryLayout{
		Patterns:         mosaic.MustParsePatterns(patterns),
		OverflowPatterns: mosaic.MustParsePatterns(overflow),
	}, testLogger())
	return svc, store
}

func addPNG(t *testing.T, svc GalleryService, slug string, w, h int) *domain.GalleryImage {
	t.Helper()
	img, err := svc.AddImage(context.Background(), domain.AddGalleryImageParams{
		Slug:     slug,
		Filename: "photo.PNG",
		Alt:      " A photo ",
	}, bytes.NewReader(pngBytes(t, w, h)))
	require.NoError(t, err)
	return img
}

func readManifest(t *testing.T, store storage.Storage, slug string) domain.Gallery {
	t.Helper()
	rc, _, err := store.Get(context.Background(), storage.GalleryManifestKey(slug))
	require.NoError(t, err)
	defer rc.Close()
	var g domain.Gallery
	require.NoError(t, json.NewDecoder(rc).Decode(&g))
	return g
}

// =============================================================================
// Image Processor Tests
// =============================================================================

func TestImagingProcessor_Detect(t *testing.T) {
	p := NewImagingProcessor()

	tests := []struct {
		name string
		w, h int
		want mosaic.Orientation
	}{
		{"landscape", 40, 20, mosaic.Horizontal},
		{"portrait", 20, 40, mosaic.Vertical},
		{"square", 30, 30, mosaic.Horizontal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, o, err := p.Detect(bytes.NewReader(pngBytes(t, tt.w, tt.h)))
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.want, o)
		})
	}

	_, _, _, err := p.Detect(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestImagingProcessor_GenerateTile(t *testing.T) {
	tile, w, h, err := NewImagingProcessor().GenerateTile(bytes.NewReader(pngBytes(t, 1600, 400)), 800, 800)
	require.NoError(t, err)
	assert.Equal(t, 1600, w)
	assert.Equal(t, 400, h)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(tile))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestImagingProcessor_RejectsHugeDimensions(t *testing.T) {
	p := NewImagingProcessor()
	data := oversizedPNG(t, 100_000, 100_000)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 100_000, cfg.Width)

	_, _, _, err = p.Detect(bytes.NewReader(data))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, _, _, err = p.GenerateTile(bytes.NewReader(data), 800, 800)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Contains(t, domain.ErrorMessage(err), "megapixel limit")
}

// =============================================================================
// AddImage Tests
// =============================================================================

func TestGalleryService_AddImage_CreatesGallery(t *testing.T) {
	svc, store := newTestGalleryService(t, "h,h", "h")

	img := addPNG(t, svc, "spring-open-day", 40, 20)

	assert.Equal(t, mosaic.Horizontal, img.Orientation)
	assert.Equal(t, "A photo", img.Alt)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasSuffix(img.StorageKey, ".png"))
	assert.Equal(t, "/files/"+img.ThumbnailKey, img.URL)

	for _, key := range []string{img.StorageKey, img.ThumbnailKey} {
		ok, err := store.Exists(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}

	g := readManifest(t, store, "spring-open-day")
	assert.Equal(t, "Spring Open Day", g.Title)
	require.Len(t, g.Images, 1)
	assert.Equal(t, img.ID, g.Images[0].ID)
	assert.Equal(t, mosaic.Horizontal, g.Images[0].Orientation)
	assert.False(t, g.UpdatedAt.IsZero())
}

func TestGalleryService_AddImage_Rejects(t *testing.T) {
	svc, _ := newTestGalleryService(t, "h", "h")
	ctx := context.Background()

	_, err := svc.AddImage(ctx, domain.AddGalleryImageParams{Slug: "Bad Slug"}, bytes.NewReader(pngBytes(t, 2, 2)))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.AddImage(ctx, domain.AddGalleryImageParams{Slug: "ok"}, strings.NewReader("plain text, not an image"))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.AddImage(ctx, domain.AddGalleryImageParams{Slug: "ok", SizeBytes: domain.MaxImageSize + 1}, bytes.NewReader(pngBytes(t, 2, 2)))
	assert.Equal(t, domain.ETOOLARGE, domain.ErrorCode(err))

	_, err = svc.AddImage(ctx, domain.AddGalleryImageParams{Slug: "ok"}, strings.NewReader(""))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.AddImage(ctx, domain.AddGalleryImageParams{Slug: "ok"}, bytes.NewReader(oversizedPNG(t, 10_000, 10_000)))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Contains(t, domain.ErrorMessage(err), "10000x10000")
}

// =============================================================================
// Get Tests
// =============================================================================

func TestGalleryService_Get_PacksMosaic(t *testing.T) {
	svc, _ := newTestGalleryService(t, "v|h,h,h,h", "h,h")

	for i := 0; i < 5; i++ {
		addPNG(t, svc, "campus", 40, 20)
	}
	addPNG(t, svc, "campus", 20, 40)

	view, err := svc.Get(context.Background(), "campus")
	require.NoError(t, err)

	assert.Equal(t, "campus", view.Slug)
	assert.Equal(t, "v|h,h,h,h", view.Pattern)
	assert.Equal(t, 6, view.TotalImages)
	assert.Len(t, view.Images, 6, "every image stays listed for the view-all page")
	assert.Equal(t, 1, view.OverflowCount)
	require.Len(t, view.Tiles, 5)
	assert.Equal(t, mosaic.Vertical, view.Tiles[0].Orientation)
	for _, tile := range view.Tiles[1:] {
		assert.Equal(t, mosaic.Horizontal, tile.Orientation)
	}
}

func TestGalleryService_Get_FallsBackToOverflow(t *testing.T) {
	svc, _ := newTestGalleryService(t, "v|h,h,h,h", "h,h")

	addPNG(t, svc, "small", 40, 20)
	addPNG(t, svc, "small", 40, 20)
	addPNG(t, svc, "small", 40, 20)

	view, err := svc.Get(context.Background(), "small")
	require.NoError(t, err)
	assert.Equal(t, "h,h", view.Pattern)
	assert.Len(t, view.Tiles, 2)
	assert.Equal(t, 1, view.OverflowCount)
}

func TestGalleryService_Get_NotFound(t *testing.T) {
	svc, _ := newTestGalleryService(t, "h", "h")

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = svc.Get(context.Background(), "../etc")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestGalleryService_Get_ClassifiesMissingOrientations(t *testing.T) {
	svc, store := newTestGalleryService(t, "v,h", "h")
	ctx := context.Background()

	// A portrait image uploaded out of band, with nothing recorded about it.
	portraitKey := "galleries/imported/images/portrait.png"
	require.NoError(t, store.Put(ctx, portraitKey, bytes.NewReader(pngBytes(t, 20, 40)), storage.PutOptions{}))

	manifest := domain.Gallery{
		Slug: "imported",
		Images: []domain.GalleryImage{
			{ID: uuid.New(), StorageKey: "galleries/imported/images/wide.jpg", Width: 300, Height: 100},
			{ID: uuid.New(), StorageKey: portraitKey},
			{ID: uuid.New(), StorageKey: "galleries/imported/images/gone.png"},
		},
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, storage.GalleryManifestKey("imported"), bytes.NewReader(data), storage.PutOptions{}))

	view, err := svc.Get(ctx, "imported")
	require.NoError(t, err)

	assert.Equal(t, "Imported", view.Title)
	assert.Equal(t, "v,h", view.Pattern)
	require.Len(t, view.Tiles, 2)
	assert.Equal(t, "/files/"+portraitKey, view.Tiles[0].URL)
	assert.Equal(t, 1, view.OverflowCount, "unreadable image is left out")

	saved := readManifest(t, store, "imported")
	require.Len(t, saved.Images, 3)
	assert.Equal(t, mosaic.Horizontal, saved.Images[0].Orientation)
	assert.Equal(t, mosaic.Vertical, saved.Images[1].Orientation)
	assert.Equal(t, 20, saved.Images[1].Width)
	assert.False(t, saved.Images[2].Orientation.IsValid())
	assert.True(t, saved.Images[2].Unreadable)
}

func TestGalleryService_Get_SkipsUnreadableImages(t *testing.T) {
	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir(), BaseURL: "/files"}, testLogger())
	require.NoError(t, err)
	processor := &countingProcessor{ImageProcessor: NewImagingProcessor()}
	svc := NewGalleryService(store, processor, GalleryLayout{
		Patterns:         mosaic.MustParsePatterns("h"),
		OverflowPatterns: mosaic.MustParsePatterns("h"),
	}, testLogger())
	ctx := context.Background()

	brokenKey := "galleries/broken/images/broken.png"
	require.NoError(t, store.Put(ctx, brokenKey, strings.NewReader("not an image"), storage.PutOptions{}))
	data, err := json.Marshal(domain.Gallery{
		Slug:   "broken",
		Images: []domain.GalleryImage{{ID: uuid.New(), StorageKey: brokenKey}},
	})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, storage.GalleryManifestKey("broken"), bytes.NewReader(data), storage.PutOptions{}))

	for i := 0; i < 3; i++ {
		view, err := svc.Get(ctx, "broken")
		require.NoError(t, err)
		assert.Equal(t, 1, view.OverflowCount)
	}

	assert.Equal(t, 1, processor.detects)
	assert.True(t, readManifest(t, store, "broken").Images[0].Unreadable)
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Spring Open Day", TitleFromSlug("spring-open-day"))
	assert.Equal(t, "2024 Graduation", TitleFromSlug("2024-graduation"))
}
