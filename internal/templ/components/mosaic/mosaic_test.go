package mosaic

import (
	"context"
	"strings"
	"testing"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, view domain.GalleryView, cfg Config) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Gallery(view, cfg).Render(context.Background(), &sb))
	return sb.String()
}

func TestGallery_Tiles(t *testing.T) {
	view := domain.GalleryView{
		Slug:    "open-day",
		Title:   "Open Day <2024>",
		Pattern: "v|h,h",
		Tiles: []mosaic.Item{
			{Orientation: mosaic.Vertical, URL: "/files/a.jpg", Alt: "Quad", Width: 600, Height: 800},
			{Orientation: mosaic.Horizontal, URL: "/files/b.jpg", Caption: "Library"},
			{Orientation: mosaic.Horizontal, URL: "/files/c.jpg"},
		},
		OverflowCount: 2,
		TotalImages:   5,
	}

	out := render(t, view, Config{MoreURL: "/galleries/open-day/all"})

	assert.Contains(t, out, `aria-labelledby="gallery-open-day-title"`)
	assert.Contains(t, out, `>Open Day &lt;2024&gt;</h2>`)
	assert.Contains(t, out, `data-pattern="v|h,h"`)
	assert.Equal(t, 3, strings.Count(out, "<li"))
	assert.Contains(t, out, `class="relative overflow-hidden rounded-lg bg-gray-100 row-span-2" data-orientation="v"`)
	assert.Contains(t, out, `src="/files/a.jpg" alt="Quad" width="600" height="800"`)
	assert.Contains(t, out, `src="/files/c.jpg" alt="" class=`)
	assert.Contains(t, out, `<figcaption class="sr-only">Library</figcaption>`)

	// overlay only on the last tile
	assert.Equal(t, 1, strings.Count(out, "+2 more"))
	assert.True(t, strings.Index(out, "+2 more") > strings.Index(out, "/files/c.jpg"))
	assert.Contains(t, out, `href="/galleries/open-day/all"`)
}

func TestGallery_NoOverflowNoOverlay(t *testing.T) {
	out := render(t, domain.GalleryView{
		Slug:  "g",
		Tiles: []mosaic.Item{{Orientation: mosaic.Horizontal, URL: "/x.jpg"}},
	}, Config{})
	assert.NotContains(t, out, "more")
}

func TestGallery_OverlayWithoutLink(t *testing.T) {
	out := render(t, domain.GalleryView{
		Slug:          "g",
		Tiles:         []mosaic.Item{{Orientation: mosaic.Horizontal, URL: "/x.jpg"}},
		OverflowCount: 1,
	}, Config{})
	assert.Contains(t, out, ">+1 more</span>")
	assert.NotContains(t, out, "<a")
}

func TestGallery_Empty(t *testing.T) {
	out := render(t, domain.GalleryView{Slug: "g", Title: "Empty", OverflowCount: 3}, Config{})
	assert.Contains(t, out, "No images yet.")
	assert.NotContains(t, out, "<ul")
}
