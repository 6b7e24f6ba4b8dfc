// Package mosaic renders a packed gallery as a tiled grid.
package mosaic

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/DukeRupert/matrixkit/internal/templ/shared"
	"github.com/a-h/templ"
)

const (
	sectionClass  = "space-y-4"
	gridClass     = "grid grid-cols-2 gap-2 md:grid-cols-4 auto-rows-[12rem]"
	tileClass     = "relative overflow-hidden rounded-lg bg-gray-100"
	verticalClass = "row-span-2"
	imgClass      = "h-full w-full object-cover"
	moreClass     = "absolute inset-0 flex items-center justify-center bg-black/60 text-2xl font-semibold text-white"
)

// Config controls the "+N more" link and outer classes.
type Config struct {
	MoreURL   string // where the overflow tile links; the tile is not a link if empty
	ClassName string
}

// Gallery renders the packed tiles of view. When images were left out, the
// last tile carries a "+N more" overlay.
func Gallery(view domain.GalleryView, cfg Config) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := shared.NewWriter(w)
		titleID := "gallery-" + view.Slug + "-title"

		b.Raw("<section")
		b.Attr("class", shared.Class(sectionClass, cfg.ClassName))
		b.Attr("aria-labelledby", titleID)
		b.Raw(">")
		b.Raw(`<h2 class="text-2xl font-semibold text-gray-900"`)
		b.Attr("id", titleID)
		b.Raw(">")
		b.Text(view.Title)
		b.Raw("</h2>")

		if len(view.Tiles) == 0 {
			b.Raw(`<p class="text-gray-600">No images yet.</p></section>`)
			return b.Err()
		}

		b.Raw("<ul")
		b.Attr("class", gridClass)
		b.Attr("data-pattern", view.Pattern)
		b.Raw(">")
		last := len(view.Tiles) - 1
		for i, tile := range view.Tiles {
			more := 0
			if i == last {
				more = view.OverflowCount
			}
			writeTile(b, tile, more, cfg.MoreURL)
		}
		b.Raw("</ul></section>")
		return b.Err()
	})
}

func writeTile(b *shared.Writer, tile mosaic.Item, more int, moreURL string) {
	class := tileClass
	if tile.Orientation == mosaic.Vertical {
		class = shared.Class(tileClass, verticalClass)
	}

	b.Raw("<li")
	b.Attr("class", class)
	b.Attr("data-orientation", tile.Orientation.String())
	b.Raw("><figure class=\"h-full\"><img")
	b.Attr("src", tile.URL)
	b.Raw(` alt="`, templ.EscapeString(tile.Alt), `"`)
	if tile.Width > 0 && tile.Height > 0 {
		b.Attr("width", strconv.Itoa(tile.Width))
		b.Attr("height", strconv.Itoa(tile.Height))
	}
	b.Attr("class", imgClass)
	b.Attr("loading", "lazy")
	b.Raw(">")
	if tile.Caption != "" {
		b.Raw(`<figcaption class="sr-only">`)
		b.Text(tile.Caption)
		b.Raw("</figcaption>")
	}
	b.Raw("</figure>")

	if more > 0 {
		label := fmt.Sprintf("+%d more", more)
		if moreURL != "" {
			b.Raw("<a")
			b.Attr("href", moreURL)
			b.Attr("class", moreClass)
			b.Attr("aria-label", fmt.Sprintf("View %d more images", more))
			b.Raw(">")
			b.Text(label)
			b.Raw("</a>")
		} else {
			b.Raw("<span")
			b.Attr("class", moreClass)
			b.Raw(">")
			b.Text(label)
			b.Raw("</span>")
		}
	}
	b.Raw("</li>")
}
