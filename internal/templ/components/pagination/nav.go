package pagination

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/DukeRupert/matrixkit/internal/templ/shared"
	"github.com/a-h/templ"
)

const (
	navClass      = "flex items-center justify-between gap-4 border-t border-gray-200 pt-4"
	listClass     = "flex items-center gap-1"
	buttonClass   = "inline-flex min-w-9 items-center justify-center rounded-md px-3 py-2 text-sm font-medium text-gray-700 hover:bg-gray-100"
	currentClass  = "bg-indigo-600 text-white hover:bg-indigo-600"
	disabledClass = "pointer-events-none text-gray-300"
)

// Nav renders the pagination bar. It renders nothing when there is only one
// page.
func Nav(data Data, cfg Config) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res := data.Result
		if !res.ShouldRender() {
			return nil
		}

		b := shared.NewWriter(w)
		b.Raw("<nav")
		b.Attr("class", shared.Class(navClass, cfg.ClassName))
		b.Attr("aria-label", cfg.label())
		b.Raw(">")

		step(b, cfg, "Previous", "prev", res.PreviousOffset, res.HasPrevious())

		b.Raw(`<ol class="`, listClass, `">`)
		for _, p := range res.Visible {
			b.Raw("<li><a")
			b.Attr("href", cfg.PageURL(p.Offset))
			if p.Current {
				b.Attr("class", shared.Class(buttonClass, currentClass))
				b.Attr("aria-current", "page")
			} else {
				b.Attr("class", buttonClass)
			}
			b.Attr("aria-label", fmt.Sprintf("Page %d", p.Number))
			b.Raw(">", strconv.Itoa(p.Number), "</a></li>")
		}
		b.Raw("</ol>")

		step(b, cfg, "Next", "next", res.NextOffset, res.HasNext())

		b.Raw("</nav>")
		return b.Err()
	})
}

// step renders the previous/next control, as a disabled span at either end.
func step(b *shared.Writer, cfg Config, label, rel string, offset int, enabled bool) {
	if !enabled {
		b.Raw("<span")
		b.Attr("class", shared.Class(buttonClass, disabledClass))
		b.Attr("aria-disabled", "true")
		b.Raw(">")
		b.Text(label)
		b.Raw("</span>")
		return
	}
	b.Raw("<a")
	b.Attr("href", cfg.PageURL(offset))
	b.Attr("class", buttonClass)
	b.Attr("rel", rel)
	b.Raw(">")
	b.Text(label)
	b.Raw("</a>")
}

// Summary renders "Showing 11–20 of 57 results", or nothing for an empty listing.
func Summary(data Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Total == 0 || data.First == 0 {
			return nil
		}
		b := shared.NewWriter(w)
		b.Raw(`<p class="text-sm text-gray-600">`)
		b.Text(fmt.Sprintf("Showing %d–%d of %d results", data.First, data.Last, data.Total))
		b.Raw("</p>")
		return b.Err()
	})
}
