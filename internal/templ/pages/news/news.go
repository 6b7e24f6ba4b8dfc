// Package news renders the article listing page.
package news

import (
	"context"
	"io"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/templ/components/pagination"
	"github.com/DukeRupert/matrixkit/internal/templ/layout"
	"github.com/DukeRupert/matrixkit/internal/templ/shared"
	"github.com/a-h/templ"
)

// PageData contains data for the news listing.
type PageData struct {
	Articles   []domain.Article
	Pagination pagination.Data
	Config     pagination.Config
}

// Page renders the full listing document.
func Page(data PageData) templ.Component {
	return layout.Base(layout.Page{
		Title:       "News",
		Description: "Latest news",
		Body:        List(data),
	})
}

// List renders the article list and its pagination, for full pages and
// fragment swaps alike.
func List(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := shared.NewWriter(w)
		b.Raw(`<section id="news-results" class="space-y-6"><h1 class="text-3xl font-bold">News</h1>`)
		b.Render(ctx, pagination.Summary(data.Pagination))

		if len(data.Articles) == 0 {
			b.Raw(`<p class="text-gray-600">No articles found.</p>`)
		} else {
			b.Raw(`<ol class="divide-y divide-gray-200">`)
			for _, a := range data.Articles {
				writeArticle(b, a)
			}
			b.Raw("</ol>")
		}

		b.Render(ctx, pagination.Nav(data.Pagination, data.Config))
		b.Raw("</section>")
		return b.Err()
	})
}

func writeArticle(b *shared.Writer, a domain.Article) {
	b.Raw(`<li class="flex gap-4 py-4">`)
	if a.ImageURL != "" {
		b.Raw(`<img class="h-20 w-32 flex-none rounded object-cover" alt="" loading="lazy"`)
		b.Attr("src", a.ImageURL)
		b.Raw(">")
	}
	b.Raw(`<div><h2 class="text-lg font-semibold"><a class="hover:underline"`)
	b.Attr("href", string(templ.URL(a.URL)))
	b.Raw(">")
	b.Text(a.Title)
	b.Raw("</a></h2>")
	if !a.PublishedAt.IsZero() {
		b.Raw(`<time class="text-sm text-gray-500"`)
		b.Attr("datetime", a.PublishedAt.Format("2006-01-02"))
		b.Raw(">")
		b.Text(a.PublishedAt.Format("2 January 2006"))
		b.Raw("</time>")
	}
	if a.Summary != "" {
		b.Raw(`<p class="mt-1 text-gray-700">`)
		b.Text(a.Summary)
		b.Raw("</p>")
	}
	b.Raw("</div></li>")
}
