// Package layout provides the document shell pages render into.
package layout

import (
	"context"
	"io"

	"github.com/DukeRupert/matrixkit/internal/templ/shared"
	"github.com/a-h/templ"
)

// Page describes the document around a page body.
type Page struct {
	Title       string
	Description string
	Body        templ.Component
}

// Base renders a full HTML document.
func Base(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := shared.NewWriter(w)
		b.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.Raw("<title>")
		b.Text(p.Title)
		b.Raw("</title>")
		if p.Description != "" {
			b.Raw(`<meta name="description"`)
			b.Attr("content", p.Description)
			b.Raw(">")
		}
		b.Raw(`<link rel="stylesheet" href="/static/app.css"></head>`)
		b.Raw(`<body class="bg-white text-gray-900 antialiased"><main class="mx-auto max-w-5xl px-4 py-8">`)
		b.Render(ctx, p.Body)
		b.Raw("</main></body></html>")
		return b.Err()
	})
}
