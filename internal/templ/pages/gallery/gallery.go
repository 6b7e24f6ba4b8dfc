// Package gallery renders a gallery page.
package gallery

import (
	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/templ/components/mosaic"
	"github.com/DukeRupert/matrixkit/internal/templ/layout"
	"github.com/a-h/templ"
)

// Page renders the full gallery document.
func Page(view domain.GalleryView) templ.Component {
	return layout.Base(layout.Page{
		Title: view.Title,
		Body:  mosaic.Gallery(view, mosaic.Config{MoreURL: "/galleries/" + view.Slug + "?view=all"}),
	})
}
