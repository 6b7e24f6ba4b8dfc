// Package pagination renders the numbered pagination bar for listings.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/DukeRupert/matrixkit/internal/pagination"
)

// DefaultParam is the query parameter carrying the 1-based start offset.
const DefaultParam = "start_rank"

// Config controls where pagination links point and how the bar looks.
type Config struct {
	BaseURL   string     // e.g. "/news"
	Param     string     // offset query parameter, DefaultParam if empty
	Query     url.Values // other parameters to preserve, such as num_ranks
	Label     string     // aria-label for the nav, "Pagination" if empty
	ClassName string     // merged over the default nav classes
}

// PageURL returns the link for the page starting at offset.
func (c Config) PageURL(offset int) string {
	q := url.Values{}
	for k, v := range c.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(c.param(), strconv.Itoa(offset))
	return c.BaseURL + "?" + q.Encode()
}

func (c Config) param() string {
	if c.Param == "" {
		return DefaultParam
	}
	return c.Param
}

func (c Config) label() string {
	if c.Label == "" {
		return "Pagination"
	}
	return c.Label
}

// Data is the computed bar plus the range summary shown beside it.
type Data struct {
	Result pagination.Result
	First  int // 1-based rank of the first item shown, 0 if none
	Last   int // 1-based rank of the last item shown
	Total  int
}

// NewData computes the bar for a listing page.
func NewData(startRank, shown, total, perPage, buttons int) Data {
	d := Data{
		Result: pagination.Compute(pagination.Request{
			CurrentOffset:      startRank,
			TotalResults:       total,
			ResultsPerPage:     perPage,
			VisibleButtonCount: buttons,
		}),
		Total: total,
	}
	if shown > 0 {
		d.First = startRank
		d.Last = startRank + shown - 1
	}
	return d
}
