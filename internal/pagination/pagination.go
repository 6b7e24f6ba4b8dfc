// Package pagination computes which numbered page buttons a listing should
// render for offset-based result sets.
//
// Offsets are 1-based item positions: page 1 starts at offset 1, page 2 at
// offset PerPage+1, and so on. This matches the start_rank parameter used by
// the search index that feeds most listings.
package pagination

// Request describes a paginated result set and the page being viewed.
type Request struct {
	CurrentOffset      int // 1-based index of the first item on the current page
	TotalResults       int // Total number of results across all pages
	ResultsPerPage     int // Page size
	VisibleButtonCount int // Numbered buttons to show around the current page
}

// Page is a single numbered button in the pagination bar.
type Page struct {
	Number  int  // 1-based page number shown to the user
	Offset  int  // Offset the button navigates to
	Current bool // Whether this is the page being viewed
}

// Result contains everything a pagination bar needs to render.
type Result struct {
	PageCount      int
	Offsets        []int  // Start offset of every page, in order
	Visible        []Page // Buttons to render, in order
	PreviousOffset int
	NextOffset     int
}

// ShouldRender reports whether a pagination bar is worth rendering at all.
func (r Result) ShouldRender() bool {
	return r.PageCount > 1
}

// HasPrevious returns true if the current page is not the first page.
func (r Result) HasPrevious() bool {
	cur, ok := r.current()
	return ok && cur.Number > 1
}

// HasNext returns true if the current page is not the last page.
func (r Result) HasNext() bool {
	cur, ok := r.current()
	return ok && cur.Number < r.PageCount
}

// VisibleOffsets returns the offsets of the visible buttons.
func (r Result) VisibleOffsets() []int {
	offsets := make([]int, len(r.Visible))
	for i, p := range r.Visible {
		offsets[i] = p.Offset
	}
	return offsets
}

func (r Result) current() (Page, bool) {
	for _, p := range r.Visible {
		if p.Current {
			return p, true
		}
	}
	return Page{}, false
}

// MaxListedPages bounds the length of Result.Offsets. Larger result sets
// still get a correct window and page count but no full offset list.
const MaxListedPages = 10_000

// Compute builds the pagination window for req.
//
// Near the start of the list (or when the page count equals the button count)
// the window clusters forward from the current page. Elsewhere it is centred on
// the current page; when fewer than half the buttons fit after the current page
// the missing ones are added before it instead.
//
// Compute never panics. A non-positive page size yields an empty result and an
// offset that does not start a page is snapped to the page containing it.
func Compute(req Request) Result {
	per := req.ResultsPerPage
	if per <= 0 || req.TotalResults <= 0 {
		return Result{PreviousOffset: 1, NextOffset: 1}
	}

	pageCount := req.TotalResults / per
	if req.TotalResults%per != 0 {
		pageCount++
	}
	offsetAt := func(i int) int { return 1 + i*per }
	last := offsetAt(pageCount - 1)

	index := pageIndex(req.CurrentOffset, per, pageCount)
	current := offsetAt(index)

	span := req.VisibleButtonCount
	if span < 0 {
		span = 0
	}
	half := span / 2

	var before, after int // number of pages shown before/after the current page
	switch {
	case span >= pageCount:
		// Also covers pageCount == span, which clusters to show every page.
		before = index
		after = pageCount - 1 - index
	case index < half:
		before = index
		after = min(span-before, pageCount-1-index)
	default:
		after = min(half, pageCount-1-index)
		before = half
		if after < half {
			before += half - after
		}
		before = min(before, index)
	}

	visible := make([]Page, 0, before+1+after)
	for i := index - before; i <= index+after; i++ {
		visible = append(visible, Page{
			Number:  i + 1,
			Offset:  offsetAt(i),
			Current: i == index,
		})
	}

	var offsets []int
	if pageCount <= MaxListedPages {
		offsets = make([]int, pageCount)
		for i := range offsets {
			offsets[i] = offsetAt(i)
		}
	}

	next := last
	if index < pageCount-1 {
		next = current + per
	}

	return Result{
		PageCount:      pageCount,
		Offsets:        offsets,
		Visible:        visible,
		PreviousOffset: max(1, current-per),
		NextOffset:     next,
	}
}

// pageIndex returns the index of the page containing offset, clamped to the
// available pages.
func pageIndex(offset, per, pageCount int) int {
	if offset < 1 {
		return 0
	}
	return min((offset-1)/per, pageCount-1)
}

// OffsetForPage returns the start offset of the given 1-based page number.
func OffsetForPage(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*perPage + 1
}
