// Package carousel keeps server-rendered Swiper carousels accessible.
//
// The synchronizer works on parsed HTML so the markup a page ships with
// already has the correct aria-hidden/inert/tabindex/aria-current state for
// its initial slide. The browser-side Swiper hooks apply the same rules on
// every slide change.
package carousel

import (
	"fmt"
	"strconv"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Default selectors for Swiper markup.
const (
	ContainerSelector = ".swiper"
	SlideSelector     = ".swiper-slide"
	BulletSelector    = ".swiper-pagination-bullet"
	ControlSelector   = ".swiper-button-prev, .swiper-button-next"
	DefaultFocusable  = "a[href], area[href], button, input, select, textarea, iframe, [tabindex], [contenteditable]"
)

// Options configures a carousel.
type Options struct {
	Active        int    // Index into the slide list of the active slide
	SlidesPerView int    // Slides visible at once; defaults to 1
	Loop          bool   // Requested loop mode
	Focusable     string // Selector for focusable slide content; defaults to DefaultFocusable
}

// Carousel is a carousel's slide and pagination-bullet handles plus its
// current position.
type Carousel struct {
	Root          *html.Node
	Slides        []*html.Node
	Bullets       []*html.Node
	Controls      []*html.Node
	Active        int
	SlidesPerView int
	Loop          bool

	focusable cascadia.Matcher
}

var (
	slideMatcher   = cascadia.MustCompile(SlideSelector)
	bulletMatcher  = cascadia.MustCompile(BulletSelector)
	controlMatcher = cascadia.MustCompile(ControlSelector)
)

// New builds a Carousel from the markup under root.
// Returns an error only if opts.Focusable is not a valid selector.
func New(root *html.Node, opts Options) (*Carousel, error) {
	focusable := opts.Focusable
	if focusable == "" {
		focusable = DefaultFocusable
	}
	m, err := cascadia.ParseGroup(focusable)
	if err != nil {
		return nil, fmt.Errorf("invalid focusable selector %q: %w", focusable, err)
	}

	perView := opts.SlidesPerView
	if perView < 1 {
		perView = 1
	}

	return &Carousel{
		Root:          root,
		Slides:        cascadia.QueryAll(root, slideMatcher),
		Bullets:       cascadia.QueryAll(root, bulletMatcher),
		Controls:      cascadia.QueryAll(root, controlMatcher),
		Active:        opts.Active,
		SlidesPerView: perView,
		Loop:          opts.Loop,
		focusable:     m,
	}, nil
}

// Sync applies loop conditions, pagination state and slide accessibility.
// It is idempotent: calling it again with the same active index leaves the
// markup unchanged.
func (c *Carousel) Sync() {
	c.EnsureLoopConditions()
	c.UpdatePagination()
	c.UpdateAccessibility()
}

// SlideTo moves the carousel to index and re-synchronizes it.
func (c *Carousel) SlideTo(index int) {
	c.Active = index
	c.UpdatePagination()
	c.UpdateAccessibility()
}

// EnsureLoopConditions disables loop mode when there are not more slides than
// fit in view, and hides the navigation controls when there is nothing to
// navigate to. Returns whether loop mode is enabled.
func (c *Carousel) EnsureLoopConditions() bool {
	navigable := len(c.Slides) > c.SlidesPerView
	if !navigable {
		c.Loop = false
	}

	if c.Root != nil && c.Root.Type == html.ElementNode {
		setAttr(c.Root, "data-loop", strconv.FormatBool(c.Loop))
	}

	for _, ctl := range c.Controls {
		if navigable {
			removeAttr(ctl, "aria-disabled")
			removeAttr(ctl, "hidden")
		} else {
			setAttr(ctl, "aria-disabled", "true")
			setAttr(ctl, "hidden", "")
		}
	}

	return c.Loop
}

// UpdatePagination marks the bullet for the active slide with
// aria-current="true" and clears it from every other bullet.
func (c *Carousel) UpdatePagination() {
	if len(c.Bullets) == 0 {
		return
	}

	current := c.realIndex()
	if current >= len(c.Bullets) {
		current = len(c.Bullets) - 1
	}

	for i, b := range c.Bullets {
		setAttr(b, "aria-label", fmt.Sprintf("Go to slide %d", i+1))
		if i == current {
			setAttr(b, "aria-current", "true")
		} else {
			removeAttr(b, "aria-current")
		}
	}
}

// UpdateAccessibility exposes the active slide to assistive technology and
// keyboard focus, and hides every other slide.
func (c *Carousel) UpdateAccessibility() {
	active := c.activeIndex()
	for i, slide := range c.Slides {
		if i == active {
			c.show(slide)
		} else {
			c.hide(slide)
		}
	}
}

func (c *Carousel) show(slide *html.Node) {
	removeAttr(slide, "aria-hidden")
	removeAttr(slide, "inert")
	for _, n := range cascadia.QueryAll(slide, c.focusable) {
		if orig, ok := getAttr(n, stashAttr); ok {
			if orig == "" {
				removeAttr(n, "tabindex")
			} else {
				setAttr(n, "tabindex", orig)
			}
			removeAttr(n, stashAttr)
		}
	}
}

func (c *Carousel) hide(slide *html.Node) {
	setAttr(slide, "aria-hidden", "true")
	setAttr(slide, "inert", "")
	for _, n := range cascadia.QueryAll(slide, c.focusable) {
		if _, stashed := getAttr(n, stashAttr); !stashed {
			orig, _ := getAttr(n, "tabindex")
			setAttr(n, stashAttr, orig)
		}
		setAttr(n, "tabindex", "-1")
	}
}

// stashAttr remembers an element's own tabindex while its slide is hidden.
const stashAttr = "data-carousel-tabindex"

// activeIndex clamps Active into the slide list.
func (c *Carousel) activeIndex() int {
	switch {
	case c.Active < 0:
		return 0
	case c.Active >= len(c.Slides):
		return max(len(c.Slides)-1, 0)
	default:
		return c.Active
	}
}

// realIndex is the logical index of the active slide. Loop mode duplicates
// slides, so the duplicates carry their original position in
// data-swiper-slide-index.
func (c *Carousel) realIndex() int {
	if len(c.Slides) == 0 {
		return max(c.Active, 0)
	}
	active := c.activeIndex()
	if v, ok := getAttr(c.Slides[active], "data-swiper-slide-index"); ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return active
}
