package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DukeRupert/matrixkit/internal/carousel"
	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/metrics"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/DukeRupert/matrixkit/internal/pagination"
)

const (
	// maxMosaicBody caps POST /api/mosaic bodies.
	maxMosaicBody = 1 << 20

	// maxFragmentBody caps carousel fragments.
	maxFragmentBody = 2 << 20
)

// =============================================================================
// Payload Types
// =============================================================================

// PaginationPayload is the JSON shape of a computed pagination bar.
type PaginationPayload struct {
	PageCount      int              `json:"page_count"`
	Offsets        []int            `json:"offsets"`
	Visible        []PaginationPage `json:"visible"`
	VisibleOffsets []int            `json:"visible_offsets"`
	PreviousOffset int              `json:"previous_offset"`
	NextOffset     int              `json:"next_offset"`
	HasPrevious    bool             `json:"has_previous"`
	HasNext        bool             `json:"has_next"`
	ShouldRender   bool             `json:"should_render"`
}

// PaginationPage is one numbered button.
type PaginationPage struct {
	Number  int  `json:"number"`
	Offset  int  `json:"offset"`
	Current bool `json:"current"`
}

func newPaginationPayload(res pagination.Result) PaginationPayload {
	pages := make([]PaginationPage, len(res.Visible))
	for i, p := range res.Visible {
		pages[i] = PaginationPage{Number: p.Number, Offset: p.Offset, Current: p.Current}
	}
	offsets := res.Offsets
	if offsets == nil {
		offsets = []int{}
	}
	return PaginationPayload{
		PageCount:      res.PageCount,
		Offsets:        offsets,
		Visible:        pages,
		VisibleOffsets: res.VisibleOffsets(),
		PreviousOffset: res.PreviousOffset,
		NextOffset:     res.NextOffset,
		HasPrevious:    res.HasPrevious(),
		HasNext:        res.HasNext(),
		ShouldRender:   res.ShouldRender(),
	}
}

// MosaicRequest is the body of POST /api/mosaic. Patterns use row notation,
// e.g. "v|h,h,h,h".
type MosaicRequest struct {
	Images           []mosaic.Item `json:"images"`
	Patterns         []string      `json:"patterns"`
	OverflowPatterns []string      `json:"overflow_patterns"`
}

// MosaicResponse is the packed result.
type MosaicResponse struct {
	Placed        []mosaic.Item `json:"placed"`
	OverflowCount int           `json:"overflow_count"`
	Pattern       string        `json:"pattern"`
	Matched       bool          `json:"matched"`
}

// =============================================================================
// Handler Configuration
// =============================================================================

// LayoutAPIHandler exposes the layout algorithms as JSON and fragment
// endpoints for the CMS front end.
type LayoutAPIHandler struct {
	defaults mosaicDefaults
	logger   *slog.Logger
}

type mosaicDefaults struct {
	patterns, overflow []mosaic.Pattern
}

// NewLayoutAPIHandler creates a new LayoutAPIHandler. patterns and overflow
// are used when a mosaic request names none of its own.
func NewLayoutAPIHandler(patterns, overflow []mosaic.Pattern, logger *slog.Logger) *LayoutAPIHandler {
	return &LayoutAPIHandler{
		defaults: mosaicDefaults{patterns: patterns, overflow: overflow},
		logger:   logger,
	}
}

// RegisterRoutes registers the layout API routes with the provided mux.
//
// Routes:
// - GET  /api/pagination     -> Pagination
// - POST /api/mosaic         -> Mosaic
// - POST /api/carousel/sync  -> CarouselSync (wrapped by limit)
func (h *LayoutAPIHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/pagination", h.Pagination)
	mux.HandleFunc("POST /api/mosaic", h.Mosaic)
	mux.Handle("POST /api/carousel/sync", limit(http.HandlerFunc(h.CarouselSync)))
}

// =============================================================================
// GET /api/pagination
// =============================================================================

// Pagination computes a pagination bar from query parameters: total,
// per_page, offset (default 1) and range (default 4).
func (h *LayoutAPIHandler) Pagination(w http.ResponseWriter, r *http.Request) {
	const op = "api.pagination"

	q := r.URL.Query()
	total, err := queryInt(q, "total", 0)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "total must be a whole number")
		return
	}
	perPage, err := queryInt(q, "per_page", 10)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "per_page must be a whole number")
		return
	}
	offset, err := queryInt(q, "offset", 1)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "offset must be a whole number")
		return
	}
	buttons, err := queryInt(q, "range", 4)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "range must be a whole number")
		return
	}

	res := pagination.Compute(pagination.Request{
		CurrentOffset:      offset,
		TotalResults:       total,
		ResultsPerPage:     perPage,
		VisibleButtonCount: buttons,
	})
	if res.PageCount > pagination.MaxListedPages {
		BadRequestResponse(w, r, h.logger, op, fmt.Sprintf("total and per_page describe more than %d pages", pagination.MaxListedPages))
		return
	}
	metrics.PaginationComputed(res.ShouldRender())

	writeJSON(w, http.StatusOK, newPaginationPayload(res))
}

// =============================================================================
// POST /api/mosaic
// =============================================================================

// Mosaic packs the posted images.
func (h *LayoutAPIHandler) Mosaic(w http.ResponseWriter, r *http.Request) {
	const op = "api.mosaic"

	var req MosaicRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMosaicBody)).Decode(&req); err != nil {
		BadRequestResponse(w, r, h.logger, op, "Request body must be a mosaic JSON object: "+err.Error())
		return
	}

	primary, overflow := h.defaults.patterns, h.defaults.overflow
	if len(req.Patterns) > 0 || len(req.OverflowPatterns) > 0 {
		var err error
		if primary, err = parsePatternList(req.Patterns); err != nil {
			BadRequestResponse(w, r, h.logger, op, err.Error())
			return
		}
		if overflow, err = parsePatternList(req.OverflowPatterns); err != nil {
			BadRequestResponse(w, r, h.logger, op, err.Error())
			return
		}
	}

	res := mosaic.Pack(req.Images, primary, overflow)
	metrics.MosaicPacked(res.Pattern, res.OverflowCount)

	writeJSON(w, http.StatusOK, MosaicResponse{
		Placed:        res.Placed,
		OverflowCount: res.OverflowCount,
		Pattern:       res.Pattern,
		Matched:       res.Matched(),
	})
}

func parsePatternList(notations []string) ([]mosaic.Pattern, error) {
	patterns := make([]mosaic.Pattern, 0, len(notations))
	for _, n := range notations {
		p, err := mosaic.ParsePattern(n)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// =============================================================================
// POST /api/carousel/sync
// =============================================================================

// CarouselSync synchronizes the accessibility state of the carousel markup in
// the request body and returns the rewritten fragment. The number of
// carousels found is reported in X-Carousel-Count.
func (h *LayoutAPIHandler) CarouselSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.carousel.sync"

	q := r.URL.Query()
	active, err := queryInt(q, "active", 0)
	if err != nil || active < 0 {
		BadRequestResponse(w, r, h.logger, op, "active must be a non-negative whole number")
		return
	}
	perView, err := queryInt(q, "slides_per_view", 1)
	if err != nil || perView < 1 {
		BadRequestResponse(w, r, h.logger, op, "slides_per_view must be a positive whole number")
		return
	}
	loop := false
	if raw := q.Get("loop"); raw != "" {
		if loop, err = strconv.ParseBool(raw); err != nil {
			BadRequestResponse(w, r, h.logger, op, "loop must be true or false")
			return
		}
	}

	var out bytes.Buffer
	count, err := carousel.SyncFragment(http.MaxBytesReader(w, r.Body, maxFragmentBody), &out, carousel.Options{
		Active:        active,
		SlidesPerView: perView,
		Loop:          loop,
		Focusable:     q.Get("focusable"),
	})
	metrics.CarouselSynced(count, err)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.EINVALID, op, "Could not synchronize carousel: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Carousel-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	_, _ = out.WriteTo(w)
}
