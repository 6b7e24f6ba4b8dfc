// Package handler contains HTTP handlers for matrixkit.
//
// This file implements the paginated news listing and article ingest.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/metrics"
	"github.com/DukeRupert/matrixkit/internal/service"
	paginationui "github.com/DukeRupert/matrixkit/internal/templ/components/pagination"
	"github.com/DukeRupert/matrixkit/internal/templ/pages/news"
)

// maxArticleBody caps the JSON body accepted by the ingest endpoint.
const maxArticleBody = 1 << 20

// NewsListing is the JSON shape of GET /news.
type NewsListing struct {
	Articles   []domain.Article  `json:"articles"`
	Total      int               `json:"total"`
	StartRank  int               `json:"start_rank"`
	NumRanks   int               `json:"num_ranks"`
	Pagination PaginationPayload `json:"pagination"`
}

// NewsHandler serves the article listing.
type NewsHandler struct {
	articleService  service.ArticleService
	paginationRange int
	logger          *slog.Logger
}

// NewNewsHandler creates a new NewsHandler. paginationRange is the number of
// numbered buttons shown around the current page.
func NewNewsHandler(articleService service.ArticleService, paginationRange int, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		articleService:  articleService,
		paginationRange: paginationRange,
		logger:          logger,
	}
}

// RegisterRoutes registers the news routes with the provided mux.
//
// Routes:
// - GET  /news          -> List
// - POST /api/articles  -> Upsert (wrapped by requireIngest)
func (h *NewsHandler) RegisterRoutes(mux *http.ServeMux, requireIngest func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /news", h.List)
	mux.Handle("POST /api/articles", requireIngest(http.HandlerFunc(h.Upsert)))
}

// =============================================================================
// GET /news - Article Listing
// =============================================================================

// List renders one page of articles. HTMX requests get only the results
// section so the pagination links can swap it in place.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "news.list"

	q := r.URL.Query()
	startRank, err := queryInt(q, paginationui.DefaultParam, 1)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "start_rank must be a whole number")
		return
	}
	numRanks, err := queryInt(q, "num_ranks", 0)
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "num_ranks must be a whole number")
		return
	}

	result, err := h.articleService.List(r.Context(), domain.ListArticlesParams{
		StartRank: startRank,
		NumRanks:  numRanks,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := paginationui.NewData(result.StartRank, len(result.Articles), result.Total, result.NumRanks, h.paginationRange)
	metrics.PaginationComputed(data.Result.ShouldRender())

	if acceptsJSON(r) {
		writeJSON(w, http.StatusOK, NewsListing{
			Articles:   result.Articles,
			Total:      result.Total,
			StartRank:  result.StartRank,
			NumRanks:   result.NumRanks,
			Pagination: newPaginationPayload(data.Result),
		})
		return
	}

	cfg := paginationui.Config{BaseURL: "/news"}
	if numRanks > 0 {
		cfg.Query = url.Values{"num_ranks": {strconv.Itoa(result.NumRanks)}}
	}
	page := news.PageData{
		Articles:   result.Articles,
		Pagination: data,
		Config:     cfg,
	}

	component := news.Page(page)
	if r.Header.Get("HX-Request") == "true" {
		component = news.List(page)
	}
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render news listing", "error", err)
	}
}

// =============================================================================
// POST /api/articles - Article Ingest
// =============================================================================

// Upsert creates or updates an article from a JSON body.
func (h *NewsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	const op = "news.upsert"

	var params domain.UpsertArticleParams
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxArticleBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		BadRequestResponse(w, r, h.logger, op, "Request body must be an article JSON object")
		return
	}

	article, err := h.articleService.Upsert(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

// queryInt parses an optional integer query parameter.
func queryInt(q url.Values, key string, fallback int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
