package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/DukeRupert/matrixkit/internal/service"
	"github.com/DukeRupert/matrixkit/internal/templ/pages/gallery"
	"github.com/google/uuid"
)

// maxUploadMemory is how much of a multipart form is kept in memory.
const maxUploadMemory = 32 << 20

// GalleryResponse is the JSON shape of GET /galleries/{slug}.
type GalleryResponse struct {
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Pattern       string        `json:"pattern"`
	Tiles         []mosaic.Item `json:"tiles"`
	OverflowCount int           `json:"overflow_count"`
	TotalImages   int           `json:"total_images"`
}

// UploadResponse is returned after a JSON upload.
type UploadResponse struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Orientation string    `json:"orientation"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
}

// GalleryHandler serves mosaic galleries and image uploads.
type GalleryHandler struct {
	galleryService service.GalleryService
	logger         *slog.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(galleryService service.GalleryService, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		logger:         logger,
	}
}

// RegisterRoutes registers the gallery routes with the provided mux.
//
// Routes:
// - GET  /galleries/{slug}         -> Show
// - POST /galleries/{slug}/images  -> Upload (wrapped by requireOperator, then limit)
func (h *GalleryHandler) RegisterRoutes(mux *http.ServeMux, requireOperator, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /galleries/{slug}", h.Show)
	mux.Handle("POST /galleries/{slug}/images", limit(requireOperator(http.HandlerFunc(h.Upload))))
}

// =============================================================================
// GET /galleries/{slug}
// =============================================================================

// Show renders the packed gallery. ?view=all lists every image instead.
func (h *GalleryHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.galleryService.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if r.URL.Query().Get("view") == "all" {
		*view = view.Unpacked()
	}

	if acceptsJSON(r) {
		tiles := view.Tiles
		if tiles == nil {
			tiles = []mosaic.Item{}
		}
		writeJSON(w, http.StatusOK, GalleryResponse{
			Slug:          view.Slug,
			Title:         view.Title,
			Pattern:       view.Pattern,
			Tiles:         tiles,
			OverflowCount: view.OverflowCount,
			TotalImages:   view.TotalImages,
		})
		return
	}

	if err := gallery.Page(*view).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render gallery", "slug", view.Slug, "error", err)
	}
}

// =============================================================================
// POST /galleries/{slug}/images
// =============================================================================

// Upload adds the multipart "image" file to the gallery, with optional "alt"
// and "caption" fields. Form posts are redirected back to the gallery.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "gallery.upload"
	slug := r.PathValue("slug")

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+maxUploadMemory)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, op, "Upload exceeds the maximum image size"))
			return
		}
		BadRequestResponse(w, r, h.logger, op, "Failed to parse upload form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		BadRequestResponse(w, r, h.logger, op, "No image uploaded")
		return
	}
	defer file.Close()

	img, err := h.galleryService.AddImage(r.Context(), domain.AddGalleryImageParams{
		Slug:        slug,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Alt:         r.FormValue("alt"),
		Caption:     r.FormValue("caption"),
		SizeBytes:   header.Size,
	}, file)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if !wantsJSONResponse(r) {
		http.Redirect(w, r, "/galleries/"+slug, http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		ID:          img.ID,
		URL:         img.URL,
		Orientation: img.Orientation.String(),
		Width:       img.Width,
		Height:      img.Height,
	})
}

// wantsJSONResponse is acceptsJSON without the Content-Type check, since
// uploads are always multipart.
func wantsJSONResponse(r *http.Request) bool {
	return r.Header.Get("HX-Request") != "true" && acceptsJSONHeader(r)
}
