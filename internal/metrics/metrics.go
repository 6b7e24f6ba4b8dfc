package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matrixkit"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Layout metrics
var (
	PaginationRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagination_renders_total",
			Help:      "Total number of pagination bars computed",
		},
		[]string{"rendered"}, // "true" when more than one page
	)

	MosaicPacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mosaic_packs_total",
			Help:      "Total number of mosaic packs by matched pattern",
		},
		[]string{"pattern"},
	)

	MosaicOverflowImages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mosaic_overflow_images",
			Help:      "Images left out of a mosaic per pack",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	CarouselSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carousel_syncs_total",
			Help:      "Total number of carousel synchronizations",
		},
		[]string{"status"},
	)
)

// Gallery metrics
var (
	GalleryImagesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gallery_images_classified_total",
			Help:      "Total number of gallery images classified by orientation",
		},
		[]string{"orientation"},
	)

	GalleryUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gallery_uploads_total",
			Help:      "Total number of gallery image uploads",
		},
		[]string{"status"},
	)
)
