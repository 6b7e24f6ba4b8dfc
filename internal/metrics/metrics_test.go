package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /galleries/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /galleries/{slug}", "418"))
	for _, slug := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/galleries/"+slug, nil))
	}
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /galleries/{slug}", "418"))
	assert.Equal(t, 3.0, after-before)

	unmatchedBefore := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", unmatchedPath, "404"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", unmatchedPath, "404"))-unmatchedBefore)
}

func TestMosaicPacked_EmptyPatternLabel(t *testing.T) {
	before := testutil.ToFloat64(MosaicPacks.WithLabelValues(noPattern))
	MosaicPacked("", 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(MosaicPacks.WithLabelValues(noPattern))-before)
}

func TestCarouselSynced(t *testing.T) {
	ok := testutil.ToFloat64(CarouselSyncs.WithLabelValues("ok"))
	failed := testutil.ToFloat64(CarouselSyncs.WithLabelValues("failed"))

	CarouselSynced(2, nil)
	CarouselSynced(0, errors.New("bad selector"))

	assert.Equal(t, 2.0, testutil.ToFloat64(CarouselSyncs.WithLabelValues("ok"))-ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(CarouselSyncs.WithLabelValues("failed"))-failed)
}
