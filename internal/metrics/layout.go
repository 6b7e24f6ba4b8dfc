package metrics

import "strconv"

// noPattern labels packs where no pattern could be filled.
const noPattern = "none"

// PaginationComputed records one pagination calculation.
func PaginationComputed(rendered bool) {
	PaginationRenders.WithLabelValues(strconv.FormatBool(rendered)).Inc()
}

// MosaicPacked records the pattern a mosaic pack settled on and how many
// images were left over.
func MosaicPacked(pattern string, overflow int) {
	if pattern == "" {
		pattern = noPattern
	}
	MosaicPacks.WithLabelValues(pattern).Inc()
	MosaicOverflowImages.Observe(float64(overflow))
}

// CarouselSynced records a carousel synchronization of count carousels.
func CarouselSynced(count int, err error) {
	switch {
	case err != nil:
		CarouselSyncs.WithLabelValues("failed").Inc()
	case count == 0:
		CarouselSyncs.WithLabelValues("empty").Inc()
	default:
		CarouselSyncs.WithLabelValues("ok").Add(float64(count))
	}
}

// ImageClassified records an orientation assigned to a gallery image.
func ImageClassified(orientation string) {
	GalleryImagesClassified.WithLabelValues(orientation).Inc()
}

// UploadCompleted records a gallery upload outcome.
func UploadCompleted(ok bool) {
	if ok {
		GalleryUploads.WithLabelValues("completed").Inc()
		return
	}
	GalleryUploads.WithLabelValues("failed").Inc()
}
