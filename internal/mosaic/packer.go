// Package mosaic packs editorial gallery images into fixed grid patterns.
//
// A gallery is configured with primary patterns (the ideal layouts) and
// overflow patterns (simpler fallbacks). The first pattern that can be filled
// completely from the supplied images wins; whatever it does not use is
// reported as overflow so the gallery can show a "+N more" tile.
package mosaic

// Item is an image offered to the packer. Only Orientation is interpreted;
// the remaining fields are carried through for rendering.
type Item struct {
	Orientation Orientation `json:"orientation"`
	URL         string      `json:"url"`
	Alt         string      `json:"alt,omitempty"`
	Caption     string      `json:"caption,omitempty"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
}

// Result is the outcome of a pack.
type Result struct {
	Placed        []Item // Images to display, in slot order
	OverflowCount int    // Images supplied but not displayed
	Pattern       string // Name of the pattern that matched, empty if none did
}

// Matched returns true if a pattern was filled.
func (r Result) Matched() bool {
	return r.Pattern != ""
}

// Pack fills the first pattern that can be completed from images, trying
// primary patterns before overflow patterns.
//
// Every attempt starts from the full input. Each slot takes the first image,
// in input order, that has the required orientation and has not already been
// taken by an earlier slot of the same attempt. Skipped images stay available
// to later slots, so the input does not need to be pre-sorted. Patterns that
// cannot be completed are discarded; Pack never returns a partial pattern.
func Pack(images []Item, primary, overflow []Pattern) Result {
	for _, group := range [][]Pattern{primary, overflow} {
		for _, p := range group {
			placed, ok := fill(images, p)
			if !ok {
				continue
			}
			name := p.Name
			if name == "" {
				name = p.String()
			}
			return Result{
				Placed:        placed,
				OverflowCount: len(images) - len(placed),
				Pattern:       name,
			}
		}
	}

	return Result{
		Placed:        []Item{},
		OverflowCount: len(images),
	}
}

// fill attempts to assign an image to every slot of p.
func fill(images []Item, p Pattern) ([]Item, bool) {
	slots := p.Slots()
	if len(slots) == 0 || len(slots) > len(images) {
		return nil, false
	}

	used := make([]bool, len(images))
	placed := make([]Item, 0, len(slots))
	for _, want := range slots {
		i := firstUnused(images, used, want)
		if i < 0 {
			return nil, false
		}
		used[i] = true
		placed = append(placed, images[i])
	}
	return placed, true
}

func firstUnused(images []Item, used []bool, want Orientation) int {
	for i, img := range images {
		if !used[i] && img.Orientation == want {
			return i
		}
	}
	return -1
}
