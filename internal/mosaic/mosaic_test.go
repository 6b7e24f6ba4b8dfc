package mosaic

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(codes string) []Item {
	out := make([]Item, 0, len(codes))
	for i, c := range codes {
		o := Horizontal
		if c == 'v' {
			o = Vertical
		}
		out = append(out, Item{Orientation: o, URL: fmt.Sprintf("/img/%d.jpg", i)})
	}
	return out
}

func urls(placed []Item) []string {
	out := make([]string, len(placed))
	for i, p := range placed {
		out[i] = p.URL
	}
	return out
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("v | h,h,h,h")
	require.NoError(t, err)

	assert.Equal(t, [][]Orientation{{Vertical}, {Horizontal, Horizontal, Horizontal, Horizontal}}, p.Rows)
	assert.Equal(t, 5, p.Size())
	assert.Equal(t, []Orientation{Vertical, Horizontal, Horizontal, Horizontal, Horizontal}, p.Slots())
	assert.Equal(t, "v|h,h,h,h", p.Name)
}

func TestParsePattern_LongNamesAndWhitespace(t *testing.T) {
	p, err := ParsePattern("Portrait|| landscape  Horizontal ")
	require.NoError(t, err)
	assert.Equal(t, "v|h,h", p.String())
}

func TestParsePattern_Errors(t *testing.T) {
	_, err := ParsePattern("v|x")
	assert.Error(t, err)

	_, err = ParsePattern(" | ")
	assert.Error(t, err)
}

func TestParsePatterns(t *testing.T) {
	patterns, err := ParsePatterns("v|h,h,h,h; h,h,h,v ;")
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, 5, patterns[0].Size())
	assert.Equal(t, 4, patterns[1].Size())

	_, err = ParsePatterns("v;q")
	assert.Error(t, err)
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in   string
		want Orientation
	}{
		{"h", Horizontal},
		{"H", Horizontal},
		{" Landscape ", Horizontal},
		{"v", Vertical},
		{"VERTICAL", Vertical},
		{"portrait", Vertical},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOrientation("square")
	assert.Error(t, err)
}

func TestOrientation_JSON(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"orientation":"portrait","url":"/a.jpg"}`), &item))
	assert.Equal(t, Vertical, item.Orientation)

	b, err := json.Marshal(Item{Orientation: Horizontal, URL: "/b.jpg"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orientation":"h","url":"/b.jpg"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"orientation":"round"}`), &item))

	b, err = json.Marshal(Item{URL: "/c.jpg"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orientation":"","url":"/c.jpg"}`, string(b))

	_, err = json.Marshal(Item{Orientation: Orientation(9)})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Horizontal, Classify(1600, 900))
	assert.Equal(t, Horizontal, Classify(1000, 1000))
	assert.Equal(t, Vertical, Classify(900, 1600))
}

func TestPack(t *testing.T) {
	primary := MustParsePatterns("v|h,h,h,h")
	overflow := MustParsePatterns("h,h,h,v")

	tests := []struct {
		name         string
		images       string
		wantURLs     []string
		wantOverflow int
		wantPattern  string
	}{
		{
			name:         "no vertical image fails every pattern",
			images:       "hhhh",
			wantURLs:     []string{},
			wantOverflow: 4,
		},
		{
			name:         "primary pattern fills",
			images:       "vvhhhh",
			wantURLs:     []string{"/img/0.jpg", "/img/2.jpg", "/img/3.jpg", "/img/4.jpg", "/img/5.jpg"},
			wantOverflow: 1,
			wantPattern:  "v|h,h,h,h",
		},
		{
			name:         "skipped images remain candidates",
			images:       "hhhhv",
			wantURLs:     []string{"/img/4.jpg", "/img/0.jpg", "/img/1.jpg", "/img/2.jpg", "/img/3.jpg"},
			wantOverflow: 0,
			wantPattern:  "v|h,h,h,h",
		},
		{
			name:         "falls back to overflow pattern",
			images:       "hvhh",
			wantURLs:     []string{"/img/0.jpg", "/img/2.jpg", "/img/3.jpg", "/img/1.jpg"},
			wantOverflow: 0,
			wantPattern:  "h,h,h,v",
		},
		{
			name:         "empty input",
			images:       "",
			wantURLs:     []string{},
			wantOverflow: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pack(items(tt.images), primary, overflow)

			assert.Equal(t, tt.wantURLs, urls(got.Placed))
			assert.Equal(t, tt.wantOverflow, got.OverflowCount)
			assert.Equal(t, tt.wantPattern, got.Pattern)
			assert.Equal(t, tt.wantPattern != "", got.Matched())
		})
	}
}

func TestPack_FirstMatchingPrimaryWins(t *testing.T) {
	primary := MustParsePatterns("v,v,v;h,h;v")
	got := Pack(items("hvh"), primary, nil)

	assert.Equal(t, "h,h", got.Pattern)
	assert.Equal(t, []string{"/img/0.jpg", "/img/2.jpg"}, urls(got.Placed))
	assert.Equal(t, 1, got.OverflowCount)
}

func TestPack_UnnamedPattern(t *testing.T) {
	p := Pattern{Rows: [][]Orientation{{Horizontal}}}
	got := Pack(items("h"), []Pattern{p}, nil)

	assert.True(t, got.Matched())
	assert.Equal(t, "h", got.Pattern)
}

func TestPack_DoesNotMutateInput(t *testing.T) {
	in := items("hvhvh")
	before := append([]Item(nil), in...)

	Pack(in, MustParsePatterns("v|h,h"), nil)

	assert.Equal(t, before, in)
}

// Checks conservation, the no-partial rule and determinism over every
// combination of up to eight images.
func TestPack_Invariants(t *testing.T) {
	primary := MustParsePatterns("v|h,h,h,h;v|h,h,h,v;h|h,h,h,v")
	overflow := MustParsePatterns("h,h,h,v;h,h,h,h;h,h")

	sizes := map[int]bool{0: true}
	for _, p := range append(append([]Pattern{}, primary...), overflow...) {
		sizes[p.Size()] = true
	}

	for n := 0; n <= 8; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			codes := make([]byte, n)
			for i := range codes {
				codes[i] = 'h'
				if mask&(1<<i) != 0 {
					codes[i] = 'v'
				}
			}
			in := items(string(codes))

			got := Pack(in, primary, overflow)
			again := Pack(in, primary, overflow)

			assert.Equal(t, len(in), len(got.Placed)+got.OverflowCount, "images=%s", codes)
			assert.True(t, sizes[len(got.Placed)], "images=%s placed=%d", codes, len(got.Placed))
			assert.Equal(t, got, again, "images=%s", codes)
		}
	}
}
