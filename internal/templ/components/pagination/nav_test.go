package pagination

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data Data, cfg Config) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Nav(data, cfg).Render(context.Background(), &sb))
	return sb.String()
}

func TestConfig_PageURL(t *testing.T) {
	cfg := Config{BaseURL: "/news", Query: url.Values{"num_ranks": {"10"}}}
	assert.Equal(t, "/news?num_ranks=10&start_rank=21", cfg.PageURL(21))

	cfg = Config{BaseURL: "/search", Param: "offset"}
	assert.Equal(t, "/search?offset=1", cfg.PageURL(1))
	assert.Empty(t, cfg.Query, "PageURL must not mutate the preserved query")
}

func TestNav_SinglePageRendersNothing(t *testing.T) {
	out := render(t, NewData(1, 4, 4, 10, 4), Config{BaseURL: "/news"})
	assert.Empty(t, out)
}

func TestNav_FirstPage(t *testing.T) {
	out := render(t, NewData(1, 10, 57, 10, 4), Config{BaseURL: "/news"})

	assert.Contains(t, out, `aria-label="Pagination"`)
	prev := out[:strings.Index(out, "<ol")]
	assert.Contains(t, prev, `pointer-events-none text-gray-300" aria-disabled="true">Previous</span>`)
	assert.NotContains(t, prev, "text-gray-700")
	assert.Contains(t, out, `href="/news?start_rank=1"`)
	assert.Contains(t, out, `aria-current="page" aria-label="Page 1">1</a>`)
	assert.Contains(t, out, `href="/news?start_rank=11" class="inline-flex min-w-9 items-center justify-center rounded-md px-3 py-2 text-sm font-medium text-gray-700 hover:bg-gray-100" rel="next">Next</a>`)
	assert.Equal(t, 1, strings.Count(out, `aria-current="page"`))
}

func TestNav_MiddlePage(t *testing.T) {
	out := render(t, NewData(31, 10, 100, 10, 4), Config{BaseURL: "/news", ClassName: "mt-8"})

	assert.Contains(t, out, `class="flex items-center justify-between gap-4 border-t border-gray-200 pt-4 mt-8"`)
	assert.Contains(t, out, `rel="prev"`)
	assert.Contains(t, out, `href="/news?start_rank=21"`)
	assert.Contains(t, out, `aria-current="page" aria-label="Page 4">4</a>`)
	for _, n := range []string{">2<", ">3<", ">5<", ">6<"} {
		assert.Contains(t, out, n)
	}
	assert.NotContains(t, out, `aria-label="Page 1"`)
}

func TestNav_LastPageDisablesNext(t *testing.T) {
	out := render(t, NewData(51, 7, 57, 10, 4), Config{BaseURL: "/news"})
	assert.Contains(t, out, `aria-disabled="true">Next</span>`)
	assert.Contains(t, out, `rel="prev"`)
}

func TestSummary(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Summary(NewData(11, 10, 57, 10, 4)).Render(context.Background(), &sb))
	assert.Equal(t, `<p class="text-sm text-gray-600">Showing 11–20 of 57 results</p>`, sb.String())

	sb.Reset()
	require.NoError(t, Summary(NewData(1, 0, 0, 10, 4)).Render(context.Background(), &sb))
	assert.Empty(t, sb.String())
}
