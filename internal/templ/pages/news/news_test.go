package news

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/templ/components/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	data := PageData{
		Articles: []domain.Article{
			{
				Title:       "Campus <reopens>",
				URL:         "https://news.example.edu/reopens",
				Summary:     "Doors open Monday.",
				PublishedAt: time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC),
			},
			{Title: "Bad link", URL: "javascript:alert(1)"},
		},
		Pagination: pagination.NewData(11, 2, 12, 10, 4),
		Config:     pagination.Config{BaseURL: "/news"},
	}

	var sb strings.Builder
	require.NoError(t, Page(data).Render(context.Background(), &sb))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>News</title>")
	assert.Contains(t, out, `href="https://news.example.edu/reopens">Campus &lt;reopens&gt;</a>`)
	assert.Contains(t, out, `datetime="2024-09-02">2 September 2024</time>`)
	assert.Contains(t, out, "Showing 11–12 of 12 results")
	assert.Contains(t, out, `aria-current="page" aria-label="Page 2">2</a>`)
	assert.NotContains(t, out, "javascript:")
}

func TestList_Empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, List(PageData{Pagination: pagination.NewData(1, 0, 0, 10, 4)}).Render(context.Background(), &sb))

	assert.Contains(t, sb.String(), "No articles found.")
	assert.NotContains(t, sb.String(), "<nav")
}
