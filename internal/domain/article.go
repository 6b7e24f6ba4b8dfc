package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is a news item from the content index.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// ListArticlesParams contains parameters for listing articles.
//
// StartRank is 1-based, matching the start_rank convention of the search
// listings the site links to.
type ListArticlesParams struct {
	StartRank int
	NumRanks  int
}

// Offset returns the 0-based SQL offset for StartRank.
func (p ListArticlesParams) Offset() int {
	if p.StartRank < 1 {
		return 0
	}
	return p.StartRank - 1
}

// ListArticlesResult contains the result of a paginated article query.
type ListArticlesResult struct {
	Articles  []Article
	Total     int
	StartRank int
	NumRanks  int
}

// EndRank returns the 1-based rank of the last article on the page.
func (r *ListArticlesResult) EndRank() int {
	if len(r.Articles) == 0 {
		return 0
	}
	return r.StartRank + len(r.Articles) - 1
}

// UpsertArticleParams contains parameters for creating or updating an article.
// Articles are keyed by URL.
type UpsertArticleParams struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
}
