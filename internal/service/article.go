package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/DukeRupert/matrixkit/internal/domain"
	"github.com/DukeRupert/matrixkit/internal/repository"
)

// MaxArticlesPerPage caps num_ranks so a listing can't pull the whole index.
const MaxArticlesPerPage = 100

// ArticleQuerier is the subset of repository.Queries the article service uses.
type ArticleQuerier interface {
	ListArticles(ctx context.Context, arg repository.ListArticlesParams) ([]repository.Article, error)
	CountArticles(ctx context.Context) (int64, error)
	UpsertArticle(ctx context.Context, arg repository.UpsertArticleParams) (repository.Article, error)
}

// ArticleService defines the interface for the news listing.
type ArticleService interface {
	// List returns one page of articles, newest first, and the total count.
	// Returns domain.EUNAVAILABLE when no database is configured.
	List(ctx context.Context, params domain.ListArticlesParams) (*domain.ListArticlesResult, error)

	// Upsert creates an article or updates the one with the same URL.
	Upsert(ctx context.Context, params domain.UpsertArticleParams) (*domain.Article, error)
}

type articleService struct {
	queries        ArticleQuerier
	defaultPerPage int
	logger         *slog.Logger
}

// NewArticleService creates a new ArticleService. queries may be nil, in
// which case every call reports the listing as unavailable.
func NewArticleService(queries ArticleQuerier, defaultPerPage int, logger *slog.Logger) ArticleService {
	if defaultPerPage <= 0 {
		defaultPerPage = 10
	}
	return &articleService{
		queries:        queries,
		defaultPerPage: defaultPerPage,
		logger:         logger,
	}
}

func (s *articleService) List(ctx context.Context, params domain.ListArticlesParams) (*domain.ListArticlesResult, error) {
	const op = "article.list"

	if s.queries == nil {
		return nil, domain.Unavailable(op, "The news listing is not available")
	}

	if params.StartRank < 1 {
		params.StartRank = 1
	}
	if params.NumRanks <= 0 {
		params.NumRanks = s.defaultPerPage
	}
	params.NumRanks = min(params.NumRanks, MaxArticlesPerPage)

	total, err := s.queries.CountArticles(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count articles")
	}

	rows, err := s.queries.ListArticles(ctx, repository.ListArticlesParams{
		Limit:  int32(params.NumRanks),
		Offset: int32(params.Offset()),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list articles")
	}

	articles := make([]domain.Article, len(rows))
	for i, row := range rows {
		articles[i] = repoArticleToDomain(row)
	}

	return &domain.ListArticlesResult{
		Articles:  articles,
		Total:     int(total),
		StartRank: params.StartRank,
		NumRanks:  params.NumRanks,
	}, nil
}

func (s *articleService) Upsert(ctx context.Context, params domain.UpsertArticleParams) (*domain.Article, error) {
	const op = "article.upsert"

	if s.queries == nil {
		return nil, domain.Unavailable(op, "The news listing is not available")
	}

	params.Title = strings.TrimSpace(params.Title)
	params.URL = strings.TrimSpace(params.URL)
	if params.Title == "" {
		return nil, domain.Invalid(op, "Title is required")
	}
	if u, err := url.Parse(params.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, domain.Invalid(op, "URL must be absolute")
	}
	if params.PublishedAt.IsZero() {
		params.PublishedAt = time.Now().UTC()
	}

	row, err := s.queries.UpsertArticle(ctx, repository.UpsertArticleParams{
		Title:       params.Title,
		Summary:     toNullString(params.Summary),
		Url:         params.URL,
		ImageUrl:    toNullString(params.ImageURL),
		PublishedAt: params.PublishedAt,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save article")
	}

	article := repoArticleToDomain(row)
	s.logger.Info("article saved", "article_id", article.ID, "url", article.URL)
	return &article, nil
}

func repoArticleToDomain(a repository.Article) domain.Article {
	return domain.Article{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary.String,
		URL:         a.Url,
		ImageURL:    a.ImageUrl.String,
		PublishedAt: a.PublishedAt,
	}
}

func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
