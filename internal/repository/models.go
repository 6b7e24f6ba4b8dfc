package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Summary     sql.NullString `json:"summary"`
	Url         string         `json:"url"`
	ImageUrl    sql.NullString `json:"image_url"`
	PublishedAt time.Time      `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
}
