package service

import (
	"context"

	"github.com/blogapi/internal/db"
)

// PostIndexer mirrors posts into an external search engine.
type PostIndexer interface {
	IndexPost(ctx context.Context, post db.Post) error
	RemovePost(ctx context.Context, id uint) error
	SearchTitles(ctx context.Context, query string) ([]uint, error)
}
