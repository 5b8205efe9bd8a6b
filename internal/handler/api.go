package handler

import (
	"github.com/blogapi/internal/service"
	"gorm.io/gorm"
)

// Options carries the pluggable pieces the handlers are built with.
type Options struct {
	Tokens    service.TokenStore
	Indexer   service.PostIndexer
	OwnerOnly bool
	PageSize  int
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	posts    *service.PostService
	tags     *service.TagService
	users    *service.UserService
	comments *service.CommentService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	posts := service.NewPostService(db).
		WithAuthorizer(service.NewPostAuthorizer(opts.OwnerOnly)).
		WithPageSize(opts.PageSize)
	if opts.Indexer != nil {
		posts = posts.WithIndexer(opts.Indexer)
	}

	return &API{
		db:       db,
		posts:    posts,
		tags:     service.NewTagService(db),
		users:    service.NewUserService(db, opts.Tokens),
		comments: service.NewCommentService(db).WithPageSize(opts.PageSize),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
