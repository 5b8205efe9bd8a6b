package service

import "github.com/blogapi/internal/db"

// PostAuthorizer decides whether actor may update or delete post.
type PostAuthorizer interface {
	CanModify(actor db.User, post db.Post) error
}

// AllowAuthenticated lets any authenticated user modify any post.
type AllowAuthenticated struct{}

func (AllowAuthenticated) CanModify(db.User, db.Post) error { return nil }

// OwnerOnly restricts modifications to the post's author.
type OwnerOnly struct{}

func (OwnerOnly) CanModify(actor db.User, post db.Post) error {
	if actor.ID == 0 || actor.ID != post.UserID {
		return ErrForbidden
	}
	return nil
}

// NewPostAuthorizer 根据配置返回授权策略。
func NewPostAuthorizer(ownerOnly bool) PostAuthorizer {
	if ownerOnly {
		return OwnerOnly{}
	}
	return AllowAuthenticated{}
}
