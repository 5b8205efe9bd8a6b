package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogapi/internal/db"
	"gorm.io/gorm"
)

// CommentService wraps comment operations. Comments are hard-deleted.
type CommentService struct {
	db       *gorm.DB
	renderer *ContentRenderer
	pageSize int
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, renderer: NewContentRenderer(), pageSize: 10}
}

// WithPageSize sets the default page size for List.
func (s *CommentService) WithPageSize(n int) *CommentService {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// List returns comments newest first, each carrying the title of its post.
func (s *CommentService) List(ctx context.Context, req PageRequest) (*Page[db.Comment], error) {
	query := s.db.WithContext(ctx).Model(&db.Comment{})
	return paginate[db.Comment](query, req.normalize(s.pageSize), func(tx *gorm.DB) *gorm.DB {
		return tx.Select("comments.*, posts.title AS post_title").
			Joins("LEFT JOIN posts ON posts.id = comments.post_id").
			Order("comments.created_at desc").
			Order("comments.id desc")
	})
}

// Get fetches a comment by id.
func (s *CommentService) Get(ctx context.Context, id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.WithContext(ctx).
		Select("comments.*, posts.title AS post_title").
		Joins("LEFT JOIN posts ON posts.id = comments.post_id").
		Where("comments.id = ?", id).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Create stores a new pending comment on a live post.
func (s *CommentService) Create(ctx context.Context, input CommentInput) (*db.Comment, error) {
	if errs := input.ValidateCreate(); len(errs) > 0 {
		return nil, errs.Err()
	}
	if err := s.checkPost(ctx, input.PostID); err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:  input.PostID,
		Name:    s.renderer.StripHTML(input.Name),
		Email:   normalizeEmail(input.Email),
		Body:    s.renderer.StripHTML(input.Body),
		ReplyTo: input.ReplyTo,
		Status:  db.CommentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, comment.ID)
}

// Update rewrites a comment, including its moderation status.
func (s *CommentService) Update(ctx context.Context, id uint, input CommentInput) (*db.Comment, error) {
	if errs := input.ValidateUpdate(); len(errs) > 0 {
		return nil, errs.Err()
	}

	var comment db.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if err := s.checkPost(ctx, input.PostID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&comment).Updates(map[string]interface{}{
		"post_id":  input.PostID,
		"name":     s.renderer.StripHTML(input.Name),
		"email":    normalizeEmail(input.Email),
		"comment":  s.renderer.StripHTML(input.Body),
		"reply_to": input.ReplyTo,
		"status":   strings.TrimSpace(input.Status),
	}).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// checkPost validates post_id against storage. reply_to is stored as given.
func (s *CommentService) checkPost(ctx context.Context, postID uint) error {
	var posts int64
	if err := s.db.WithContext(ctx).Model(&db.Post{}).Where("id = ?", postID).Count(&posts).Error; err != nil {
		return err
	}
	if posts == 0 {
		return fieldError("post_id", "The selected post id is invalid.")
	}
	return nil
}
