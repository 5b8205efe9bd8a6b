package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	PostStatusDraft   = "draft"
	PostStatusPublish = "publish"
)

// Post 定义了文章模型。slug 在未删除的文章中唯一。
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"not null;uniqueIndex:idx_posts_slug,where:deleted_at IS NULL" json:"slug"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Status    string         `gorm:"size:16;not null;default:draft;index" json:"status"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      *User          `json:"user,omitempty"`
	Tags      []Tag          `gorm:"many2many:post_tags;" json:"tags"`
	Comments  []Comment      `json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContentHTML string `gorm:"-" json:"content_html"`
}

// ValidPostStatus reports whether status is one of the accepted values.
func ValidPostStatus(status string) bool {
	return status == PostStatusDraft || status == PostStatusPublish
}
