package db

import "time"

const (
	CommentStatusPending = "pending"
	CommentStatusPublish = "publish"
)

// Comment belongs to a post. ReplyTo points at another comment but is not a foreign key.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Body      string    `gorm:"column:comment;type:text;not null" json:"comment"`
	ReplyTo   *uint     `json:"reply_to"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PostTitle string `gorm:"->;-:migration" json:"post_title,omitempty"`
}

// ValidCommentStatus reports whether status is one of the accepted values.
func ValidCommentStatus(status string) bool {
	return status == CommentStatusPending || status == CommentStatusPublish
}
