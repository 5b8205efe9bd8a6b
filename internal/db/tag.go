package db

import "time"

// Tag 定义了标签模型，名称精确匹配且唯一。
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"index;not null;default:''" json:"slug"`
	Posts     []Post    `gorm:"many2many:post_tags;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PostCount int64 `gorm:"->;-:migration" json:"post_count"`
}
