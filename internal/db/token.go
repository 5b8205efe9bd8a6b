package db

import "time"

// AccessToken 保存令牌的 sha256 摘要，明文只在签发时返回一次。
type AccessToken struct {
	ID         uint       `gorm:"primarykey"`
	UserID     uint       `gorm:"index;not null"`
	Name       string     `gorm:"not null"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}
