package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenStore issues and resolves opaque bearer tokens. Only a hash of each token is stored.
type TokenStore interface {
	Issue(ctx context.Context, userID uint, name string) (string, error)
	Resolve(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

// DBTokenStore keeps access tokens in the access_tokens table.
type DBTokenStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDBTokenStore creates a store; ttl <= 0 means tokens never expire.
func NewDBTokenStore(gdb *gorm.DB, ttl time.Duration) *DBTokenStore {
	return &DBTokenStore{db: gdb, ttl: ttl, now: time.Now}
}

func (s *DBTokenStore) Issue(ctx context.Context, userID uint, name string) (string, error) {
	plain := newPlainToken()
	record := db.AccessToken{
		UserID:    userID,
		Name:      name,
		TokenHash: hashToken(plain),
	}
	if s.ttl > 0 {
		expires := s.now().Add(s.ttl)
		record.ExpiresAt = &expires
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return plain, nil
}

func (s *DBTokenStore) Resolve(ctx context.Context, token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}

	var record db.AccessToken
	if err := s.db.WithContext(ctx).Where("token_hash = ?", hashToken(token)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	now := s.now()
	if record.ExpiresAt != nil && !now.Before(*record.ExpiresAt) {
		return 0, ErrInvalidToken
	}

	if err := s.db.WithContext(ctx).Model(&record).UpdateColumn("last_used_at", now).Error; err != nil {
		return 0, err
	}
	return record.UserID, nil
}

func (s *DBTokenStore) Revoke(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token_hash = ?", hashToken(strings.TrimSpace(token))).Delete(&db.AccessToken{}).Error
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// newPlainToken returns 64 hex characters built from two random UUIDs.
func newPlainToken() string {
	a, b := uuid.New(), uuid.New()
	return hex.EncodeToString(a[:]) + hex.EncodeToString(b[:])
}
