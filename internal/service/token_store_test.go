package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/redis/go-redis/v9"
)

func TestDBTokenStoreStoresOnlyHashes(t *testing.T) {
	gdb := setupServiceTestDB(t, "token-hash")
	user := createTestUser(t, gdb, "tok@example.com")
	store := NewDBTokenStore(gdb, 0)
	ctx := context.Background()

	token, err := store.Issue(ctx, user.ID, "test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 character token, got %d", len(token))
	}

	var record db.AccessToken
	if err := gdb.First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.TokenHash == token || record.TokenHash != hashToken(token) {
		t.Fatalf("expected stored hash, got %q", record.TokenHash)
	}

	id, err := store.Resolve(ctx, token)
	if err != nil || id != user.ID {
		t.Fatalf("resolve: id=%d err=%v", id, err)
	}
	if err := gdb.First(&record, record.ID).Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if record.LastUsedAt == nil {
		t.Fatalf("expected last_used_at to be set")
	}

	if _, err := store.Resolve(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := store.Resolve(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestDBTokenStoreExpiry(t *testing.T) {
	gdb := setupServiceTestDB(t, "token-expiry")
	user := createTestUser(t, gdb, "exp@example.com")
	store := NewDBTokenStore(gdb, time.Hour)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	token, err := store.Issue(ctx, user.ID, "test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, err := store.Resolve(ctx, token); err != nil {
		t.Fatalf("expected token to be valid: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestRedisTokenKeyHidesToken(t *testing.T) {
	key := redisTokenKey("plain")
	if key != redisTokenPrefix+hashToken("plain") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestRedisTokenStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisTokenStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Issue(ctx, 42, "test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := store.Resolve(ctx, token)
	if err != nil || id != 42 {
		t.Fatalf("resolve: id=%d err=%v", id, err)
	}
	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}
}
