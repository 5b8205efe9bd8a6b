package service

import (
	"errors"
	"testing"

	"github.com/blogapi/internal/db"
)

func TestGenerateUniqueSlugExcludesSelf(t *testing.T) {
	gdb := setupServiceTestDB(t, "slug-exclude")
	user := createTestUser(t, gdb, "slug@example.com")

	post := db.Post{Title: "Hello", Slug: "hello", Content: "x", Status: db.PostStatusDraft, UserID: user.ID}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := generateUniqueSlug(gdb, "Hello", nil)
	if err != nil || got != "hello-2" {
		t.Fatalf("expected hello-2, got %q (%v)", got, err)
	}
	got, err = generateUniqueSlug(gdb, "Hello!", &post.ID)
	if err != nil || got != "hello" {
		t.Fatalf("expected own slug to be reusable, got %q (%v)", got, err)
	}
	if _, err := generateUniqueSlug(gdb, "???", nil); !errors.Is(err, ErrSlugEmpty) {
		t.Fatalf("expected ErrSlugEmpty, got %v", err)
	}
}

func TestGenerateUniqueSlugIgnoresDeletedPosts(t *testing.T) {
	gdb := setupServiceTestDB(t, "slug-deleted")
	user := createTestUser(t, gdb, "del@example.com")

	post := db.Post{Title: "Gone", Slug: "gone", Content: "x", Status: db.PostStatusDraft, UserID: user.ID}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := gdb.Delete(&post).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := generateUniqueSlug(gdb, "Gone", nil)
	if err != nil || got != "gone" {
		t.Fatalf("expected gone, got %q (%v)", got, err)
	}
	taken, err := slugTaken(gdb, "gone", nil)
	if err != nil || taken {
		t.Fatalf("expected deleted slug to be free, taken=%v err=%v", taken, err)
	}
}
