package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns every tag with the number of live posts using it.
func (s *TagService) List(ctx context.Context) ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.WithContext(ctx).
		Model(&db.Tag{}).
		Select("tags.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL").
		Group("tags.id").
		Order("tags.name asc").
		Order("tags.id asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches a tag by its slug.
func (s *TagService) GetBySlug(ctx context.Context, tagSlug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.WithContext(ctx).Where("slug = ?", tagSlug).Order("id asc").First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ResolveTags maps names to tag rows, creating missing ones. Duplicate names collapse
// to their first occurrence. Matching is exact after trimming surrounding whitespace.
// tx may be a transaction; when nil the service connection is used.
func (s *TagService) ResolveTags(ctx context.Context, tx *gorm.DB, names []string) ([]db.Tag, error) {
	if tx == nil {
		tx = s.db
	}
	tx = tx.WithContext(ctx)

	seen := make(map[string]struct{}, len(names))
	tags := make([]db.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := findOrCreateTag(tx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// ResolveTagIDs is ResolveTags returning only identifiers.
func (s *TagService) ResolveTagIDs(ctx context.Context, names []string) ([]uint, error) {
	tags, err := s.ResolveTags(ctx, nil, names)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// findOrCreateTag 依赖 tags.name 唯一索引：并发插入同名标签时只会有一行成功，其余回查。
func findOrCreateTag(tx *gorm.DB, name string) (*db.Tag, error) {
	tag := db.Tag{Name: name, Slug: slug.Make(name)}
	insert := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag)
	if insert.Error != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, insert.Error)
	}
	if insert.RowsAffected == 1 && tag.ID != 0 {
		return &tag, nil
	}

	var existing db.Tag
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("load tag %q: %w", name, err)
	}
	return &existing, nil
}

// BackfillSlugs fills in slugs for tags stored without one and returns how many changed.
// It is safe to run multiple times.
func (s *TagService) BackfillSlugs(ctx context.Context) (int, error) {
	updated := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tags []db.Tag
		if err := tx.Select("id, name, slug").Where("slug = '' OR slug IS NULL").Find(&tags).Error; err != nil {
			return fmt.Errorf("list tags: %w", err)
		}

		for _, tag := range tags {
			derived := slug.Make(tag.Name)
			if derived == "" {
				continue
			}
			if err := tx.Model(&db.Tag{}).Where("id = ?", tag.ID).Update("slug", derived).Error; err != nil {
				return fmt.Errorf("update tag slug (tag_id=%d): %w", tag.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
