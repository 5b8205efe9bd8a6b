package service

import (
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/slug"
	"gorm.io/gorm"
)

// generateUniqueSlug derives a slug from title that no live post other than excluding
// is using. It only reads; the unique index on posts.slug remains the final guard.
func generateUniqueSlug(tx *gorm.DB, title string, excluding *uint) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", ErrSlugEmpty
	}

	var taken []string
	query := tx.Model(&db.Post{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if excluding != nil {
		query = query.Where("id <> ?", *excluding)
	}
	if err := query.Pluck("slug", &taken).Error; err != nil {
		return "", err
	}

	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := slug.WithSuffix(base, n)
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
	}
}

// slugTaken reports whether a live post other than excluding already uses s.
func slugTaken(tx *gorm.DB, s string, excluding *uint) (bool, error) {
	query := tx.Model(&db.Post{}).Where("slug = ?", s)
	if excluding != nil {
		query = query.Where("id <> ?", *excluding)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
