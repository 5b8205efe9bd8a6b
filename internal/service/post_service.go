package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxSlugAttempts bounds how often a generated slug is recomputed after losing a race
// on the unique index.
const maxSlugAttempts = 2

// PostService wraps post related database operations.
type PostService struct {
	db         *gorm.DB
	tags       *TagService
	authorizer PostAuthorizer
	indexer    PostIndexer
	renderer   *ContentRenderer
	pageSize   int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{
		db:         gdb,
		tags:       NewTagService(gdb),
		authorizer: AllowAuthenticated{},
		renderer:   NewContentRenderer(),
		pageSize:   10,
	}
}

// WithAuthorizer 替换文章修改/删除的授权策略。
func (s *PostService) WithAuthorizer(a PostAuthorizer) *PostService {
	if a != nil {
		s.authorizer = a
	}
	return s
}

// WithIndexer mirrors writes to a search index and serves Search from it.
func (s *PostService) WithIndexer(ix PostIndexer) *PostService {
	s.indexer = ix
	return s
}

// WithPageSize sets the default page size for listings.
func (s *PostService) WithPageSize(n int) *PostService {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// Create validates input, picks a slug, stores the post and attaches its tags in one
// transaction. actor becomes the owner.
func (s *PostService) Create(ctx context.Context, actor db.User, input PostInput) (*db.Post, error) {
	input, explicitSlug, err := prepareInput(input)
	if err != nil {
		return nil, err
	}

	var post db.Post
	for attempt := 1; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			postSlug := explicitSlug
			if postSlug != "" {
				taken, err := slugTaken(tx, postSlug, nil)
				if err != nil {
					return err
				}
				if taken {
					return ErrSlugExists
				}
			} else {
				generated, err := generateUniqueSlug(tx, input.Title, nil)
				if err != nil {
					return err
				}
				postSlug = generated
			}

			tags, err := s.tags.ResolveTags(ctx, tx, input.Tags)
			if err != nil {
				return err
			}

			post = db.Post{
				Title:   input.Title,
				Slug:    postSlug,
				Content: input.Content,
				Status:  input.Status,
				UserID:  actor.ID,
			}
			if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&post).Association("Tags").Append(&tags); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		if explicitSlug != "" || attempt >= maxSlugAttempts {
			return nil, ErrSlugExists
		}
		log.Printf("[POST] slug collision on create (title=%q, attempt=%d), retrying", input.Title, attempt)
	}

	created, err := s.load(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, created)
	return created, nil
}

// Update applies a full update to post id and syncs its tags to exactly input.Tags.
func (s *PostService) Update(ctx context.Context, actor db.User, id uint, input PostInput) (*db.Post, error) {
	input, explicitSlug, err := prepareInput(input)
	if err != nil {
		return nil, err
	}
	rawSlug := strings.TrimSpace(input.Slug)

	for attempt := 1; ; attempt++ {
		regenerated := false
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing db.Post
			if err := tx.First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPostNotFound
				}
				return err
			}

			if err := s.authorizer.CanModify(actor, existing); err != nil {
				return err
			}

			newSlug := existing.Slug
			switch {
			case rawSlug == "":
				if input.Title != existing.Title {
					generated, err := generateUniqueSlug(tx, input.Title, &existing.ID)
					if err != nil {
						return err
					}
					newSlug = generated
					regenerated = true
				}
			case rawSlug == existing.Slug, explicitSlug == existing.Slug:
				// 保持原有 slug
			default:
				taken, err := slugTaken(tx, explicitSlug, &existing.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrSlugExists
				}
				newSlug = explicitSlug
			}

			existing.Title = input.Title
			existing.Slug = newSlug
			existing.Content = input.Content
			existing.Status = input.Status
			if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
				return err
			}

			tags, err := s.tags.ResolveTags(ctx, tx, input.Tags)
			if err != nil {
				return err
			}
			return tx.Model(&existing).Association("Tags").Replace(&tags)
		})
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		if !regenerated || attempt >= maxSlugAttempts {
			return nil, ErrSlugExists
		}
		log.Printf("[POST] slug collision on update (post_id=%d, attempt=%d), retrying", id, attempt)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	return updated, nil
}

// Delete soft-deletes post id. Tag associations are kept.
func (s *PostService) Delete(ctx context.Context, actor db.User, id uint) error {
	var post db.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if err := s.authorizer.CanModify(actor, post); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&post).Error; err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.RemovePost(ctx, id); err != nil {
			log.Printf("[SEARCH] failed to remove post %d from index: %v", id, err)
		}
	}
	return nil
}

// Get fetches a live post by id with tags preloaded.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	return s.load(ctx, id)
}

// GetBySlug fetches a live post with its tags, author and comments.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).
		Preload("Tags", orderTags).
		Preload("User").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at asc").Order("comments.id asc")
		}).
		Where("slug = ?", postSlug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Comments == nil {
		post.Comments = []db.Comment{}
	}
	s.decorate(&post)
	return &post, nil
}

// List returns live posts newest first.
func (s *PostService) List(ctx context.Context, req PageRequest) (*Page[db.Post], error) {
	return s.page(ctx, s.db.WithContext(ctx).Model(&db.Post{}), req)
}

// ListByTag returns live posts carrying the tag with the given slug.
func (s *PostService) ListByTag(ctx context.Context, tagSlug string, req PageRequest) (*Page[db.Post], error) {
	tag, err := s.tags.GetBySlug(ctx, tagSlug)
	if err != nil {
		return nil, err
	}

	tagged := s.db.Table("post_tags").Select("post_id").Where("tag_id = ?", tag.ID)
	query := s.db.WithContext(ctx).Model(&db.Post{}).Where("posts.id IN (?)", tagged)
	return s.page(ctx, query, req)
}

// ListByAuthor returns live posts owned by userID.
func (s *PostService) ListByAuthor(ctx context.Context, userID uint, req PageRequest) (*Page[db.Post], error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	query := s.db.WithContext(ctx).Model(&db.Post{}).Where("posts.user_id = ?", userID)
	return s.page(ctx, query, req)
}

// Search returns live posts whose title contains the query, unpaginated.
// With an indexer configured the index picks the matches; SQL is the fallback.
func (s *PostService) Search(ctx context.Context, input SearchInput) ([]db.Post, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, errs.Err()
	}
	query := strings.TrimSpace(input.Query)

	if s.indexer != nil {
		ids, err := s.indexer.SearchTitles(ctx, query)
		if err == nil {
			return s.loadMany(ctx, ids)
		}
		log.Printf("[SEARCH] index query failed, falling back to SQL: %v", err)
	}

	var posts []db.Post
	if err := s.db.WithContext(ctx).
		Preload("Tags", orderTags).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(query))+"%").
		Order("created_at desc").
		Order("id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		s.decorate(&posts[i])
	}
	return posts, nil
}

// Reindex pushes every live post to the configured index and returns the count.
func (s *PostService) Reindex(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, nil
	}
	var posts []db.Post
	if err := s.db.WithContext(ctx).Preload("Tags", orderTags).Find(&posts).Error; err != nil {
		return 0, err
	}
	for _, post := range posts {
		if err := s.indexer.IndexPost(ctx, post); err != nil {
			return 0, fmt.Errorf("index post %d: %w", post.ID, err)
		}
	}
	return len(posts), nil
}

func (s *PostService) page(ctx context.Context, query *gorm.DB, req PageRequest) (*Page[db.Post], error) {
	result, err := paginate[db.Post](query, req.normalize(s.pageSize), func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Tags", orderTags).
			Order("posts.created_at desc").
			Order("posts.id desc")
	})
	if err != nil {
		return nil, err
	}
	for i := range result.Data {
		s.decorate(&result.Data[i])
	}
	return result, nil
}

func (s *PostService) load(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("Tags", orderTags).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.decorate(&post)
	return &post, nil
}

// loadMany keeps the order of ids and silently drops ids that no longer exist.
func (s *PostService) loadMany(ctx context.Context, ids []uint) ([]db.Post, error) {
	if len(ids) == 0 {
		return []db.Post{}, nil
	}
	var found []db.Post
	if err := s.db.WithContext(ctx).Preload("Tags", orderTags).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]db.Post, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}
	posts := make([]db.Post, 0, len(found))
	for _, id := range ids {
		post, ok := byID[id]
		if !ok {
			continue
		}
		s.decorate(&post)
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *PostService) decorate(post *db.Post) {
	if post.Tags == nil {
		post.Tags = []db.Tag{}
	}
	post.ContentHTML = s.renderer.RenderMarkdown(post.Content)
}

func (s *PostService) index(ctx context.Context, post *db.Post) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexPost(ctx, *post); err != nil {
		log.Printf("[SEARCH] failed to index post %d: %v", post.ID, err)
	}
}

// prepareInput validates and trims input and normalizes an explicitly supplied slug.
func prepareInput(input PostInput) (PostInput, string, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return input, "", errs.Err()
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Status = strings.TrimSpace(input.Status)

	explicit := ""
	if raw := strings.TrimSpace(input.Slug); raw != "" {
		explicit = slug.Make(raw)
		if explicit == "" {
			return input, "", fieldError("slug", "The slug field must contain letters or digits.")
		}
	} else if slug.Make(input.Title) == "" {
		return input, "", fieldError("title", "The title field must contain letters or digits.")
	}
	return input, explicit, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike 转义 LIKE 通配符，使查询按字面匹配。
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func orderTags(tx *gorm.DB) *gorm.DB {
	return tx.Order("tags.id asc")
}
