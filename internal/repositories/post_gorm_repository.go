package repositories

import (
	"context"
	"encoding/json"
	"strings"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = nowUTC()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return gormError(err, "create post %s", post.Slug)
	}
	return nil
}

// GetByID retrieves a single post by its ID.
func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "get post by ID %s", id)
	}
	return &post, nil
}

// GetBySlug retrieves the oldest post carrying slug.
func (r *GORMPostRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var post models.Post
	if err := q.Order("created_at ASC").First(&post).Error; err != nil {
		return nil, gormError(err, "get post by slug %s", slug)
	}
	return &post, nil
}

// List retrieves matching posts, newest first.
func (r *GORMPostRepository) List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if filter.AuthorID != "" {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; match the encoded element.
		encoded, err := json.Marshal(filter.Tag)
		if err != nil {
			return nil, gormError(err, "encode tag filter %s", filter.Tag)
		}
		q = q.Where(`tags LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(string(encoded))+"%")
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	var posts []models.Post
	if err := q.Offset(page.Skip).Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, gormError(err, "list posts")
	}
	return posts, nil
}

// Update applies a partial update to a post.
func (r *GORMPostRepository) Update(ctx context.Context, id string, patch models.PostPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return gormError(err, "get post %s for update", id)
		}
		patch.Apply(&post)
		// Save writes every column, so the tags serializer applies.
		if err := tx.Save(&post).Error; err != nil {
			return gormError(err, "update post %s", id)
		}
		return nil
	})
}

// Delete deletes a post by its ID from the database.
func (r *GORMPostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "delete post %s", id)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "delete post %s", id)
	}
	return nil
}
