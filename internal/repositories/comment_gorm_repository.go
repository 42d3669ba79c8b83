package repositories

import (
	"context"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create creates a new comment in the database.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = nowUTC()
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return gormError(err, "create comment on post %s", comment.PostID)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *GORMCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "get comment by ID %s", id)
	}
	return &comment, nil
}

// ListByPost retrieves a post's comments, oldest first.
func (r *GORMCommentRepository) ListByPost(ctx context.Context, postID string, page models.Page) ([]models.Comment, error) {
	q := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	var comments []models.Comment
	if err := q.Offset(page.Skip).Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, gormError(err, "list comments for post %s", postID)
	}
	return comments, nil
}

// UpdateContent replaces a comment's content.
func (r *GORMCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return gormError(res.Error, "update comment %s", id)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "update comment %s", id)
	}
	return nil
}

// Delete deletes a comment by its ID.
func (r *GORMCommentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "delete comment %s", id)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "delete comment %s", id)
	}
	return nil
}
