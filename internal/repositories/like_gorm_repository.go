package repositories

import (
	"context"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// Exists reports whether the user already liked the post.
func (r *GORMLikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	if err != nil {
		return false, gormError(err, "check like on post %s", postID)
	}
	return n > 0, nil
}

// Create records a like. The (post_id, user_id) unique index rejects duplicates.
func (r *GORMLikeRepository) Create(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return gormError(err, "create like on post %s", like.PostID)
	}
	return nil
}

// Delete removes the like for (post, user).
func (r *GORMLikeRepository) Delete(ctx context.Context, postID, userID string) error {
	res := r.db.WithContext(ctx).Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID)
	if res.Error != nil {
		return gormError(res.Error, "delete like on post %s", postID)
	}
	if res.RowsAffected == 0 {
		return gormError(gorm.ErrRecordNotFound, "delete like on post %s by user %s", postID, userID)
	}
	return nil
}

// CountByPost returns the number of likes on a post.
func (r *GORMLikeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, gormError(err, "count likes on post %s", postID)
	}
	return n, nil
}
