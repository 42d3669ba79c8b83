package repositories

import (
	"context"
	"fmt"
	"sync"

	"blog/internal/models"

	"github.com/google/uuid"
)

type likeKey struct {
	postID string
	userID string
}

// MemoryLikeRepository is an in-memory implementation of LikeRepository.
type MemoryLikeRepository struct {
	likes map[likeKey]models.Like
	mu    sync.RWMutex
}

// NewMemoryLikeRepository creates a new instance of MemoryLikeRepository.
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{
		likes: make(map[likeKey]models.Like),
	}
}

// Exists reports whether the user already liked the post.
func (r *MemoryLikeRepository) Exists(_ context.Context, postID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.likes[likeKey{postID, userID}]
	return ok, nil
}

// Create records a like; a second like for the same pair is rejected.
func (r *MemoryLikeRepository) Create(_ context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{like.PostID, like.UserID}
	if _, ok := r.likes[key]; ok {
		return fmt.Errorf("like on post %s by user %s: %w", like.PostID, like.UserID, ErrDuplicate)
	}
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	r.likes[key] = *like
	return nil
}

// Delete removes the like for (post, user).
func (r *MemoryLikeRepository) Delete(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{postID, userID}
	if _, ok := r.likes[key]; !ok {
		return fmt.Errorf("like on post %s by user %s: %w", postID, userID, ErrNotFound)
	}
	delete(r.likes, key)
	return nil
}

// CountByPost returns the number of likes on a post.
func (r *MemoryLikeRepository) CountByPost(_ context.Context, postID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for key := range r.likes {
		if key.postID == postID {
			n++
		}
	}
	return n, nil
}
