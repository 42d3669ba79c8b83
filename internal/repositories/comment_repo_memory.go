package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"blog/internal/models"

	"github.com/google/uuid"
)

// MemoryCommentRepository is an in-memory implementation of CommentRepository.
type MemoryCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMemoryCommentRepository creates a new instance of MemoryCommentRepository.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{
		comments: make(map[string]models.Comment),
	}
}

// Create adds a new comment.
func (r *MemoryCommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = nowUTC()
	}
	r.comments[comment.ID] = *comment
	return nil
}

// GetByID returns a comment by its ID.
func (r *MemoryCommentRepository) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
	}
	return &comment, nil
}

// ListByPost returns a post's comments, oldest first.
func (r *MemoryCommentRepository) ListByPost(_ context.Context, postID string, page models.Page) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.PostID == postID {
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return window(list, page), nil
}

// UpdateContent replaces a comment's content.
func (r *MemoryCommentRepository) UpdateContent(_ context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[id]
	if !ok {
		return fmt.Errorf("comment with ID %s not found for update: %w", id, ErrNotFound)
	}
	comment.Content = content
	r.comments[id] = comment
	return nil
}

// Delete removes a comment by its ID.
func (r *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}
