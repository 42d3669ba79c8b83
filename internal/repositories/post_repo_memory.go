package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"blog/internal/models"

	"github.com/google/uuid"
)

// MemoryPostRepository is an in-memory implementation of PostRepository.
type MemoryPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMemoryPostRepository creates a new instance of MemoryPostRepository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *MemoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = nowUTC()
	}
	r.posts[post.ID] = clonePost(*post)
	return nil
}

// GetByID returns a post by its ID.
func (r *MemoryPostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	post = clonePost(post)
	return &post, nil
}

// GetBySlug returns the oldest post carrying slug.
func (r *MemoryPostRepository) GetBySlug(_ context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Post
	for _, p := range r.posts {
		if p.Slug != slug || (publishedOnly && !p.IsPublished) {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) {
			p := clonePost(p)
			found = &p
		}
	}
	if found == nil {
		return nil, fmt.Errorf("post with slug %s: %w", slug, ErrNotFound)
	}
	return found, nil
}

// List returns matching posts, newest first.
func (r *MemoryPostRepository) List(_ context.Context, filter models.PostFilter, page models.Page) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.PublishedOnly && !p.IsPublished {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Tag != "" && !slices.Contains(p.Tags, filter.Tag) {
			continue
		}
		list = append(list, clonePost(p))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return window(list, page), nil
}

// Update applies a partial update to a post.
func (r *MemoryPostRepository) Update(_ context.Context, id string, patch models.PostPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post with ID %s not found for update: %w", id, ErrNotFound)
	}
	patch.Apply(&post)
	r.posts[id] = clonePost(post)
	return nil
}

// Delete removes a post by its ID.
func (r *MemoryPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}
