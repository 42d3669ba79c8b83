package repositories

import (
	"time"

	"blog/internal/models"
)

// NewMemoryStore returns a Store backed by in-memory repositories.
func NewMemoryStore() Store {
	return Store{
		Users:    NewMemoryUserRepository(),
		Posts:    NewMemoryPostRepository(),
		Comments: NewMemoryCommentRepository(),
		Likes:    NewMemoryLikeRepository(),
	}
}

func window[T any](items []T, page models.Page) []T {
	if page.Skip < 0 || page.Skip >= len(items) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func clonePost(p models.Post) models.Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
