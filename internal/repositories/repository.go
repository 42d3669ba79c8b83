package repositories

import (
	"context"
	"errors"

	"blog/internal/models"
)

var (
	// ErrNotFound is returned when no document matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetBySlug returns the first post with slug, optionally only among published posts.
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, error)
	Update(ctx context.Context, id string, patch models.PostPatch) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, page models.Page) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// LikeRepository defines the interface for like data access.
// Likes are addressed by (post, user), never by their own ID.
type LikeRepository interface {
	Exists(ctx context.Context, postID, userID string) (bool, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, postID, userID string) error
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// Store groups the four collections the services depend on.
type Store struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
	Likes    LikeRepository
}
