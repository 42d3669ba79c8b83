package services

import (
	"context"
	"fmt"
	"time"

	"blog/internal/apperrors"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/pkg/slug"
)

const postNotFound = "Post not found"

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	Title       string
	Content     string
	Tags        []string
	IsPublished bool
}

// UpdatePostInput is a partial post update. Nil fields are left untouched.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	Tags        *[]string
	IsPublished *bool
}

// PostQuery filters the public post listing.
type PostQuery struct {
	AuthorID string
	Tag      string
}

// PostService handles business logic related to posts.
type PostService struct {
	posts  repositories.PostRepository
	events emitter
	now    func() time.Time
}

// NewPostService creates a new PostService. publisher may be nil.
func NewPostService(posts repositories.PostRepository, publisher EventPublisher) *PostService {
	return &PostService{
		posts:  posts,
		events: emitter{publisher: publisher},
		now:    time.Now,
	}
}

// WithClock replaces the clock used for timestamps.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// Create stores a post authored by principal. The slug is derived from the title.
func (s *PostService) Create(ctx context.Context, principal models.Principal, in CreatePostInput) (*models.Post, error) {
	postSlug, err := slugFor(in.Title)
	if err != nil {
		return nil, err
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		Tags:        tags,
		Slug:        postSlug,
		AuthorID:    principal.ID,
		IsPublished: in.IsPublished,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.events.emit(Event{Type: EventPostCreated, ActorID: principal.ID, PostID: post.ID, Slug: post.Slug, OccurredAt: post.CreatedAt})
	return post, nil
}

// GetBySlug returns a published post. The input is normalised before lookup.
func (s *PostService) GetBySlug(ctx context.Context, rawSlug string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug.Make(rawSlug), true)
	if err != nil {
		return nil, storeError(err, postNotFound, "get post")
	}
	return post, nil
}

// List returns published posts, newest first.
func (s *PostService) List(ctx context.Context, q PostQuery, page models.Page) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, models.PostFilter{
		AuthorID:      q.AuthorID,
		Tag:           q.Tag,
		PublishedOnly: true,
	}, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListMine returns every post of principal, drafts included.
func (s *PostService) ListMine(ctx context.Context, principal models.Principal, page models.Page) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, models.PostFilter{AuthorID: principal.ID}, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update applies a partial update to the post at rawSlug. A new title
// recomputes the slug.
func (s *PostService) Update(ctx context.Context, principal models.Principal, rawSlug string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug.Make(rawSlug), false)
	if err != nil {
		return nil, storeError(err, postNotFound, "get post")
	}
	if err := auth.AuthorizeMutation(principal, post.AuthorID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := models.PostPatch{
		Content:     in.Content,
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
		UpdatedAt:   &now,
	}
	if in.Title != nil {
		newSlug, err := slugFor(*in.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = in.Title
		patch.Slug = &newSlug
	}
	if err := s.posts.Update(ctx, post.ID, patch); err != nil {
		return nil, storeError(err, postNotFound, "update post")
	}

	updated, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, storeError(err, postNotFound, "reload post")
	}
	s.events.emit(Event{Type: EventPostUpdated, ActorID: principal.ID, PostID: updated.ID, Slug: updated.Slug, OccurredAt: now})
	return updated, nil
}

// Delete removes the post at rawSlug. Its comments and likes are kept.
func (s *PostService) Delete(ctx context.Context, principal models.Principal, rawSlug string) error {
	post, err := s.posts.GetBySlug(ctx, slug.Make(rawSlug), false)
	if err != nil {
		return storeError(err, postNotFound, "get post")
	}
	if err := auth.AuthorizeMutation(principal, post.AuthorID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return storeError(err, postNotFound, "delete post")
	}

	s.events.emit(Event{Type: EventPostDeleted, ActorID: principal.ID, PostID: post.ID, Slug: post.Slug, OccurredAt: s.now().UTC()})
	return nil
}

func slugFor(title string) (string, error) {
	s := slug.Make(title)
	if s == "" {
		return "", apperrors.Validation("title must contain at least one letter or digit")
	}
	return s, nil
}
