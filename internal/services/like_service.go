package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog/internal/apperrors"
	"blog/internal/cache"
	"blog/internal/models"
	"blog/internal/repositories"
)

// LikeService handles business logic related to likes.
type LikeService struct {
	likes  repositories.LikeRepository
	posts  repositories.PostRepository
	cache  *cache.Client
	events emitter
}

// NewLikeService creates a new LikeService. cache and publisher may be nil.
func NewLikeService(likes repositories.LikeRepository, posts repositories.PostRepository, likeCache *cache.Client, publisher EventPublisher) *LikeService {
	return &LikeService{
		likes:  likes,
		posts:  posts,
		cache:  likeCache,
		events: emitter{publisher: publisher},
	}
}

// Like records that principal likes the post. A second like is a conflict.
func (s *LikeService) Like(ctx context.Context, principal models.Principal, postID string) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return storeError(err, postNotFound, "get post")
	}

	exists, err := s.likes.Exists(ctx, postID, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if exists {
		return apperrors.Conflict("You already liked this post")
	}
	if err := s.likes.Create(ctx, &models.Like{PostID: postID, UserID: principal.ID}); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.Wrap(apperrors.KindConflict, "You already liked this post", err)
		}
		return fmt.Errorf("failed to like post: %w", err)
	}

	s.cache.InvalidateLikeCount(ctx, postID)
	s.events.emit(Event{Type: EventPostLiked, ActorID: principal.ID, PostID: postID, OccurredAt: time.Now().UTC()})
	return nil
}

// Unlike removes principal's like from the post.
func (s *LikeService) Unlike(ctx context.Context, principal models.Principal, postID string) error {
	if err := s.likes.Delete(ctx, postID, principal.ID); err != nil {
		return storeError(err, "Like not found", "unlike post")
	}

	s.cache.InvalidateLikeCount(ctx, postID)
	s.events.emit(Event{Type: EventPostUnliked, ActorID: principal.ID, PostID: postID, OccurredAt: time.Now().UTC()})
	return nil
}

// Count returns the number of likes on a post. Unknown posts count zero.
func (s *LikeService) Count(ctx context.Context, postID string) (int64, error) {
	if n, ok := s.cache.LikeCount(ctx, postID); ok {
		return n, nil
	}
	n, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	s.cache.SetLikeCount(ctx, postID, n)
	return n, nil
}
