package services

import (
	"context"
	"fmt"
	"time"

	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
)

const commentNotFound = "Comment not found"

// CommentService handles business logic related to comments.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	events   emitter
	now      func() time.Time
}

// NewCommentService creates a new CommentService. publisher may be nil.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, publisher EventPublisher) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		events:   emitter{publisher: publisher},
		now:      time.Now,
	}
}

// WithClock replaces the clock used for timestamps.
func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

// List returns a post's comments, oldest first.
func (s *CommentService) List(ctx context.Context, postID string, page models.Page) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Add attaches a comment by principal to an existing post.
func (s *CommentService) Add(ctx context.Context, principal models.Principal, postID, content string) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, storeError(err, postNotFound, "get post")
	}

	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  principal.ID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.events.emit(Event{Type: EventCommentAdded, ActorID: principal.ID, PostID: postID, CommentID: comment.ID, OccurredAt: comment.CreatedAt})
	return comment, nil
}

// Edit replaces the content of a comment owned by principal.
func (s *CommentService) Edit(ctx context.Context, principal models.Principal, commentID, content string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, storeError(err, commentNotFound, "get comment")
	}
	if err := auth.AuthorizeMutation(principal, comment.AuthorID); err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, storeError(err, commentNotFound, "update comment")
	}
	comment.Content = content

	s.events.emit(Event{Type: EventCommentUpdated, ActorID: principal.ID, PostID: comment.PostID, CommentID: comment.ID, OccurredAt: s.now().UTC()})
	return comment, nil
}

// Delete removes a comment owned by principal.
func (s *CommentService) Delete(ctx context.Context, principal models.Principal, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return storeError(err, commentNotFound, "get comment")
	}
	if err := auth.AuthorizeMutation(principal, comment.AuthorID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return storeError(err, commentNotFound, "delete comment")
	}

	s.events.emit(Event{Type: EventCommentDeleted, ActorID: principal.ID, PostID: comment.PostID, CommentID: comment.ID, OccurredAt: s.now().UTC()})
	return nil
}
