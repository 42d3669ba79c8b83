package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"blog/internal/apperrors"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/services"
	"blog/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

var (
	alice = models.Principal{ID: "user-a", Username: "alice", Email: "alice@x.com"}
	bob   = models.Principal{ID: "user-b", Username: "bob", Email: "bob@x.com"}
)

func firstPage(t *testing.T) models.Page {
	t.Helper()
	page, err := services.NewPage(services.DefaultPage, services.DefaultLimit)
	require.NoError(t, err)
	return page
}

func TestNewPage(t *testing.T) {
	page, err := services.NewPage(3, 20)
	require.NoError(t, err)
	assert.Equal(t, models.Page{Skip: 40, Limit: 20}, page)

	for _, tc := range []struct{ page, limit int }{{0, 10}, {1, 0}, {1, 101}, {-1, 5}, {92233720368547760, 100}, {math.MaxInt, 2}} {
		_, err := services.NewPage(tc.page, tc.limit)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "%+v", tc)
	}
}

func TestPostService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("Publish", rabbitmq.EventsExchange, services.EventPostCreated, mock.Anything).Return(nil).Once()
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), publisher).
		WithClock(func() time.Time { return t0 })

	post, err := postService.Create(ctx, alice, services.CreatePostInput{
		Title:       "Hello World!",
		Content:     "body",
		IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.Equal(t, []string{}, post.Tags)
	assert.Equal(t, t0, post.CreatedAt)
	assert.Nil(t, post.UpdatedAt)

	got, err := postService.GetBySlug(ctx, "Hello World")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	publisher.AssertExpectations(t)
	body := publisher.Calls[0].Arguments.Get(2).([]byte)
	var evt services.Event
	require.NoError(t, json.Unmarshal(body, &evt))
	assert.Equal(t, services.EventPostCreated, evt.Type)
	assert.Equal(t, alice.ID, evt.ActorID)
	assert.Equal(t, post.ID, evt.PostID)
}

func TestPostService_CreateRejectsEmptySlug(t *testing.T) {
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), nil)

	_, err := postService.Create(context.Background(), alice, services.CreatePostInput{Title: "!!!", Content: "x"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestPostService_PublishFailureDoesNotFailRequest(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), publisher)

	_, err := postService.Create(context.Background(), alice, services.CreatePostInput{Title: "Hi", Content: "x"})
	assert.NoError(t, err)
}

func TestPostService_DraftsAreHidden(t *testing.T) {
	ctx := context.Background()
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), nil)

	_, err := postService.Create(ctx, alice, services.CreatePostInput{Title: "Draft", Content: "x"})
	require.NoError(t, err)
	_, err = postService.Create(ctx, alice, services.CreatePostInput{Title: "Live", Content: "x", Tags: []string{"go"}, IsPublished: true})
	require.NoError(t, err)

	_, err = postService.GetBySlug(ctx, "draft")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	public, err := postService.List(ctx, services.PostQuery{}, firstPage(t))
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "live", public[0].Slug)

	tagged, err := postService.List(ctx, services.PostQuery{Tag: "rust"}, firstPage(t))
	require.NoError(t, err)
	assert.Empty(t, tagged)

	mine, err := postService.ListMine(ctx, alice, firstPage(t))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := postService.ListMine(ctx, bob, firstPage(t))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestPostService_Update(t *testing.T) {
	ctx := context.Background()
	now := t0
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), nil).
		WithClock(func() time.Time { return now })

	post, err := postService.Create(ctx, alice, services.CreatePostInput{Title: "Hello", Content: "v1", Tags: []string{"go"}})
	require.NoError(t, err)

	now = t0.Add(time.Hour)
	title := "Hello Again"
	published := true
	updated, err := postService.Update(ctx, alice, "hello", services.UpdatePostInput{Title: &title, IsPublished: &published})
	require.NoError(t, err)
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, "Hello Again", updated.Title)
	assert.Equal(t, "hello-again", updated.Slug)
	assert.Equal(t, "v1", updated.Content)
	assert.Equal(t, []string{"go"}, updated.Tags)
	assert.True(t, updated.IsPublished)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)
	assert.Equal(t, t0, updated.CreatedAt)

	_, err = postService.GetBySlug(ctx, "hello")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = postService.GetBySlug(ctx, "hello-again")
	assert.NoError(t, err)
}

func TestPostService_NotFoundPrecedesForbidden(t *testing.T) {
	ctx := context.Background()
	postService := services.NewPostService(repositories.NewMemoryPostRepository(), nil)

	_, err := postService.Create(ctx, alice, services.CreatePostInput{Title: "Mine", Content: "x"})
	require.NoError(t, err)

	content := "hijacked"
	_, err = postService.Update(ctx, bob, "missing", services.UpdatePostInput{Content: &content})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(postService.Delete(ctx, bob, "missing")))

	_, err = postService.Update(ctx, bob, "mine", services.UpdatePostInput{Content: &content})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(postService.Delete(ctx, bob, "mine")))

	mine, err := postService.ListMine(ctx, alice, firstPage(t))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "x", mine[0].Content)

	require.NoError(t, postService.Delete(ctx, alice, "mine"))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(postService.Delete(ctx, alice, "mine")))
}

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	postService := services.NewPostService(store.Posts, nil)
	commentService := services.NewCommentService(store.Comments, store.Posts, nil)

	post, err := postService.Create(ctx, alice, services.CreatePostInput{Title: "Post", Content: "x", IsPublished: true})
	require.NoError(t, err)

	_, err = commentService.Add(ctx, bob, "missing-post", "hi")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	comment, err := commentService.Add(ctx, bob, post.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.AuthorID)
	assert.Equal(t, post.ID, comment.PostID)

	list, err := commentService.List(ctx, post.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = commentService.Edit(ctx, alice, comment.ID, "edited by alice")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(commentService.Delete(ctx, alice, comment.ID)))

	_, err = commentService.Edit(ctx, alice, "missing", "x")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	edited, err := commentService.Edit(ctx, bob, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)

	require.NoError(t, commentService.Delete(ctx, bob, comment.ID))
	list, err = commentService.List(ctx, post.ID, firstPage(t))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLikeService(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	postService := services.NewPostService(store.Posts, nil)
	likeService := services.NewLikeService(store.Likes, store.Posts, nil, publisher)

	post, err := postService.Create(ctx, alice, services.CreatePostInput{Title: "Post", Content: "x", IsPublished: true})
	require.NoError(t, err)

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(likeService.Like(ctx, bob, "missing")))

	require.NoError(t, likeService.Like(ctx, bob, post.ID))
	err = likeService.Like(ctx, bob, post.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	require.NoError(t, likeService.Like(ctx, alice, post.ID))

	n, err := likeService.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, likeService.Unlike(ctx, bob, post.ID))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(likeService.Unlike(ctx, bob, post.ID)))

	n, err = likeService.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = likeService.Count(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, n)

	publisher.AssertCalled(t, "Publish", rabbitmq.EventsExchange, services.EventPostLiked, mock.Anything)
	publisher.AssertCalled(t, "Publish", rabbitmq.EventsExchange, services.EventPostUnliked, mock.Anything)
	publisher.AssertNumberOfCalls(t, "Publish", 3)
}
