package repositories_test

import (
	"context"
	"testing"
	"time"

	"blog/internal/models"
	"blog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns hex id", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}
		require.NoError(mt, repo.Create(ctx, user))
		assert.True(mt, primitive.IsValidObjectID(user.ID))
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com"})
		assert.ErrorIs(mt, err, repositories.ErrDuplicate)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@x.com"},
			{Key: "password", Value: "hash"},
			{Key: "bio", Value: "hi"},
		}))

		user, err := repo.GetByEmail(ctx, "alice@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, "alice", user.Username)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, "hi", user.Bio)
	})

	mt.Run("get by email not found", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.users", mtest.FirstBatch))

		_, err := repo.GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})

	mt.Run("get by malformed id", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)

		_, err := repo.GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "blog.posts", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id1},
				{Key: "title", Value: "Second"},
				{Key: "slug", Value: "second"},
				{Key: "tags", Value: bson.A{"go"}},
				{Key: "author_id", Value: "a1"},
				{Key: "is_published", Value: true},
				{Key: "created_at", Value: created.Add(time.Hour)},
			},
			bson.D{
				{Key: "_id", Value: id2},
				{Key: "title", Value: "First"},
				{Key: "slug", Value: "first"},
				{Key: "author_id", Value: "a1"},
				{Key: "is_published", Value: true},
				{Key: "created_at", Value: created},
			},
		)
		killCursors := mtest.CreateCursorResponse(0, "blog.posts", mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		posts, err := repo.List(ctx, models.PostFilter{PublishedOnly: true, Tag: "go"}, models.Page{Limit: 10})
		require.NoError(mt, err)
		require.Len(mt, posts, 2)
		assert.Equal(mt, id1.Hex(), posts[0].ID)
		assert.Equal(mt, []string{"go"}, posts[0].Tags)
		assert.Equal(mt, []string{}, posts[1].Tags)
		assert.True(mt, posts[1].CreatedAt.Equal(created))
	})

	mt.Run("update missing post", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		title := "New"
		err := repo.Update(ctx, primitive.NewObjectID().Hex(), models.PostPatch{Title: &title})
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}

func TestMongoCommentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("update content", func(mt *mtest.T) {
		repo := repositories.NewMongoCommentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(mt, repo.UpdateContent(ctx, primitive.NewObjectID().Hex(), "edited"))
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := repositories.NewMongoCommentRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.comments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "post_id", Value: "p1"},
			{Key: "author_id", Value: "a1"},
			{Key: "content", Value: "nice"},
		}))

		comment, err := repo.GetByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "p1", comment.PostID)
		assert.Equal(mt, "a1", comment.AuthorID)
		assert.Equal(mt, "nice", comment.Content)
	})
}

func TestMongoLikeRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("exists false", func(mt *mtest.T) {
		repo := repositories.NewMongoLikeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.likes", mtest.FirstBatch))

		ok, err := repo.Exists(ctx, "p1", "u1")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("duplicate like", func(mt *mtest.T) {
		repo := repositories.NewMongoLikeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(ctx, &models.Like{PostID: "p1", UserID: "u1"})
		assert.ErrorIs(mt, err, repositories.ErrDuplicate)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := repositories.NewMongoLikeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.likes", mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(3)},
		}))

		n, err := repo.CountByPost(ctx, "p1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}
