package repositories

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names of the document store.
const (
	UsersCollection    = "users"
	PostsCollection    = "posts"
	CommentsCollection = "comments"
	LikesCollection    = "likes"
)

// NewMongoStore returns a Store backed by the collections of db.
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Users:    NewMongoUserRepository(db),
		Posts:    NewMongoPostRepository(db),
		Comments: NewMongoCommentRepository(db),
		Likes:    NewMongoLikeRepository(db),
	}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
// The unique indexes back the email/username and (post, user) like invariants.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		PostsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
			{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		LikesCollection: {
			{
				Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// objectID parses a client-supplied key. Keys that are not valid ObjectIDs
// cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return oid, nil
}

// mongoError maps driver errors onto the repository sentinels.
func mongoError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
	default:
		return fmt.Errorf("failed to "+format+": %w", append(args, err)...)
	}
}

func findOptions(page models.Page, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort).SetSkip(int64(page.Skip))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}
