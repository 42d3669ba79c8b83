package repositories

import (
	"context"
	"errors"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type likeDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	PostID string             `bson:"post_id"`
	UserID string             `bson:"user_id"`
}

// MongoLikeRepository is a MongoDB implementation of LikeRepository.
type MongoLikeRepository struct {
	coll *mongo.Collection
}

// NewMongoLikeRepository creates a repository over the likes collection.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{coll: db.Collection(LikesCollection)}
}

// Exists reports whether the user already liked the post.
func (r *MongoLikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var doc likeDocument
	err := r.coll.FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, mongoError(err, "check like on post %s", postID)
	}
	return true, nil
}

// Create records a like. The unique (post_id, user_id) index rejects duplicates.
func (r *MongoLikeRepository) Create(ctx context.Context, like *models.Like) error {
	res, err := r.coll.InsertOne(ctx, likeDocument{PostID: like.PostID, UserID: like.UserID})
	if err != nil {
		return mongoError(err, "create like on post %s", like.PostID)
	}
	like.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// Delete removes the like for (post, user).
func (r *MongoLikeRepository) Delete(ctx context.Context, postID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return mongoError(err, "delete like on post %s", postID)
	}
	if res.DeletedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "delete like on post %s by user %s", postID, userID)
	}
	return nil
}

// CountByPost returns the number of likes on a post.
func (r *MongoLikeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, mongoError(err, "count likes on post %s", postID)
	}
	return n, nil
}
