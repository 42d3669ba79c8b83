package repositories

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    string             `bson:"post_id"`
	AuthorID  string             `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d commentDocument) model() models.Comment {
	return models.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID,
		AuthorID:  d.AuthorID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

// MongoCommentRepository is a MongoDB implementation of CommentRepository.
type MongoCommentRepository struct {
	coll *mongo.Collection
}

// NewMongoCommentRepository creates a repository over the comments collection.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(CommentsCollection)}
}

// Create inserts a comment and sets its store-assigned ID.
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = nowUTC()
	}
	doc := commentDocument{
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mongoError(err, "create comment on post %s", comment.PostID)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetByID finds a comment by ID.
func (r *MongoCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc commentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err, "get comment by ID %s", id)
	}
	comment := doc.model()
	return &comment, nil
}

// ListByPost finds a post's comments, oldest first.
func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID string, page models.Page) ([]models.Comment, error) {
	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	cursor, err := r.coll.Find(ctx, bson.M{"post_id": postID}, findOptions(page, sort))
	if err != nil {
		return nil, mongoError(err, "list comments for post %s", postID)
	}
	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError(err, "decode comments for post %s", postID)
	}
	comments := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, d.model())
	}
	return comments, nil
}

// UpdateContent replaces a comment's content.
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"content": content}})
	if err != nil {
		return mongoError(err, "update comment %s", id)
	}
	if res.MatchedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "update comment %s", id)
	}
	return nil
}

// Delete removes a comment by ID.
func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mongoError(err, "delete comment %s", id)
	}
	if res.DeletedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "delete comment %s", id)
	}
	return nil
}
