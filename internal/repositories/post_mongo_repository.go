package repositories

import (
	"context"
	"time"

	"blog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Tags        []string           `bson:"tags"`
	Slug        string             `bson:"slug"`
	AuthorID    string             `bson:"author_id"`
	IsPublished bool               `bson:"is_published"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at"`
}

func (d postDocument) model() models.Post {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		Tags:        tags,
		Slug:        d.Slug,
		AuthorID:    d.AuthorID,
		IsPublished: d.IsPublished,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoPostRepository is a MongoDB implementation of PostRepository.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a repository over the posts collection.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(PostsCollection)}
}

// Create inserts a post and sets its store-assigned ID.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = nowUTC()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	doc := postDocument{
		Title:       post.Title,
		Content:     post.Content,
		Tags:        post.Tags,
		Slug:        post.Slug,
		AuthorID:    post.AuthorID,
		IsPublished: post.IsPublished,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mongoError(err, "create post %s", post.Slug)
	}
	post.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetByID finds a post by ID.
func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err, "get post by ID %s", id)
	}
	post := doc.model()
	return &post, nil
}

// GetBySlug finds the oldest post carrying slug.
func (r *MongoPostRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	filter := bson.M{"slug": slug}
	if publishedOnly {
		filter["is_published"] = true
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var doc postDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, mongoError(err, "get post by slug %s", slug)
	}
	post := doc.model()
	return &post, nil
}

// List finds matching posts, newest first.
func (r *MongoPostRepository) List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["is_published"] = true
	}
	if filter.AuthorID != "" {
		query["author_id"] = filter.AuthorID
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	cursor, err := r.coll.Find(ctx, query, findOptions(page, sort))
	if err != nil {
		return nil, mongoError(err, "list posts")
	}
	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError(err, "decode posts")
	}
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.model())
	}
	return posts, nil
}

// Update sets the fields present in patch.
func (r *MongoPostRepository) Update(ctx context.Context, id string, patch models.PostPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.IsPublished != nil {
		set["is_published"] = *patch.IsPublished
	}
	if patch.UpdatedAt != nil {
		set["updated_at"] = *patch.UpdatedAt
	}
	if len(set) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return mongoError(err, "update post %s", id)
	}
	if res.MatchedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "update post %s", id)
	}
	return nil
}

// Delete removes a post by ID.
func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mongoError(err, "delete post %s", id)
	}
	if res.DeletedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "delete post %s", id)
	}
	return nil
}
