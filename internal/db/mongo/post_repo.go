package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Loom/internal/core/posts"
)

// PostRepository implements posts.Repository against two collections:
// `posts` keyed by ULID, and an id-only `users` collection maintained from
// user.* events for existence checks.
type PostRepository struct {
	posts *mongo.Collection
	users *mongo.Collection
}

// NewPostRepository creates a PostRepository over the given database.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		posts: db.Collection("posts"),
		users: db.Collection("users"),
	}
}

func (r *PostRepository) Create(ctx context.Context, post *posts.Post) error {
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("post %s already exists: %w", post.ID, err)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	var post posts.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post %s: %w", postID, err)
	}
	return &post, nil
}

func (r *PostRepository) GetBatch(ctx context.Context, postIDs []string) ([]*posts.Post, error) {
	if len(postIDs) == 0 {
		return []*posts.Post{}, nil
	}
	cursor, err := r.posts.Find(ctx, bson.M{"_id": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query post batch: %w", err)
	}
	var result []*posts.Post
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode post batch: %w", err)
	}
	return result, nil
}

func (r *PostRepository) List(ctx context.Context, userID string, limit int, cursor string) ([]*posts.Post, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	if cursor != "" {
		filter["_id"] = bson.M{"$lt": cursor}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	var result []*posts.Post
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode post page: %w", err)
	}
	return result, nil
}

func (r *PostRepository) Update(ctx context.Context, postID string, text *string, files []posts.File, updatedAt time.Time) (*posts.Post, error) {
	set := bson.M{"updated_at": updatedAt}
	if text != nil {
		set["text"] = *text
	}
	update := bson.M{"$set": set}
	if len(files) > 0 {
		update["$push"] = bson.M{"files": bson.M{"$each": files}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post posts.Post
	err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post %s: %w", postID, err)
	}
	return &post, nil
}

func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}
	if res.DeletedCount == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	// Collect ids first so the caller can publish per-post deletion events.
	cur, err := r.posts.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query posts for user %s: %w", userID, err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode post ids: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	if _, err := r.posts.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to delete posts for user %s: %w", userID, err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *PostRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	err := r.users.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return true, nil
}

func (r *PostRepository) AddUser(ctx context.Context, userID string) error {
	// Upsert keeps redelivered user.created events idempotent.
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{"_id": userID}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record user %s: %w", userID, err)
	}
	return nil
}

func (r *PostRepository) RemoveUser(ctx context.Context, userID string) error {
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to remove user %s: %w", userID, err)
	}
	return nil
}
