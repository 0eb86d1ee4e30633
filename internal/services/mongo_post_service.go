package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

// MongoPostService mutates posts with single-document conditional updates so
// that concurrent likes or comment deletions cannot overwrite each other.
type MongoPostService struct {
	store *Store
	users UserService
}

func NewMongoPostService(store *Store, users UserService) *MongoPostService {
	return &MongoPostService{store: store, users: users}
}

func (s *MongoPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	text, err := postText(text)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := newPost(author, text, time.Now().UTC())
	if _, err := s.store.posts.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("posts: insert: %w", err)
	}
	return post, nil
}

func (s *MongoPostService) List(ctx context.Context) ([]*models.Post, error) {
	cur, err := s.store.posts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*models.Post, 0)
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("posts: decode: %w", err)
		}
		out = append(out, normalizePost(&p))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("posts: cursor: %w", err)
	}
	return out, nil
}

func (s *MongoPostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	oid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, oid)
}

func (s *MongoPostService) Delete(ctx context.Context, userID, postID string) error {
	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return err
	}
	uid, err := parseID(userID, ErrNotAuthorized)
	if err != nil {
		return err
	}

	res, err := s.store.posts.DeleteOne(ctx, bson.M{"_id": pid, "user": uid})
	if err != nil {
		return fmt.Errorf("posts: delete: %w", err)
	}
	if res.DeletedCount == 1 {
		return nil
	}
	return s.explain(ctx, pid, func(p *models.Post) error {
		return checkDeletePost(p, uid)
	})
}

func (s *MongoPostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.conditionalUpdate(ctx,
		bson.M{"_id": pid, "likes.user": bson.M{"$ne": uid}},
		bson.M{"$push": bson.M{"likes": models.Like{User: uid}}},
		func(p *models.Post) error { return checkLike(p, uid) },
	)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *MongoPostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.conditionalUpdate(ctx,
		bson.M{"_id": pid, "likes.user": uid},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": uid}}},
		func(p *models.Post) error { return checkUnlike(p, uid) },
	)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *MongoPostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	text, err := postText(text)
	if err != nil {
		return nil, err
	}
	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := newComment(author, text, time.Now().UTC())
	post, err := s.conditionalUpdate(ctx,
		bson.M{"_id": pid},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     bson.A{comment},
			"$position": 0,
		}}},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (s *MongoPostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return nil, err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		if _, err := s.find(ctx, pid); err != nil {
			return nil, err
		}
		return nil, ErrCommentNotFound
	}

	post, err := s.conditionalUpdate(ctx,
		bson.M{"_id": pid, "comments": bson.M{"$elemMatch": bson.M{"_id": cid, "user": uid}}},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}},
		func(p *models.Post) error { return checkDeleteComment(p, uid, cid) },
	)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// conflictRetries bounds how often a conditional update is re-issued when the
// post changed between the failed update and the follow-up read.
const conflictRetries = 3

// conditionalUpdate applies update to the post matching filter and returns
// the updated document. When nothing matches, the current post is loaded and
// check reports which precondition failed. If every precondition holds, a
// concurrent write got in between and the update is tried again.
func (s *MongoPostService) conditionalUpdate(
	ctx context.Context,
	filter, update bson.M,
	check func(*models.Post) error,
) (*models.Post, error) {
	return retryOnConflict(conflictRetries, func() (*models.Post, error) {
		res := s.store.posts.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var post models.Post
		if err := res.Decode(&post); err != nil {
			if err != mongo.ErrNoDocuments {
				return nil, fmt.Errorf("posts: update: %w", err)
			}
			return nil, s.explain(ctx, filter["_id"].(primitive.ObjectID), check)
		}
		return normalizePost(&post), nil
	})
}

// retryOnConflict runs attempt until it stops failing with
// errConcurrentUpdate, giving up after retries extra tries.
func retryOnConflict(retries int, attempt func() (*models.Post, error)) (*models.Post, error) {
	for i := 0; ; i++ {
		post, err := attempt()
		if !errors.Is(err, errConcurrentUpdate) || i >= retries {
			return post, err
		}
	}
}

func (s *MongoPostService) explain(ctx context.Context, postID primitive.ObjectID, check func(*models.Post) error) error {
	post, err := s.find(ctx, postID)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(post); err != nil {
			return err
		}
	}
	return errConcurrentUpdate
}

func (s *MongoPostService) find(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.store.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("posts: find: %w", err)
	}
	return normalizePost(&post), nil
}

func parseIDs(postID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return pid, primitive.NilObjectID, err
	}
	uid, err := parseID(userID, ErrUserNotFound)
	return pid, uid, err
}
