package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

type MongoAccountService struct {
	store *Store
}

func NewMongoAccountService(store *Store) *MongoAccountService {
	return &MongoAccountService{store: store}
}

// DeleteAccount deletes all data owned by the user:
// - posts authored by the user
// - profile doc
// - user doc
// Likes and comments the user left on other posts are kept, as are the
// denormalized names on them.
func (s *MongoAccountService) DeleteAccount(ctx context.Context, userID string) error {
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return err
	}

	// Order matters a bit: the user doc goes last so a partial failure can be retried.
	if _, err := s.store.posts.DeleteMany(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("account: delete posts: %w", err)
	}
	if _, err := s.store.profiles.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("account: delete profile: %w", err)
	}
	if _, err := s.store.users.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("account: delete user: %w", err)
	}
	return nil
}
