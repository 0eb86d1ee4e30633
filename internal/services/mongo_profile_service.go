package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

type MongoProfileService struct {
	store *Store
}

func NewMongoProfileService(store *Store) *MongoProfileService {
	return &MongoProfileService{store: store}
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := parseID(userID, ErrProfileNotFound)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.store.profiles.FindOne(ctx, bson.M{"user": oid}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profiles: find: %w", err)
	}
	if err := s.populate(ctx, []*models.Profile{&prof}); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	cur, err := s.store.profiles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("profiles: list: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*models.Profile, 0)
	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, fmt.Errorf("profiles: decode: %w", err)
		}
		out = append(out, &prof)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("profiles: cursor: %w", err)
	}

	if err := s.populate(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert sets each supplied field individually on an existing profile, or
// inserts a profile holding exactly the supplied fields.
func (s *MongoProfileService) Upsert(ctx context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error) {
	if errs := fields.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	prof, err := s.update(ctx, oid, fields)
	if err != ErrProfileNotFound {
		return s.finish(ctx, prof, err)
	}

	if errs := fields.ValidateCreate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	prof = &models.Profile{
		ID:     primitive.NewObjectID(),
		UserID: oid,
		Skills: []string{},
		Date:   time.Now().UTC(),
	}
	fields.Merge(prof)

	if _, err := s.store.profiles.InsertOne(ctx, prof); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent request created it first; apply ours on top.
			prof, err = s.updateOrErr(ctx, oid, fields)
			return s.finish(ctx, prof, err)
		}
		return nil, fmt.Errorf("profiles: insert: %w", err)
	}
	return s.finish(ctx, prof, nil)
}

func (s *MongoProfileService) update(ctx context.Context, userID primitive.ObjectID, fields *models.ProfileFields) (*models.Profile, error) {
	res := s.store.profiles.FindOneAndUpdate(
		ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M(fields.Updates())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profiles: update: %w", err)
	}
	return &prof, nil
}

func (s *MongoProfileService) updateOrErr(ctx context.Context, userID primitive.ObjectID, fields *models.ProfileFields) (*models.Profile, error) {
	prof, err := s.update(ctx, userID, fields)
	if err == ErrProfileNotFound {
		return nil, errConcurrentUpdate
	}
	return prof, err
}

func (s *MongoProfileService) finish(ctx context.Context, prof *models.Profile, err error) (*models.Profile, error) {
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, []*models.Profile{prof}); err != nil {
		return nil, err
	}
	return prof, nil
}

// populate embeds each owner's current name and avatar.
func (s *MongoProfileService) populate(ctx context.Context, profiles []*models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	cur, err := s.store.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{
		"name":   1,
		"avatar": 1,
	}))
	if err != nil {
		return fmt.Errorf("profiles: populate users: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]*models.UserSummary)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return fmt.Errorf("profiles: decode user: %w", err)
		}
		byID[u.ID] = u.Summary()
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("profiles: populate cursor: %w", err)
	}

	for _, p := range profiles {
		if p.Skills == nil {
			p.Skills = []string{}
		}
		if u, ok := byID[p.UserID]; ok {
			p.User = u
		} else {
			p.User = &models.UserSummary{ID: p.UserID}
		}
	}
	return nil
}
