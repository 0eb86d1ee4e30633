package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnect/backend/internal/models"
)

type MongoUserService struct {
	store *Store
}

func NewMongoUserService(store *Store) *MongoUserService {
	return &MongoUserService{store: store}
}

func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := newUser(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.store.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("users: insert: %w", err)
	}
	return user, nil
}

func (s *MongoUserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *MongoUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (s *MongoUserService) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.store.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: find: %w", err)
	}
	return &user, nil
}

func newUser(req *models.RegisterRequest, now time.Time) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	return &models.User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Avatar:       gravatarURL(email),
		PasswordHash: string(hashedPassword),
		Date:         now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL follows gravatar's addressing scheme: md5 of the trimmed,
// lower-cased email, 200px, PG rated, mystery-person fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
