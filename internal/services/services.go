package services

import (
	"context"

	"github.com/devconnect/backend/internal/models"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProfileService interface {
	Upsert(ctx context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
}

type PostService interface {
	Create(ctx context.Context, userID, text string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) ([]models.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]models.Like, error)
	AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error)
}

type AccountService interface {
	// DeleteAccount removes the user's posts, profile and user record.
	DeleteAccount(ctx context.Context, userID string) error
}
