package middleware

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/devconnect/backend/internal/models"
)

type FirebaseAuthConfig struct {
	ProjectID       string
	CredentialsJSON string
}

// EmailLookup finds the local account behind an external identity.
type EmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// FirebaseVerifier accepts Firebase ID tokens and maps the token's verified
// email to a registered local user.
type FirebaseVerifier struct {
	client *fbauth.Client
	users  EmailLookup
}

// NewFirebaseVerifier builds the Firebase Auth client. ctx must live as long as
// the verifier, since the client keeps it for fetching signing keys.
func NewFirebaseVerifier(ctx context.Context, cfg FirebaseAuthConfig, users EmailLookup) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, users: users}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return "", ErrInvalidToken
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidToken
	}
	return user.ID.Hex(), nil
}
