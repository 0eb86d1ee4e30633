package services

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrProfileNotFound = errors.New("there is no profile for this user")

	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment doesn't exist")
	ErrNotAuthorized   = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post has been already liked")
	ErrNotLiked        = errors.New("post hasn't been liked yet")

	errConcurrentUpdate = errors.New("document changed during conditional update")
)

// ValidationErrors maps request fields to messages. It is returned by
// services when input fails the checks the operation itself owns.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationError(field, msg string) ValidationErrors {
	return ValidationErrors{field: msg}
}

// parseID converts a hex identifier, reporting notFound for anything that
// cannot name a stored document.
func parseID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}
