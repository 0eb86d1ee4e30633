package services

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
)

// Rules for post mutations. The memory store applies them directly under its
// lock; the Mongo store encodes them in conditional update filters and falls
// back to them to explain why a conditional update matched nothing.

func likeIndex(p *models.Post, userID primitive.ObjectID) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

func commentIndex(p *models.Post, commentID primitive.ObjectID) int {
	for i, c := range p.Comments {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

func checkLike(p *models.Post, userID primitive.ObjectID) error {
	if likeIndex(p, userID) >= 0 {
		return ErrAlreadyLiked
	}
	return nil
}

func checkUnlike(p *models.Post, userID primitive.ObjectID) error {
	if likeIndex(p, userID) < 0 {
		return ErrNotLiked
	}
	return nil
}

func checkDeletePost(p *models.Post, userID primitive.ObjectID) error {
	if p.User != userID {
		return ErrNotAuthorized
	}
	return nil
}

// checkDeleteComment targets the comment by its own id. Only its author may
// remove it.
func checkDeleteComment(p *models.Post, userID, commentID primitive.ObjectID) error {
	i := commentIndex(p, commentID)
	if i < 0 {
		return ErrCommentNotFound
	}
	if p.Comments[i].User != userID {
		return ErrNotAuthorized
	}
	return nil
}

func postText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", validationError("text", "Text is required")
	}
	return text, nil
}

func newPost(author *models.User, text string, now time.Time) *models.Post {
	return &models.Post{
		ID:       primitive.NewObjectID(),
		User:     author.ID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     now,
	}
}

// newComment captures the author's display fields as they are right now.
func newComment(author *models.User, text string, now time.Time) models.Comment {
	return models.Comment{
		ID:     primitive.NewObjectID(),
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   now,
	}
}

// normalizePost replaces nil collections so they encode as [] rather than null.
func normalizePost(p *models.Post) *models.Post {
	if p.Likes == nil {
		p.Likes = []models.Like{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]models.Like{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}
