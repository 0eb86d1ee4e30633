package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post carries a snapshot of its author's name and avatar taken at creation
// time. Later profile edits are not propagated.
type Post struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Text     string             `json:"text" bson:"text"`
	Name     string             `json:"name" bson:"name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	Likes    []Like             `json:"likes" bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date" bson:"date"`
}

// Like holds at most one entry per user within a post.
type Like struct {
	User primitive.ObjectID `json:"user" bson:"user"`
}

type Comment struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Text   string             `json:"text" bson:"text"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
	Date   time.Time          `json:"date" bson:"date"`
}

type TextRequest struct {
	Text string `json:"text" validate:"notblank"`
}

func (r *TextRequest) Validate() map[string]string {
	return validateStruct(r, map[string]string{
		"text": "Text is required",
	})
}
