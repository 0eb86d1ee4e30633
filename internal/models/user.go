package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Avatar       string             `json:"avatar" bson:"avatar"`
	PasswordHash string             `json:"-" bson:"password"`
	Date         time.Time          `json:"date" bson:"date"`
}

// UserSummary is the denormalized slice of a user embedded in profile reads.
type UserSummary struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func (r *RegisterRequest) Validate() map[string]string {
	return validateStruct(r, map[string]string{
		"name":           "Name is required",
		"email.required": "Email is required",
		"email.email":    "Please include a valid email",
		"password":       "Please enter a password with 6 or more characters",
	})
}

func (r *LoginRequest) Validate() map[string]string {
	return validateStruct(r, map[string]string{
		"email.required": "Email is required",
		"email.email":    "Please include a valid email",
		"password":       "Password is required",
	})
}
