package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
		want map[string]string
	}{
		{
			name: "valid",
			req:  RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"},
			want: map[string]string{},
		},
		{
			name: "blank name",
			req:  RegisterRequest{Name: "  ", Email: "alice@example.com", Password: "secret1"},
			want: map[string]string{"name": "Name is required"},
		},
		{
			name: "bad email and short password",
			req:  RegisterRequest{Name: "Alice", Email: "alice", Password: "12345"},
			want: map[string]string{
				"email":    "Please include a valid email",
				"password": "Please enter a password with 6 or more characters",
			},
		},
		{
			name: "missing email",
			req:  RegisterRequest{Name: "Alice", Password: "secret1"},
			want: map[string]string{"email": "Email is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Validate())
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	assert.Empty(t, (&LoginRequest{Email: "a@b.co", Password: "x"}).Validate())
	assert.Equal(t, map[string]string{"password": "Password is required"},
		(&LoginRequest{Email: "a@b.co"}).Validate())
}

func TestTextRequestValidate(t *testing.T) {
	assert.Equal(t, "Text is required", (&TextRequest{Text: " \n"}).Validate()["text"])
	assert.Empty(t, (&TextRequest{Text: "hi"}).Validate())
}

func TestUserSummary(t *testing.T) {
	u := &User{Name: "Alice", Avatar: "//a", PasswordHash: "hash"}
	s := u.Summary()
	assert.Equal(t, "Alice", s.Name)
	assert.Equal(t, "//a", s.Avatar)
}
