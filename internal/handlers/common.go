package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/devconnect/backend/internal/events"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return false
	}
	return true
}

// storeContext bounds a store call by timeout but detaches it from client
// cancellation, so a write that has started completes even if the caller
// disconnects.
func storeContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
}

type errorMapping struct {
	err     error
	status  int
	message string
}

var serviceErrors = []errorMapping{
	{services.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{services.ErrCommentNotFound, http.StatusNotFound, "Comment doesn't exist"},
	{services.ErrProfileNotFound, http.StatusNotFound, "There is no profile for this user"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrNotAuthorized, http.StatusUnauthorized, "User not authorized"},
	{services.ErrAlreadyLiked, http.StatusBadRequest, "Post has been already liked"},
	{services.ErrNotLiked, http.StatusBadRequest, "Post hasn't been liked yet"},
	{services.ErrEmailExists, http.StatusBadRequest, "User already exists"},
	{services.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
}

// writeServiceError translates a service error into its HTTP response.
// Anything unrecognized is logged and reported as an opaque 500.
func writeServiceError(w http.ResponseWriter, tag, userID string, err error) {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(verrs))
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, models.NewErrorResponse(m.message))
			return
		}
	}

	log.Printf("[%s] user=%s error=%v", tag, userID, err)
	writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
}

// publish emits an event without failing the request it follows.
func publish(publisher events.Publisher, e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, e); err != nil {
		log.Printf("[events] type=%s post=%s error=%v", e.Type, e.PostID, err)
	}
}
