package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/backend/internal/events"
	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type PostHandler struct {
	posts     services.PostService
	publisher events.Publisher
	timeout   time.Duration
}

func NewPostHandler(posts services.PostService, publisher events.Publisher, timeout time.Duration) *PostHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PostHandler{
		posts:     posts,
		publisher: publisher,
		timeout:   timeout,
	}
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	post, err := h.posts.Create(ctx, userID, req.Text)
	if err != nil {
		writeServiceError(w, "CreatePost", userID, err)
		return
	}

	log.Printf("[CreatePost] user=%s post=%s", userID, post.ID.Hex())
	publish(h.publisher, events.New(events.PostCreated, post.ID.Hex(), userID))
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	posts, err := h.posts.List(ctx)
	if err != nil {
		writeServiceError(w, "ListPosts", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		writeServiceError(w, "GetPost", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	if err := h.posts.Delete(ctx, userID, postID); err != nil {
		writeServiceError(w, "DeletePost", userID, err)
		return
	}

	publish(h.publisher, events.New(events.PostDeleted, postID, userID))
	writeJSON(w, http.StatusOK, models.NewMessageResponse("Post has been successfully deleted"))
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	likes, err := h.posts.Like(ctx, userID, postID)
	if err != nil {
		writeServiceError(w, "LikePost", userID, err)
		return
	}

	publish(h.publisher, events.New(events.PostLiked, postID, userID))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(likes))
}

func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	likes, err := h.posts.Unlike(ctx, userID, postID)
	if err != nil {
		writeServiceError(w, "UnlikePost", userID, err)
		return
	}

	publish(h.publisher, events.New(events.PostUnliked, postID, userID))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(likes))
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	var req models.TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	comments, err := h.posts.AddComment(ctx, userID, postID, req.Text)
	if err != nil {
		writeServiceError(w, "AddComment", userID, err)
		return
	}

	e := events.New(events.PostCommented, postID, userID)
	if len(comments) > 0 {
		e.CommentID = comments[0].ID.Hex()
	}
	publish(h.publisher, e)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(comments))
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")
	commentID := chi.URLParam(r, "commentId")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	comments, err := h.posts.DeleteComment(ctx, userID, postID, commentID)
	if err != nil {
		writeServiceError(w, "DeleteComment", userID, err)
		return
	}

	e := events.New(events.PostCommentDeleted, postID, userID)
	e.CommentID = commentID
	publish(h.publisher, e)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(comments))
}
