package handlers

import (
	"net/http"
	"time"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type AuthHandler struct {
	users   services.UserService
	tokens  *middleware.JWTVerifier
	timeout time.Duration
}

func NewAuthHandler(users services.UserService, tokens *middleware.JWTVerifier, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		timeout: timeout,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	user, err := h.users.Register(ctx, &req)
	if err != nil {
		writeServiceError(w, "Register", "", err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	user, err := h.users.Authenticate(ctx, &req)
	if err != nil {
		writeServiceError(w, "Login", "", err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Me returns the authenticated user. The password hash is never serialized.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeServiceError(w, "Me", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		writeServiceError(w, "IssueToken", user.ID.Hex(), err)
		return
	}
	writeJSON(w, status, models.NewSuccessResponse(models.AuthResponse{Token: token}))
}
