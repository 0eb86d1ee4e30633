package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
	timeout  time.Duration
}

func NewProfileHandler(profiles services.ProfileService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, timeout: timeout}
}

// GetMyProfile returns the caller's profile with their name and avatar embedded.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		writeServiceError(w, "GetMyProfile", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// UpsertProfile creates the caller's profile or updates the supplied fields.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.ProfileFields
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		writeServiceError(w, "UpsertProfile", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	profiles, err := h.profiles.List(ctx)
	if err != nil {
		writeServiceError(w, "ListProfiles", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

func (h *ProfileHandler) GetProfileByUserID(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		writeServiceError(w, "GetProfileByUserID", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}
