package handlers

import (
	"net/http"
	"time"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type AccountHandler struct {
	accounts services.AccountService
	timeout  time.Duration
}

func NewAccountHandler(accounts services.AccountService, timeout time.Duration) *AccountHandler {
	return &AccountHandler{accounts: accounts, timeout: timeout}
}

// DeleteAccount deletes the caller's posts, profile and user record.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := storeContext(r, h.timeout)
	defer cancel()

	if err := h.accounts.DeleteAccount(ctx, userID); err != nil {
		writeServiceError(w, "DeleteAccount", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("User deleted"))
}
