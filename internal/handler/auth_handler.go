package handler

import (
	"net/http"

	"shelfscope/internal/domain"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	library domain.LibraryService
	logger  domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(library domain.LibraryService, logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		library: library,
		logger:  logger,
	}
}

// StartSession makes sure the signed-in user has a library document and returns it
func (h *AuthHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}

	doc, err := h.library.EnsureUser(user, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to start session", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// GetProfile returns the current user's profile information
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName(),
		"photo_url":    user.PhotoURL(),
	})
}
