package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shelfscope/internal/domain"

	"github.com/gorilla/mux"
)

const defaultRecentLimit = 10

// AudiobookHandler serves the LibriVox catalog
type AudiobookHandler struct {
	audiobooks domain.AudiobookService
	logger     domain.Logger
}

func NewAudiobookHandler(audiobooks domain.AudiobookService, logger domain.Logger) *AudiobookHandler {
	return &AudiobookHandler{
		audiobooks: audiobooks,
		logger:     logger,
	}
}

// ListAudiobooks searches by ?title= or browses by ?genre=, falling back to recent releases
func (h *AudiobookHandler) ListAudiobooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		books []domain.Audiobook
		err   error
	)
	switch {
	case strings.TrimSpace(query.Get("title")) != "":
		books, err = h.audiobooks.Search(r.Context(), query.Get("title"))
	case strings.TrimSpace(query.Get("genre")) != "":
		books, err = h.audiobooks.Discover(r.Context(), query.Get("genre"))
	default:
		books, err = h.audiobooks.Recent(r.Context(), defaultRecentLimit)
	}
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load audiobooks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"books": books,
		"count": len(books),
	})
}

func (h *AudiobookHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a positive number")
			return
		}
		limit = n
	}

	books, err := h.audiobooks.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load audiobooks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"books": books,
		"count": len(books),
	})
}

func (h *AudiobookHandler) GetAudiobook(w http.ResponseWriter, r *http.Request) {
	bookID := mux.Vars(r)["id"]

	book, err := h.audiobooks.GetAudiobook(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load audiobook", "audiobook_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, book)
}
