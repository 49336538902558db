package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shelfscope/internal/domain"
	"shelfscope/internal/reader"

	"github.com/gorilla/mux"
)

// LibraryHandler serves the signed-in user's reading and listening lists
type LibraryHandler struct {
	library    domain.LibraryService
	books      domain.BookService
	audiobooks domain.AudiobookService
	logger     domain.Logger
}

func NewLibraryHandler(
	library domain.LibraryService,
	books domain.BookService,
	audiobooks domain.AudiobookService,
	logger domain.Logger,
) *LibraryHandler {
	return &LibraryHandler{
		library:    library,
		books:      books,
		audiobooks: audiobooks,
		logger:     logger,
	}
}

type addBookRequest struct {
	BookID json.Number `json:"book_id"`
}

type addAudiobookRequest struct {
	AudiobookID json.Number `json:"audiobook_id"`
}

type readingProgressRequest struct {
	Page *int `json:"page"`
}

// listenProgressRequest carries either current_time in seconds or a percent
// of the track's duration, as sent by a seek bar.
type listenProgressRequest struct {
	TrackIndex  *int     `json:"track_index"`
	CurrentTime *float64 `json:"current_time"`
	Percent     *float64 `json:"percent"`
	Duration    float64  `json:"duration"`
}

// position resolves the request to seconds into the track
func (req listenProgressRequest) position() (float64, error) {
	switch {
	case req.CurrentTime != nil:
		return *req.CurrentTime, nil
	case req.Percent != nil:
		if req.Duration <= 0 {
			return 0, &domain.ValidationError{Field: "duration", Message: "duration is required with percent"}
		}
		return reader.SeekTo(*req.Percent, req.Duration), nil
	default:
		return 0, nil
	}
}

func (h *LibraryHandler) GetReadingList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.library.GetReadingList(user.ID, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load reading list", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"books": entries,
		"count": len(entries),
	})
}

func (h *LibraryHandler) GetReadingEntry(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	entry, err := h.library.GetReadingEntry(user.ID, bookID, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load reading list entry", "user_id", user.ID, "book_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// AddToReadingList looks the book up and paginates its text so the entry
// records the real page count.
func (h *LibraryHandler) AddToReadingList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	bookID := strings.TrimSpace(req.BookID.String())
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "book_id is required")
		return
	}

	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load book", "book_id", bookID)
		return
	}

	doc, err := h.books.OpenBook(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load book text", "book_id", bookID)
		return
	}

	entry, err := h.library.AddToReadingList(user.ID, book, doc.TotalPages(), token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to add book", "user_id", user.ID, "book_id", bookID)
		return
	}

	h.logger.Info("Book added to reading list", "user_id", user.ID, "book_id", bookID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *LibraryHandler) RemoveFromReadingList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	if err := h.library.RemoveFromReadingList(user.ID, bookID, token); err != nil {
		writeServiceError(w, h.logger, err, "Failed to remove book", "user_id", user.ID, "book_id", bookID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveReadingProgress records the page the reader moved to. The stored
// watermark only moves forward.
func (h *LibraryHandler) SaveReadingProgress(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	var req readingProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Page == nil {
		writeError(w, http.StatusBadRequest, "page is required")
		return
	}

	// 0 keeps the stored total when the text can't be loaded right now
	totalPages := 0
	if doc, err := h.books.OpenBook(r.Context(), bookID); err != nil {
		h.logger.Warn("Could not refresh page count", "book_id", bookID, "error", err.Error())
	} else {
		totalPages = doc.TotalPages()
	}

	entry, err := h.library.SaveReadingProgress(user.ID, bookID, *req.Page, totalPages, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save progress", "user_id", user.ID, "book_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *LibraryHandler) GetListenList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.library.GetListenList(user.ID, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load listen list", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"books": entries,
		"count": len(entries),
	})
}

func (h *LibraryHandler) GetListenEntry(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	entry, err := h.library.GetListenEntry(user.ID, bookID, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load listen list entry", "user_id", user.ID, "audiobook_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *LibraryHandler) AddToListenList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addAudiobookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	bookID := strings.TrimSpace(req.AudiobookID.String())
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "audiobook_id is required")
		return
	}

	book, err := h.audiobooks.GetAudiobook(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load audiobook", "audiobook_id", bookID)
		return
	}

	entry, err := h.library.AddToListenList(user.ID, book, token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to add audiobook", "user_id", user.ID, "audiobook_id", bookID)
		return
	}

	h.logger.Info("Audiobook added to listen list", "user_id", user.ID, "audiobook_id", bookID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *LibraryHandler) RemoveFromListenList(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	if err := h.library.RemoveFromListenList(user.ID, bookID, token); err != nil {
		writeServiceError(w, h.logger, err, "Failed to remove audiobook", "user_id", user.ID, "audiobook_id", bookID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) SaveListenProgress(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := mux.Vars(r)["id"]

	var req listenProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackIndex == nil {
		writeError(w, http.StatusBadRequest, "track_index is required")
		return
	}
	position, err := req.position()
	if err != nil {
		writeServiceError(w, h.logger, err, "Invalid progress")
		return
	}

	entry, err := h.library.SaveListenProgress(user.ID, bookID, *req.TrackIndex, reader.Position(position), token)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save progress", "user_id", user.ID, "audiobook_id", bookID)
		return
	}
	if req.Duration > 0 {
		h.logger.Debug("Listen progress", "audiobook_id", bookID, "track", *req.TrackIndex,
			"percent", reader.PlaybackPercent(position, req.Duration))
	}

	writeJSON(w, http.StatusOK, entry)
}
