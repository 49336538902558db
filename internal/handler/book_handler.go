package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shelfscope/internal/domain"

	"github.com/gorilla/mux"
)

// BookHandler serves the Gutenberg catalog and the paginated reader
type BookHandler struct {
	books  domain.BookService
	logger domain.Logger
}

func NewBookHandler(books domain.BookService, logger domain.Logger) *BookHandler {
	return &BookHandler{
		books:  books,
		logger: logger,
	}
}

// ListBooks lists by ?author=, searches by ?search= or browses by ?topic=.
// No query browses the default topic.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		page *domain.BookPage
		err  error
	)
	if author := strings.TrimSpace(query.Get("author")); author != "" {
		page, err = h.books.Author(r.Context(), author)
	} else if search := strings.TrimSpace(query.Get("search")); search != "" {
		page, err = h.books.Search(r.Context(), search)
	} else {
		page, err = h.books.Discover(r.Context(), query.Get("topic"))
	}
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load books")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *BookHandler) Popular(w http.ResponseWriter, r *http.Request) {
	page, err := h.books.Popular(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load books")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := mux.Vars(r)["id"]

	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load book", "book_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// GetPage returns one page of the book's text. Out of range pages are clamped.
func (h *BookHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookID := vars["id"]

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Page must be a number")
		return
	}

	view, err := h.books.ReadPage(r.Context(), bookID, page)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load book text", "book_id", bookID)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
