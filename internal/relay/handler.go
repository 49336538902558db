package relay

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shelfscope/internal/domain"

	"github.com/rs/cors"
)

// Target describes one relay endpoint
type Target struct {
	Name           string
	Kind           Kind
	MissingMessage string
	FailureMessage string
	ErrorMessage   string
}

var (
	BookText = Target{
		Name:           "getBookText",
		Kind:           KindText,
		MissingMessage: "No URL provided.",
		FailureMessage: "Failed to fetch book content.",
		ErrorMessage:   "An error occurred while fetching the book text.",
	}
	LibriVoxData = Target{
		Name:           "getLibrivoxData",
		Kind:           KindJSON,
		MissingMessage: "No LibriVox API URL provided.",
		FailureMessage: "Failed to fetch from LibriVox API.",
		ErrorMessage:   "An error occurred while fetching from LibriVox.",
	}
	OpenLibraryData = Target{
		Name:           "getOpenLibraryData",
		Kind:           KindJSON,
		MissingMessage: "No Open Library API URL provided.",
		FailureMessage: "Failed to fetch from Open Library API.",
		ErrorMessage:   "An error occurred while fetching from Open Library.",
	}
)

// Targets lists every relay endpoint
func Targets() []Target {
	return []Target{BookText, LibriVoxData, OpenLibraryData}
}

// Fetcher is the outbound side of a relay endpoint
type Fetcher interface {
	Fetch(ctx context.Context, rawTarget string, kind Kind) ([]byte, error)
}

type handler struct {
	fetcher Fetcher
	target  Target
	logger  domain.Logger
}

// NewHandler serves one relay endpoint. Every response, including errors and
// pre-flight requests, may be read from any origin. Middleware runs inside
// the CORS layer, so its rejections are readable too.
func NewHandler(fetcher Fetcher, target Target, logger domain.Logger, middleware ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = &handler{fetcher: fetcher, target: target, logger: logger}
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return CORS(h)
}

// CORS allows any origin to read the wrapped handler's responses
func CORS(h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-Request-ID"},
	}).Handler(h)
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("Relay handler panicked", nil, "target", h.target.Name, "panic", rec)
			writeText(w, http.StatusInternalServerError, h.target.ErrorMessage)
		}
	}()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	// Query() is the one and only decode of the target
	rawTarget := r.URL.Query().Get("url")

	body, err := h.fetcher.Fetch(r.Context(), rawTarget, h.target.Kind)
	if err != nil {
		h.writeFetchError(w, rawTarget, err)
		return
	}

	h.logger.Debug("Relayed upstream response", "target", h.target.Name, "bytes", len(body))

	if h.target.Kind == KindJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (h *handler) writeFetchError(w http.ResponseWriter, rawTarget string, err error) {
	var upstreamErr *UpstreamError
	switch {
	case errors.Is(err, ErrMissingURL):
		writeText(w, http.StatusBadRequest, h.target.MissingMessage)
	case errors.Is(err, ErrInvalidURL):
		h.logger.Warn("Rejected relay target", "target", h.target.Name, "url", rawTarget)
		writeText(w, http.StatusBadRequest, "Invalid URL provided.")
	case errors.Is(err, ErrHostNotAllowed):
		h.logger.Warn("Relay host not allowed", "target", h.target.Name, "url", rawTarget)
		writeText(w, http.StatusForbidden, "Upstream host not allowed.")
	case errors.As(err, &upstreamErr):
		h.logger.Warn("Upstream returned an error", "target", h.target.Name, "status", upstreamErr.StatusCode)
		writeText(w, upstreamErr.StatusCode, h.target.FailureMessage)
	default:
		h.logger.Error("Relay request failed", err, "target", h.target.Name)
		writeText(w, http.StatusInternalServerError, h.target.ErrorMessage)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
