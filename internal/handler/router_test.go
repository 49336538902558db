package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shelfscope/internal/domain"
	"shelfscope/internal/relay"
)

type mockRelayFetcher struct {
	body     []byte
	lastURL  string
	lastKind relay.Kind
}

func (m *mockRelayFetcher) Fetch(ctx context.Context, target string, kind relay.Kind) ([]byte, error) {
	m.lastURL = target
	m.lastKind = kind
	return m.body, nil
}

type testServices struct {
	books      *mockBookService
	audiobooks *mockAudiobookService
	library    *mockLibraryService
	relay      *mockRelayFetcher
	limiter    *RateLimiter
}

func newTestRouter(s testServices) http.Handler {
	logger := NewMockHandlerLogger()
	authService := &mockAuthService{user: &domain.SupabaseUser{
		ID:           "user-1",
		Email:        "reader@example.com",
		UserMetadata: map[string]interface{}{"full_name": "Ada Reader"},
	}}

	if s.books == nil {
		s.books = &mockBookService{}
	}
	if s.audiobooks == nil {
		s.audiobooks = &mockAudiobookService{}
	}
	if s.library == nil {
		s.library = &mockLibraryService{}
	}
	if s.relay == nil {
		s.relay = &mockRelayFetcher{}
	}

	return NewRouter(Routes{
		Auth:           NewAuthHandler(s.library, logger),
		Books:          NewBookHandler(s.books, logger),
		Audiobooks:     NewAudiobookHandler(s.audiobooks, logger),
		Library:        NewLibraryHandler(s.library, s.books, s.audiobooks, logger),
		Relay:          s.relay,
		RelayLimiter:   s.limiter,
		AuthMiddleware: NewAuthMiddleware(authService, logger).Middleware,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})
}

// serve sends a request through the router, signed in when authed is set
func serve(router http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestNewRouter_Health(t *testing.T) {
	router := newTestRouter(testServices{})

	rr := serve(router, http.MethodGet, "/health", "", false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestNewRouter_RelayRoutes(t *testing.T) {
	fetcher := &mockRelayFetcher{body: []byte("It is a truth universally acknowledged")}
	router := newTestRouter(testServices{relay: fetcher})

	target := "https://www.gutenberg.org/files/1342/1342-0.txt"
	req := httptest.NewRequest(http.MethodGet, "/getBookText?url="+target, nil)
	req.Header.Set("Origin", "https://reader.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "It is a truth universally acknowledged" {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard CORS on relay routes")
	}
	if fetcher.lastURL != target || fetcher.lastKind != relay.KindText {
		t.Fatalf("expected text fetch of %s, got %s (%s)", target, fetcher.lastURL, fetcher.lastKind)
	}

	for _, path := range []string{"/getLibrivoxData", "/getOpenLibraryData"} {
		fetcher.body = []byte(`{"ok":true}`)
		rr := serve(router, http.MethodGet, path+"?url=https://librivox.org/api/feed/audiobooks", "", false)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusOK, rr.Code)
		}
		if fetcher.lastKind != relay.KindJSON {
			t.Fatalf("%s: expected JSON fetch", path)
		}
	}
}

func TestNewRouter_APIPreflight(t *testing.T) {
	router := newTestRouter(testServices{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/me/reading-list", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send the requested header names lowercased
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected configured origin, got %q", got)
	}
}

func TestNewRouter_RateLimitedRelayKeepsCORS(t *testing.T) {
	fetcher := &mockRelayFetcher{body: []byte("text")}
	router := newTestRouter(testServices{
		relay:   fetcher,
		limiter: NewRateLimiter(0.001, 1, NewMockHandlerLogger()),
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/getBookText?url=https://www.gutenberg.org/files/84/84-0.txt", nil)
		req.Header.Set("Origin", "https://reader.example.com")
		req.RemoteAddr = "192.0.2.10:5000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	if rr := send(); rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr := send()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS on the rate limited response, got %q", got)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestNewRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(testServices{})

	for _, path := range []string{"/api/v1/me/reading-list", "/api/v1/me/listen-list", "/api/v1/auth/profile"} {
		rr := serve(router, http.MethodGet, path, "", false)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusUnauthorized, rr.Code)
		}
	}
}

func TestNewRouter_PublicCatalogNeedsNoAuth(t *testing.T) {
	books := &mockBookService{page: &domain.BookPage{Count: 1}}
	router := newTestRouter(testServices{books: books})

	rr := serve(router, http.MethodGet, "/api/v1/books/popular", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if books.lastArg != "popular" {
		t.Fatalf("expected popular listing, got %q", books.lastArg)
	}
}
