package handler

import (
	"net/http"

	"shelfscope/internal/domain"
	"shelfscope/internal/relay"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const serviceName = "shelfscope"

// Routes groups what NewRouter wires together
type Routes struct {
	Auth       *AuthHandler
	Books      *BookHandler
	Audiobooks *AudiobookHandler
	Library    *LibraryHandler

	// Relay serves /getBookText, /getLibrivoxData and /getOpenLibraryData
	Relay relay.Fetcher
	// RelayLimiter is optional
	RelayLimiter *RateLimiter

	AuthMiddleware func(http.Handler) http.Handler
	AllowedOrigins []string
	// Logger is required
	Logger domain.Logger
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(routes Routes) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	}).Methods(http.MethodGet)

	// Relay routes carry their own wildcard CORS and answer OPTIONS themselves
	if routes.Relay != nil {
		for _, target := range relay.Targets() {
			h := relay.NewHandler(routes.Relay, target, routes.Logger, routes.RelayLimiter.Middleware)
			router.Handle("/"+target.Name, h)
		}
	}

	// The API router sits behind its own CORS policy so preflights are
	// answered before method matching.
	apiRouter := mux.NewRouter()
	api := apiRouter.PathPrefix("/api/v1").Subrouter()

	if routes.Books != nil {
		api.HandleFunc("/books", routes.Books.ListBooks).Methods(http.MethodGet)
		api.HandleFunc("/books/popular", routes.Books.Popular).Methods(http.MethodGet)
		api.HandleFunc("/books/{id}", routes.Books.GetBook).Methods(http.MethodGet)
		api.HandleFunc("/books/{id}/pages/{page}", routes.Books.GetPage).Methods(http.MethodGet)
	}
	if routes.Audiobooks != nil {
		api.HandleFunc("/audiobooks", routes.Audiobooks.ListAudiobooks).Methods(http.MethodGet)
		api.HandleFunc("/audiobooks/recent", routes.Audiobooks.Recent).Methods(http.MethodGet)
		api.HandleFunc("/audiobooks/{id}", routes.Audiobooks.GetAudiobook).Methods(http.MethodGet)
	}

	protected := api.PathPrefix("").Subrouter()
	if routes.AuthMiddleware != nil {
		protected.Use(routes.AuthMiddleware)
	}

	if routes.Auth != nil {
		protected.HandleFunc("/auth/session", routes.Auth.StartSession).Methods(http.MethodPost)
		protected.HandleFunc("/auth/profile", routes.Auth.GetProfile).Methods(http.MethodGet)
	}
	if routes.Library != nil {
		protected.HandleFunc("/me/reading-list", routes.Library.GetReadingList).Methods(http.MethodGet)
		protected.HandleFunc("/me/reading-list", routes.Library.AddToReadingList).Methods(http.MethodPost)
		protected.HandleFunc("/me/reading-list/{id}", routes.Library.GetReadingEntry).Methods(http.MethodGet)
		protected.HandleFunc("/me/reading-list/{id}", routes.Library.RemoveFromReadingList).Methods(http.MethodDelete)
		protected.HandleFunc("/me/reading-list/{id}/progress", routes.Library.SaveReadingProgress).Methods(http.MethodPut)

		protected.HandleFunc("/me/listen-list", routes.Library.GetListenList).Methods(http.MethodGet)
		protected.HandleFunc("/me/listen-list", routes.Library.AddToListenList).Methods(http.MethodPost)
		protected.HandleFunc("/me/listen-list/{id}", routes.Library.GetListenEntry).Methods(http.MethodGet)
		protected.HandleFunc("/me/listen-list/{id}", routes.Library.RemoveFromListenList).Methods(http.MethodDelete)
		protected.HandleFunc("/me/listen-list/{id}/progress", routes.Library.SaveListenProgress).Methods(http.MethodPut)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: routes.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
	router.PathPrefix("/api/v1").Handler(c.Handler(apiRouter))

	return RequestLogger(routes.Logger)(router)
}
