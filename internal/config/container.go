package config

import (
	"shelfscope/internal/catalog"
	"shelfscope/internal/domain"
	"shelfscope/internal/relay"
	"shelfscope/internal/repository"
	"shelfscope/internal/service"
	"shelfscope/pkg/logger"
)

var _ domain.Config = (*AppConfig)(nil)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SupabaseClient    domain.SupabaseClient
	LibraryRepository domain.LibraryRepository

	// Relay backs the relay endpoints and every catalog request
	Relay *relay.Client

	AuthService      domain.AuthService
	LibraryService   domain.LibraryService
	BookService      domain.BookService
	AudiobookService domain.AudiobookService
}

// NewContainer creates a new dependency injection container
func NewContainer(config domain.Config) *Container {
	appLogger := logger.NewLogger(config.GetLogLevel())

	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	libraryRepo := repository.NewLibraryRepository(supabaseClient, appLogger)

	relayClient := relay.NewClient(
		relay.WithTimeout(config.GetRelayTimeout()),
		relay.WithAllowedHosts(config.GetRelayAllowedHosts()),
	)

	gutendex := catalog.NewGutendex(relayClient, config.GetGutendexURL())
	librivox := catalog.NewLibriVox(relayClient, config.GetLibriVoxURL())
	openLibrary := catalog.NewOpenLibrary(relayClient, config.GetOpenLibraryURL(), config.GetCoversURL())

	return &Container{
		Config:            config,
		Logger:            appLogger,
		SupabaseClient:    supabaseClient,
		LibraryRepository: libraryRepo,
		Relay:             relayClient,
		AuthService:       service.NewAuthService(supabaseClient, appLogger),
		LibraryService:    service.NewLibraryService(libraryRepo, appLogger),
		BookService: service.NewBookService(
			gutendex,
			relayClient,
			config.GetReaderPageSize(),
			config.GetDocumentCacheTTL(),
			appLogger,
		),
		AudiobookService: service.NewAudiobookService(librivox, openLibrary, appLogger),
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
