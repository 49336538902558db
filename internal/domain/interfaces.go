package domain

import (
	"context"
	"time"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetRelayTimeout() time.Duration
	GetRelayAllowedHosts() []string
	GetRelayRateLimit() float64
	GetRelayRateBurst() int
	GetRelayTrustProxyHeaders() bool
	GetCORSAllowedOrigins() []string
	GetReaderPageSize() int
	GetDocumentCacheTTL() time.Duration
	GetGutendexURL() string
	GetLibriVoxURL() string
	GetOpenLibraryURL() string
	GetCoversURL() string
}

// Fetcher performs a single outbound GET and returns the response body.
// JSON bodies are validated before being returned.
type Fetcher interface {
	FetchText(ctx context.Context, target string) ([]byte, error)
	FetchJSON(ctx context.Context, target string) ([]byte, error)
}
