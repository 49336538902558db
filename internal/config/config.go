package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shelfscope/internal/catalog"
	"shelfscope/internal/reader"
	"shelfscope/internal/relay"

	"github.com/BurntSushi/toml"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort  string
	LogLevel    string
	SupabaseURL string
	SupabaseKey string

	RelayTimeout      time.Duration
	RelayAllowedHosts []string
	RelayRateLimit    float64
	RelayRateBurst    int
	// RelayTrustProxyHeaders keys the rate limit on X-Forwarded-For.
	// Only safe behind a proxy that overwrites it.
	RelayTrustProxyHeaders bool

	CORSAllowedOrigins []string

	ReaderPageSize   int
	DocumentCacheTTL time.Duration

	GutendexURL    string
	LibriVoxURL    string
	OpenLibraryURL string
	CoversURL      string
}

var defaultCORSOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://localhost:4173", // Vite preview
	"http://localhost:3000", // Alternative dev port
}

// NewConfig reads the configuration from the environment, falling back to defaults
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL: getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),

		RelayTimeout:      getEnvDurationOrDefault("RELAY_TIMEOUT", relay.DefaultTimeout),
		RelayAllowedHosts: getEnvListOrDefault("RELAY_ALLOWED_HOSTS", nil),
		RelayRateLimit:    getEnvFloatOrDefault("RELAY_RATE_LIMIT", 0),
		RelayRateBurst:    getEnvIntOrDefault("RELAY_RATE_BURST", 20),

		RelayTrustProxyHeaders: getEnvBoolOrDefault("RELAY_TRUST_PROXY_HEADERS", false),

		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),

		ReaderPageSize:   getEnvIntOrDefault("READER_PAGE_SIZE", reader.DefaultPageSize),
		DocumentCacheTTL: getEnvDurationOrDefault("DOCUMENT_CACHE_TTL", 30*time.Minute),

		GutendexURL:    getEnvOrDefault("GUTENDEX_URL", catalog.DefaultGutendexURL),
		LibriVoxURL:    getEnvOrDefault("LIBRIVOX_URL", catalog.DefaultLibriVoxURL),
		OpenLibraryURL: getEnvOrDefault("OPENLIBRARY_URL", catalog.DefaultOpenLibraryURL),
		CoversURL:      getEnvOrDefault("COVERS_URL", catalog.DefaultCoversURL),
	}
}

// Load reads the environment, overlays the TOML file at path (or CONFIG_FILE
// when path is empty) and validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := NewConfig()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.ServerPort == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.ReaderPageSize <= 0 {
		errs = append(errs, fmt.Errorf("reader page size must be positive, got %d", c.ReaderPageSize))
	}
	if c.RelayTimeout <= 0 {
		errs = append(errs, fmt.Errorf("relay timeout must be positive, got %s", c.RelayTimeout))
	}
	if c.DocumentCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("document cache TTL must be positive, got %s", c.DocumentCacheTTL))
	}
	if c.RelayRateLimit < 0 {
		errs = append(errs, fmt.Errorf("relay rate limit must not be negative, got %v", c.RelayRateLimit))
	}
	return errors.Join(errs...)
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

func (c *AppConfig) GetRelayTimeout() time.Duration {
	return c.RelayTimeout
}

// GetRelayAllowedHosts returns the upstream hosts the relay may contact. Empty allows any host.
func (c *AppConfig) GetRelayAllowedHosts() []string {
	return c.RelayAllowedHosts
}

// GetRelayRateLimit returns requests per second per client; 0 disables limiting
func (c *AppConfig) GetRelayRateLimit() float64 {
	return c.RelayRateLimit
}

func (c *AppConfig) GetRelayRateBurst() int {
	return c.RelayRateBurst
}

func (c *AppConfig) GetRelayTrustProxyHeaders() bool {
	return c.RelayTrustProxyHeaders
}

func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

func (c *AppConfig) GetReaderPageSize() int {
	return c.ReaderPageSize
}

func (c *AppConfig) GetDocumentCacheTTL() time.Duration {
	return c.DocumentCacheTTL
}

func (c *AppConfig) GetGutendexURL() string {
	return c.GutendexURL
}

func (c *AppConfig) GetLibriVoxURL() string {
	return c.LibriVoxURL
}

func (c *AppConfig) GetOpenLibraryURL() string {
	return c.OpenLibraryURL
}

func (c *AppConfig) GetCoversURL() string {
	return c.CoversURL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return splitList(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// file mirrors the TOML config file layout
type file struct {
	Server struct {
		Port     string `toml:"port"`
		LogLevel string `toml:"log_level"`
	} `toml:"server"`
	Supabase struct {
		URL     string `toml:"url"`
		AnonKey string `toml:"anon_key"`
	} `toml:"supabase"`
	Relay struct {
		Timeout      duration `toml:"timeout"`
		AllowedHosts []string `toml:"allowed_hosts"`
		RateLimit    float64  `toml:"rate_limit"`
		RateBurst    int      `toml:"rate_burst"`
		TrustProxy   bool     `toml:"trust_proxy_headers"`
	} `toml:"relay"`
	CORS struct {
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"cors"`
	Reader struct {
		PageSize         int      `toml:"page_size"`
		DocumentCacheTTL duration `toml:"document_cache_ttl"`
	} `toml:"reader"`
	Upstreams struct {
		Gutendex    string `toml:"gutendex"`
		LibriVox    string `toml:"librivox"`
		OpenLibrary string `toml:"openlibrary"`
		Covers      string `toml:"covers"`
	} `toml:"upstreams"`
}

// duration decodes TOML strings such as "30s"
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// LoadFile overlays the keys present in a TOML file onto c. Keys absent from
// the file keep their current values.
func (c *AppConfig) LoadFile(path string) error {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	set := func(keys ...string) bool { return md.IsDefined(keys...) }

	if set("server", "port") {
		c.ServerPort = f.Server.Port
	}
	if set("server", "log_level") {
		c.LogLevel = f.Server.LogLevel
	}
	if set("supabase", "url") {
		c.SupabaseURL = f.Supabase.URL
	}
	if set("supabase", "anon_key") {
		c.SupabaseKey = f.Supabase.AnonKey
	}
	if set("relay", "timeout") {
		c.RelayTimeout = f.Relay.Timeout.Duration
	}
	if set("relay", "allowed_hosts") {
		c.RelayAllowedHosts = f.Relay.AllowedHosts
	}
	if set("relay", "rate_limit") {
		c.RelayRateLimit = f.Relay.RateLimit
	}
	if set("relay", "rate_burst") {
		c.RelayRateBurst = f.Relay.RateBurst
	}
	if set("relay", "trust_proxy_headers") {
		c.RelayTrustProxyHeaders = f.Relay.TrustProxy
	}
	if set("cors", "allowed_origins") {
		c.CORSAllowedOrigins = f.CORS.AllowedOrigins
	}
	if set("reader", "page_size") {
		c.ReaderPageSize = f.Reader.PageSize
	}
	if set("reader", "document_cache_ttl") {
		c.DocumentCacheTTL = f.Reader.DocumentCacheTTL.Duration
	}
	if set("upstreams", "gutendex") {
		c.GutendexURL = f.Upstreams.Gutendex
	}
	if set("upstreams", "librivox") {
		c.LibriVoxURL = f.Upstreams.LibriVox
	}
	if set("upstreams", "openlibrary") {
		c.OpenLibraryURL = f.Upstreams.OpenLibrary
	}
	if set("upstreams", "covers") {
		c.CoversURL = f.Upstreams.Covers
	}
	return nil
}
