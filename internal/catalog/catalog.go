// Package catalog talks to the public book, audiobook and cover APIs.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shelfscope/internal/domain"
	"shelfscope/internal/relay"
)

// Default upstream base URLs
const (
	DefaultGutendexURL    = "https://gutendex.com"
	DefaultLibriVoxURL    = "https://librivox.org"
	DefaultOpenLibraryURL = "https://openlibrary.org"
	DefaultCoversURL      = "https://covers.openlibrary.org"
)

// wrapErr maps fetch errors onto domain errors. A 404 becomes notFound when
// one is given; cancellation is passed through untouched.
func wrapErr(source string, err error, notFound error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var upstreamErr *relay.UpstreamError
	if notFound != nil && errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", source, notFound)
	}

	return fmt.Errorf("%s: %w: %w", source, domain.ErrUpstream, err)
}

func isNotFound(err error) bool {
	var upstreamErr *relay.UpstreamError
	return errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound
}

func decode(source string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", source, domain.ErrUpstream, err)
	}
	return nil
}

func trimBase(base, fallback string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = fallback
	}
	return strings.TrimRight(base, "/")
}
