package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shelfscope/internal/domain"
)

// PlaceholderCover is shown when no cover can be found
const PlaceholderCover = "/image-placeholder.jpg"

// CoverSize selects the cover image size
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// OpenLibrary looks up cover images by title
type OpenLibrary struct {
	fetcher   domain.Fetcher
	baseURL   string
	coversURL string
}

type openLibrarySearch struct {
	Docs []struct {
		CoverID int `json:"cover_i"`
	} `json:"docs"`
}

// NewOpenLibrary creates an Open Library client. Empty URLs use the public APIs.
func NewOpenLibrary(fetcher domain.Fetcher, baseURL, coversURL string) *OpenLibrary {
	return &OpenLibrary{
		fetcher:   fetcher,
		baseURL:   trimBase(baseURL, DefaultOpenLibraryURL),
		coversURL: trimBase(coversURL, DefaultCoversURL),
	}
}

// CoverURL returns the cover image of the first search hit for title.
// When nothing is found the placeholder is returned without an error; on
// failure the placeholder is returned along with the error.
func (o *OpenLibrary) CoverURL(ctx context.Context, title string, size CoverSize) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return PlaceholderCover, nil
	}
	if size == "" {
		size = CoverLarge
	}

	body, err := o.fetcher.FetchJSON(ctx, o.baseURL+"/search.json?"+url.Values{"q": {title}}.Encode())
	if err != nil {
		if isNotFound(err) {
			return PlaceholderCover, nil
		}
		return PlaceholderCover, wrapErr("openlibrary", err, nil)
	}

	var result openLibrarySearch
	if err := decode("openlibrary", body, &result); err != nil {
		return PlaceholderCover, err
	}
	if len(result.Docs) == 0 || result.Docs[0].CoverID == 0 {
		return PlaceholderCover, nil
	}

	return fmt.Sprintf("%s/b/id/%d-%s.jpg", o.coversURL, result.Docs[0].CoverID, size), nil
}
