package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"shelfscope/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// DefaultRecentLimit is how many recent audiobooks are listed by default
const DefaultRecentLimit = 10

// LibriVox is a client for the LibriVox audiobook feed API
type LibriVox struct {
	fetcher domain.Fetcher
	baseURL string
}

type librivoxResponse struct {
	Books []domain.Audiobook `json:"books"`
}

// NewLibriVox creates a LibriVox client. An empty baseURL uses the public API.
func NewLibriVox(fetcher domain.Fetcher, baseURL string) *LibriVox {
	return &LibriVox{fetcher: fetcher, baseURL: trimBase(baseURL, DefaultLibriVoxURL)}
}

// GetAudiobook fetches one audiobook with its sections
func (l *LibriVox) GetAudiobook(ctx context.Context, id string) (*domain.Audiobook, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, &domain.ValidationError{Field: "id", Message: "audiobook ID must be numeric"}
	}

	books, err := l.feed(ctx, url.Values{"id": {id}, "extended": {"1"}})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.ErrAudiobookNotFound
	}

	book := books[0]
	return &book, nil
}

// SearchTitle finds audiobooks by title
func (l *LibriVox) SearchTitle(ctx context.Context, title string) ([]domain.Audiobook, error) {
	return l.feed(ctx, url.Values{"title": {strings.TrimSpace(title)}})
}

// ByGenre lists audiobooks in a genre
func (l *LibriVox) ByGenre(ctx context.Context, genre string) ([]domain.Audiobook, error) {
	return l.feed(ctx, url.Values{"genre": {strings.TrimSpace(genre)}})
}

// Recent lists the most recently catalogued audiobooks
func (l *LibriVox) Recent(ctx context.Context, limit int) ([]domain.Audiobook, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return l.feed(ctx, url.Values{"sort_order": {"catalog_date_desc"}, "limit": {strconv.Itoa(limit)}})
}

// feed queries the audiobooks feed. LibriVox answers 404 when nothing
// matches, which is an empty result rather than a failure.
func (l *LibriVox) feed(ctx context.Context, params url.Values) ([]domain.Audiobook, error) {
	params.Set("format", "json")

	body, err := l.fetcher.FetchJSON(ctx, l.baseURL+"/api/feed/audiobooks/?"+params.Encode())
	if err != nil {
		if isNotFound(err) {
			return []domain.Audiobook{}, nil
		}
		return nil, wrapErr("librivox", err, nil)
	}

	var resp librivoxResponse
	if err := decode("librivox", body, &resp); err != nil {
		return nil, err
	}

	books := resp.Books
	if books == nil {
		books = []domain.Audiobook{}
	}
	for i := range books {
		books[i].DescriptionText = DescriptionText(books[i].Description)
	}
	return books, nil
}

// DescriptionText strips the HTML from a LibriVox description
func DescriptionText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
