package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"shelfscope/internal/domain"
)

// DefaultTopic is used when no topic is given
const DefaultTopic = "popular"

// Gutendex is a client for the Gutendex Project Gutenberg API
type Gutendex struct {
	fetcher domain.Fetcher
	baseURL string
}

// NewGutendex creates a Gutendex client. An empty baseURL uses the public API.
func NewGutendex(fetcher domain.Fetcher, baseURL string) *Gutendex {
	return &Gutendex{fetcher: fetcher, baseURL: trimBase(baseURL, DefaultGutendexURL)}
}

// GetBook fetches a single book's metadata
func (g *Gutendex) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, &domain.ValidationError{Field: "id", Message: "book ID must be numeric"}
	}

	body, err := g.fetcher.FetchJSON(ctx, g.baseURL+"/books/"+id+"/")
	if err != nil {
		return nil, wrapErr("gutendex", err, domain.ErrBookNotFound)
	}

	var book domain.Book
	if err := decode("gutendex", body, &book); err != nil {
		return nil, err
	}
	if book.ID == 0 {
		return nil, domain.ErrBookNotFound
	}
	return &book, nil
}

// Search runs a full-text search over titles and authors
func (g *Gutendex) Search(ctx context.Context, query string) (*domain.BookPage, error) {
	return g.list(ctx, url.Values{"search": {strings.TrimSpace(query)}})
}

// Topic lists books whose subjects or bookshelves match topic
func (g *Gutendex) Topic(ctx context.Context, topic string) (*domain.BookPage, error) {
	return g.list(ctx, url.Values{"topic": {NormalizeTopic(topic)}})
}

// Popular lists books by download count
func (g *Gutendex) Popular(ctx context.Context) (*domain.BookPage, error) {
	return g.list(ctx, url.Values{"sort": {"popular"}})
}

// AuthorBooks lists books matching an author name. Gutendex search covers
// author names as well as titles.
func (g *Gutendex) AuthorBooks(ctx context.Context, author string) (*domain.BookPage, error) {
	return g.list(ctx, url.Values{"search": {strings.TrimSpace(author)}})
}

func (g *Gutendex) list(ctx context.Context, params url.Values) (*domain.BookPage, error) {
	body, err := g.fetcher.FetchJSON(ctx, g.baseURL+"/books/?"+params.Encode())
	if err != nil {
		return nil, wrapErr("gutendex", err, nil)
	}

	var page domain.BookPage
	if err := decode("gutendex", body, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []domain.Book{}
	}
	return &page, nil
}

// NormalizeTopic lowercases a topic and joins its words with underscores
func NormalizeTopic(topic string) string {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return DefaultTopic
	}
	return strings.Join(words, "_")
}
